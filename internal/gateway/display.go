package gateway

import (
	"context"

	"github.com/andreyxaxa/Access-Gate/pkg/logger"
)

type Display interface {
	Init(ctx context.Context) error
	Show(ctx context.Context, lines ...string) error
	Clear(ctx context.Context) error
}

// DisplayTask is the single consumer of display messages, so device writes
// never interleave.
type DisplayTask struct {
	display Display
	inbox   <-chan DisplayMessage
	logger  logger.Interface
}

func NewDisplayTask(d Display, inbox <-chan DisplayMessage, l logger.Interface) *DisplayTask {
	return &DisplayTask{display: d, inbox: inbox, logger: l}
}

// Run returns when ctx is done. Device errors are logged and the next
// message is tried.
func (t *DisplayTask) Run(ctx context.Context) error {
	if err := t.display.Init(ctx); err != nil {
		t.logger.Error(err, "DisplayTask - Run - t.display.Init")
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-t.inbox:
			t.render(ctx, msg)
		}
	}
}

func (t *DisplayTask) render(ctx context.Context, msg DisplayMessage) {
	if err := t.display.Clear(ctx); err != nil {
		t.logger.Error(err, "DisplayTask - render - t.display.Clear")
	}

	lines := msg.Lines()
	if len(lines) == 0 {
		return
	}

	if err := t.display.Show(ctx, lines...); err != nil {
		t.logger.Error(err, "DisplayTask - render - t.display.Show")
	}
}
