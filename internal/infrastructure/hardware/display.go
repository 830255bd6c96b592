package hardware

import (
	"context"
	"strings"

	"github.com/andreyxaxa/Access-Gate/pkg/logger"
)

// LogDisplay writes what an LCD would show to the log.
type LogDisplay struct {
	logger logger.Interface
}

func NewLogDisplay(l logger.Interface) *LogDisplay {
	return &LogDisplay{logger: l}
}

func (d *LogDisplay) Init(context.Context) error { return nil }

func (d *LogDisplay) Show(_ context.Context, lines ...string) error {
	d.logger.Info("display: %s", strings.Join(lines, " | "))
	return nil
}

func (d *LogDisplay) Clear(context.Context) error {
	d.logger.Info("display: <clear>")
	return nil
}
