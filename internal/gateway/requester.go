package gateway

import (
	"context"
	"errors"

	"github.com/andreyxaxa/Access-Gate/internal/entity"
	"github.com/andreyxaxa/Access-Gate/pkg/logger"
)

const _capturing = "Capturing..."

type Capturer interface {
	RequestCapture(ctx context.Context) (*entity.StatusProjection, error)
}

// RequestTask turns presence triggers into capture requests. It never
// retries; the next trigger is the retry.
type RequestTask struct {
	client  Capturer
	trigger <-chan struct{}
	display chan<- DisplayMessage
	machine *Machine
	logger  logger.Interface
}

func NewRequestTask(
	client Capturer,
	trigger <-chan struct{},
	display chan<- DisplayMessage,
	m *Machine,
	l logger.Interface,
) *RequestTask {
	return &RequestTask{
		client:  client,
		trigger: trigger,
		display: display,
		machine: m,
		logger:  l,
	}
}

func (t *RequestTask) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.trigger:
			t.handle(ctx)
		}
	}
}

func (t *RequestTask) handle(ctx context.Context) {
	if err := t.machine.Transition(AwaitingCapture); err != nil {
		t.logger.Warn("RequestTask - handle - %v", err)
	}
	send(ctx, t.display, TextMessage(_capturing))

	projection, err := t.client.RequestCapture(ctx)
	if err != nil {
		t.logger.Error(err, "RequestTask - handle - t.client.RequestCapture")

		reason := "Unknown Error"
		var ce *ClientError
		if errors.As(err, &ce) {
			reason = ce.Kind.Reason()
		}

		t.machine.TransitionFrom(AwaitingCapture, Ready)
		send(ctx, t.display, FailureMessage(reason))

		return
	}

	t.logger.Info("RequestTask - handle - status %s pending review", projection.ID)

	t.machine.TransitionFrom(AwaitingCapture, AwaitingDecision)
	send(ctx, t.display, PendingMessage(projection))
}
