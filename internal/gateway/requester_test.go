package gateway

import (
	"context"
	"testing"

	"github.com/andreyxaxa/Access-Gate/internal/entity"
	"github.com/andreyxaxa/Access-Gate/pkg/logger"
	"github.com/google/uuid"
)

type stubCapturer struct {
	projection *entity.StatusProjection
	err        error
	calls      int
}

func (s *stubCapturer) RequestCapture(context.Context) (*entity.StatusProjection, error) {
	s.calls++
	return s.projection, s.err
}

func readyMachine(t *testing.T) *Machine {
	t.Helper()

	m := NewMachine(logger.Nop())
	for _, s := range []State{WifiConnecting, Ready} {
		if err := m.Transition(s); err != nil {
			t.Fatal(err)
		}
	}
	return m
}

func TestRequestTaskSuccess(t *testing.T) {
	id := uuid.New()
	cam := &stubCapturer{projection: &entity.StatusProjection{ID: id}}
	display := make(chan DisplayMessage, 2)
	m := readyMachine(t)

	NewRequestTask(cam, nil, display, m, logger.Nop()).handle(context.Background())

	msgs := drain(display)
	if len(msgs) != 2 || msgs[0].Text != _capturing || msgs[1].Kind != KindPending || msgs[1].StatusID != id.String() {
		t.Fatalf("display = %+v", msgs)
	}
	if got := msgs[1].Lines(); got[0] != "Pending review" || got[1] != id.String()[:8] {
		t.Errorf("lines = %v", got)
	}
	if m.Current() != AwaitingDecision {
		t.Errorf("state = %s", m.Current())
	}
}

func TestRequestTaskFailureIsNotRetried(t *testing.T) {
	cam := &stubCapturer{err: &ClientError{Kind: Status, Code: 500}}
	display := make(chan DisplayMessage, 2)
	m := readyMachine(t)

	NewRequestTask(cam, nil, display, m, logger.Nop()).handle(context.Background())

	if cam.calls != 1 {
		t.Errorf("capture calls = %d, want 1", cam.calls)
	}
	msgs := drain(display)
	if len(msgs) != 2 || msgs[1].Kind != KindFailure || msgs[1].Text != "Status Error" {
		t.Fatalf("display = %+v", msgs)
	}
	if m.Current() != Ready {
		t.Errorf("state = %s, want ready", m.Current())
	}
}
