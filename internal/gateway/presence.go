package gateway

import (
	"context"
	"time"

	"github.com/andreyxaxa/Access-Gate/pkg/clock"
	"github.com/andreyxaxa/Access-Gate/pkg/logger"
)

const (
	_presenceDetected    = "Person detected"
	_presenceNotDetected = "Person not detected"
	_initializing        = "Initializing..."
)

type Sensor interface {
	// Measure returns the distance in centimetres.
	Measure(ctx context.Context) (float64, error)
}

// PresenceTask polls the sensor. A reading below threshold means someone is
// there. The reported state flips only after `debounce` consecutive readings
// agree.
type PresenceTask struct {
	sensor    Sensor
	display   chan<- DisplayMessage
	trigger   chan<- struct{}
	threshold float64
	interval  time.Duration
	debounce  int
	clock     clock.Clock
	logger    logger.Interface

	present bool
	streak  int
}

func NewPresenceTask(
	sensor Sensor,
	display chan<- DisplayMessage,
	trigger chan<- struct{},
	threshold float64,
	interval time.Duration,
	debounce int,
	c clock.Clock,
	l logger.Interface,
) *PresenceTask {
	if debounce < 1 {
		debounce = 1
	}

	return &PresenceTask{
		sensor:    sensor,
		display:   display,
		trigger:   trigger,
		threshold: threshold,
		interval:  interval,
		debounce:  debounce,
		clock:     c,
		logger:    l,
	}
}

func (t *PresenceTask) Run(ctx context.Context) error {
	if !send(ctx, t.display, TextMessage(_initializing)) {
		return nil
	}

	for {
		t.poll(ctx)

		select {
		case <-ctx.Done():
			return nil
		case <-t.clock.After(t.interval):
		}
	}
}

// poll takes one reading. A failed reading is logged and skipped; it never
// counts towards a transition.
func (t *PresenceTask) poll(ctx context.Context) {
	distance, err := t.sensor.Measure(ctx)
	if err != nil {
		t.logger.Warn("PresenceTask - poll - t.sensor.Measure: %v", err)
		return
	}

	present := distance < t.threshold
	if present == t.present {
		t.streak = 0
		return
	}

	t.streak++
	if t.streak < t.debounce {
		return
	}

	t.present = present
	t.streak = 0

	if !present {
		t.logger.Info("PresenceTask - poll - cleared at %.1fcm", distance)
		send(ctx, t.display, TextMessage(_presenceNotDetected))

		return
	}

	t.logger.Info("PresenceTask - poll - detected at %.1fcm", distance)
	send(ctx, t.display, TextMessage(_presenceDetected))

	// a pending trigger already covers this arrival
	select {
	case t.trigger <- struct{}{}:
	default:
		t.logger.Debug("PresenceTask - poll - capture already pending")
	}
}

// send blocks until the message is queued or ctx is done.
func send(ctx context.Context, ch chan<- DisplayMessage, msg DisplayMessage) bool {
	select {
	case ch <- msg:
		return true
	case <-ctx.Done():
		return false
	}
}
