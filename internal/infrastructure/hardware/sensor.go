package hardware

import (
	"context"
	"fmt"
	"time"

	"github.com/andreyxaxa/Access-Gate/pkg/clock"
	"github.com/andreyxaxa/Access-Gate/pkg/types/errs"
)

const (
	_triggerSettle = 2 * time.Microsecond
	_triggerPulse  = 10 * time.Microsecond
)

// Ultrasonic is an HC-SR04 style ranger: a 10us trigger pulse, then an echo
// pulse whose width is the round trip time.
type Ultrasonic struct {
	trig    OutputPin
	echo    InputPin
	timeout time.Duration
	clock   clock.Clock
}

func NewUltrasonic(trig OutputPin, echo InputPin, echoTimeout time.Duration, c clock.Clock) *Ultrasonic {
	return &Ultrasonic{trig: trig, echo: echo, timeout: echoTimeout, clock: c}
}

// Measure returns the distance in centimetres. Each edge wait is bounded by
// the echo timeout and fails with errs.ErrTimeout.
func (u *Ultrasonic) Measure(ctx context.Context) (float64, error) {
	if err := u.pulse(); err != nil {
		return 0, fmt.Errorf("Ultrasonic - Measure - u.pulse: %w", err)
	}

	if _, err := u.waitFor(ctx, true); err != nil {
		return 0, fmt.Errorf("Ultrasonic - Measure - rising edge: %w", err)
	}
	start := u.clock.Now()

	end, err := u.waitFor(ctx, false)
	if err != nil {
		return 0, fmt.Errorf("Ultrasonic - Measure - falling edge: %w", err)
	}

	return EchoToCentimetres(end.Sub(start)), nil
}

// EchoToCentimetres converts a round trip at 343 m/s.
func EchoToCentimetres(d time.Duration) float64 {
	return float64(d.Microseconds()) * 343 / 20000
}

func (u *Ultrasonic) pulse() error {
	if err := u.trig.Set(false); err != nil {
		return err
	}
	time.Sleep(_triggerSettle)

	if err := u.trig.Set(true); err != nil {
		return err
	}
	time.Sleep(_triggerPulse)

	return u.trig.Set(false)
}

func (u *Ultrasonic) waitFor(ctx context.Context, level bool) (time.Time, error) {
	deadline := u.clock.Now().Add(u.timeout)

	for {
		v, err := u.echo.Get()
		if err != nil {
			return time.Time{}, err
		}

		now := u.clock.Now()
		if v == level {
			return now, nil
		}
		if now.After(deadline) {
			return time.Time{}, errs.ErrTimeout
		}
		if err = ctx.Err(); err != nil {
			return time.Time{}, err
		}
	}
}

// SimulatedSensor replays a fixed list of readings, then repeats the last.
type SimulatedSensor struct {
	readings []Reading
	i        int
}

type Reading struct {
	Distance float64
	Err      error
}

func NewSimulatedSensor(readings ...Reading) *SimulatedSensor {
	return &SimulatedSensor{readings: readings}
}

func (s *SimulatedSensor) Measure(_ context.Context) (float64, error) {
	if len(s.readings) == 0 {
		return 0, errs.ErrTimeout
	}

	r := s.readings[min(s.i, len(s.readings)-1)]
	s.i++

	return r.Distance, r.Err
}
