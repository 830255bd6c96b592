package capture

import (
	"time"

	"github.com/andreyxaxa/Access-Gate/pkg/clock"
)

type Option func(*CaptureUseCase)

// Settle is the wait between flash on and reading the frame.
func Settle(d time.Duration) Option {
	return func(uc *CaptureUseCase) {
		uc.settle = d
	}
}

func WithClock(c clock.Clock) Option {
	return func(uc *CaptureUseCase) {
		uc.clock = c
	}
}
