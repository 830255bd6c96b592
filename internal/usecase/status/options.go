package status

import "github.com/andreyxaxa/Access-Gate/pkg/clock"

type Option func(*StatusUseCase)

func WithClock(c clock.Clock) Option {
	return func(uc *StatusUseCase) {
		uc.clock = c
	}
}
