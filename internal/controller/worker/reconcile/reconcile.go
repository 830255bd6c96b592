package reconcile

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/andreyxaxa/Access-Gate/internal/usecase"
	"github.com/andreyxaxa/Access-Gate/pkg/logger"
)

// Sweeper periodically repairs Pictures left without a Status.
type Sweeper struct {
	uc     usecase.ReconcileUseCase
	logger logger.Interface

	interval     time.Duration
	gracePeriod  time.Duration
	sweepTimeout time.Duration
	batchSize    int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	started atomic.Bool
}

func New(
	uc usecase.ReconcileUseCase,
	l logger.Interface,
	interval time.Duration,
	gracePeriod time.Duration,
	sweepTimeout time.Duration,
	batchSize int,
) *Sweeper {
	return &Sweeper{
		uc:           uc,
		logger:       l,
		interval:     interval,
		gracePeriod:  gracePeriod,
		sweepTimeout: sweepTimeout,
		batchSize:    batchSize,
	}
}

func (s *Sweeper) Start(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return fmt.Errorf("Sweeper - Start - worker already started")
	}

	s.ctx, s.cancel = context.WithCancel(ctx)

	s.worker(s.interval, func() {
		sweepCtx, sweepCancel := context.WithTimeout(s.ctx, s.sweepTimeout)
		s.Sweep(sweepCtx)
		sweepCancel()
	})

	return nil
}

// Sweep runs one pass.
func (s *Sweeper) Sweep(ctx context.Context) int {
	n, err := s.uc.ReconcileOrphans(ctx, s.gracePeriod, s.batchSize)
	if err != nil {
		s.logger.Error(err, "Sweeper - Sweep - s.uc.ReconcileOrphans")
	}
	if n > 0 {
		s.logger.Info("Sweeper - Sweep - repaired %d orphan pictures", n)
	}

	return n
}

func (s *Sweeper) worker(interval time.Duration, task func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				task()
			}
		}
	}()
}

func (s *Sweeper) Shutdown(ctx context.Context) error {
	if !s.started.Load() {
		return nil
	}

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})

	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("Sweeper - Shutdown: %w", ctx.Err())
	}
}
