package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// ExpireFacade expires stale pending orders.
type ExpireFacade interface {
	ExpireStaleOrders(ctx context.Context, olderThan time.Duration) (int64, error)
}

// Sweeper force-expires pending orders older than the threshold on a fixed interval.
type Sweeper struct {
	facade    ExpireFacade
	interval  time.Duration
	olderThan time.Duration
	logger    *slog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

func NewSweeper(facade ExpireFacade, interval, olderThan time.Duration, logger *slog.Logger) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Sweeper{facade: facade, interval: interval, olderThan: olderThan, logger: logger}
}

// Start sweeps once immediately and then on every tick.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.loop(runCtx)
}

// Stop waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *Sweeper) loop(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.Sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs one expiry pass.
func (s *Sweeper) Sweep(ctx context.Context) {
	expired, err := s.facade.ExpireStaleOrders(ctx, s.olderThan)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Error("sweep pending orders failed", slog.String("error", err.Error()))
		}
		return
	}
	s.logger.Debug("sweep finished", slog.Int64("expired", expired))
}
