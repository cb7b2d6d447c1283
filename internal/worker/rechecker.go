package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/polkiloo/arkpay/internal/adapter/gateway"
	"github.com/polkiloo/arkpay/internal/domain/model"
)

// RecheckFacade exposes the subset of application functionality required by the rechecker.
type RecheckFacade interface {
	StaleOrders(ctx context.Context, olderThan time.Duration, limit int) ([]model.Order, error)
	RecheckOrder(ctx context.Context, reference string) error
}

// Rechecker periodically asks the gateway about pending orders nobody reconciled.
type Rechecker struct {
	facade    RecheckFacade
	interval  time.Duration
	olderThan time.Duration
	batchSize int
	workers   int
	logger    *slog.Logger

	jobs   chan model.Order
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex

	pauseMu     sync.Mutex
	pausedUntil time.Time
}

// NewRechecker constructs the recheck worker pool.
func NewRechecker(facade RecheckFacade, interval, olderThan time.Duration, batchSize, workers int, logger *slog.Logger) *Rechecker {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &Rechecker{
		facade:    facade,
		interval:  interval,
		olderThan: olderThan,
		batchSize: batchSize,
		workers:   workers,
		logger:    logger,
		jobs:      make(chan model.Order, batchSize*workers),
	}
}

// Start launches background processing.
func (r *Rechecker) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.worker(runCtx)
	}

	r.wg.Add(1)
	go r.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (r *Rechecker) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *Rechecker) dispatch(ctx context.Context) {
	defer r.wg.Done()
	defer close(r.jobs)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if r.paused() {
				continue
			}
			r.fetchAndDispatch(ctx)
		}
	}
}

func (r *Rechecker) fetchAndDispatch(ctx context.Context) {
	orders, err := r.facade.StaleOrders(ctx, r.olderThan, r.batchSize)
	if err != nil {
		r.logger.Error("fetch stale orders failed", slog.String("error", err.Error()))
		return
	}
	for _, order := range orders {
		select {
		case <-ctx.Done():
			return
		case r.jobs <- order:
		}
	}
}

func (r *Rechecker) worker(ctx context.Context) {
	defer r.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case order, ok := <-r.jobs:
			if !ok {
				return
			}
			r.handleOrder(ctx, order)
		}
	}
}

func (r *Rechecker) handleOrder(ctx context.Context, order model.Order) {
	if r.paused() {
		return
	}
	err := r.facade.RecheckOrder(ctx, order.Reference)
	if err == nil {
		return
	}
	if delay, limited := gateway.RetryAfter(err); limited {
		r.logger.Warn("gateway rate limited", slog.Duration("retry_after", delay))
		r.pause(delay)
		return
	}
	r.logger.Error("recheck order failed", slog.String("reference", order.Reference), slog.String("error", err.Error()))
}

func (r *Rechecker) pause(delay time.Duration) {
	r.pauseMu.Lock()
	defer r.pauseMu.Unlock()
	if until := time.Now().Add(delay); until.After(r.pausedUntil) {
		r.pausedUntil = until
	}
}

func (r *Rechecker) paused() bool {
	r.pauseMu.Lock()
	defer r.pauseMu.Unlock()
	return time.Now().Before(r.pausedUntil)
}
