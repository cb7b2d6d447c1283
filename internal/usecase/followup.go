package usecase

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/polkiloo/arkpay/internal/adapter/provisioning"
	"github.com/polkiloo/arkpay/internal/config"
	domainErrors "github.com/polkiloo/arkpay/internal/domain/errors"
	"github.com/polkiloo/arkpay/internal/domain/model"
)

// Notifier sends buyer and seller messages about settled orders.
type Notifier interface {
	PaymentSucceeded(ctx context.Context, order model.Order) error
	DiscountApplied(ctx context.Context, order model.Order) error
	OrderReceived(ctx context.Context, order model.Order) error
}

// FollowUp is a best effort action run after an order settles.
type FollowUp struct {
	Name string
	Run  func(ctx context.Context) error
}

// FollowUps builds the actions that follow a settlement.
type FollowUps struct {
	notifier    Notifier
	provisioner provisioning.Provisioner
	logger      *slog.Logger
}

func NewFollowUps(notifier Notifier, provisioner provisioning.Provisioner, logger *slog.Logger) *FollowUps {
	return &FollowUps{notifier: notifier, provisioner: provisioner, logger: logger}
}

// PaymentCompleted lists actions for an order the gateway confirmed.
func (f *FollowUps) PaymentCompleted(order model.Order) []FollowUp {
	actions := []FollowUp{f.provision(order)}
	if order.Email != "" {
		actions = append(actions, FollowUp{
			Name: "notify buyer",
			Run:  func(ctx context.Context) error { return f.notifier.PaymentSucceeded(ctx, order) },
		})
	}
	return append(actions, f.notifySeller(order))
}

// DiscountSettled lists actions for an order settled by a discount code.
func (f *FollowUps) DiscountSettled(order model.Order) []FollowUp {
	actions := []FollowUp{f.provision(order)}
	if order.Email != "" {
		actions = append(actions, FollowUp{
			Name: "notify buyer",
			Run:  func(ctx context.Context) error { return f.notifier.DiscountApplied(ctx, order) },
		})
	}
	return append(actions, f.notifySeller(order))
}

func (f *FollowUps) provision(order model.Order) FollowUp {
	return FollowUp{
		Name: "provision card",
		Run: func(ctx context.Context) error {
			username := CardUsername(order.CardLink)
			if username == "" {
				f.logger.Warn("card provisioning skipped, no username in card link",
					slog.String("reference", order.Reference),
					slog.String("card_link", order.CardLink))
				return nil
			}
			return f.provisioner.Provision(ctx, username, order.Email)
		},
	}
}

func (f *FollowUps) notifySeller(order model.Order) FollowUp {
	return FollowUp{
		Name: "notify seller",
		Run:  func(ctx context.Context) error { return f.notifier.OrderReceived(ctx, order) },
	}
}

// CardUsername returns the last non-empty path segment of a card link.
func CardUsername(cardLink string) string {
	cardLink = strings.TrimSpace(cardLink)
	if cardLink == "" {
		return ""
	}
	p := cardLink
	if parsed, err := url.Parse(cardLink); err == nil && parsed.Host != "" {
		p = parsed.Path
	}
	segments := strings.Split(p, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if s := strings.TrimSpace(segments[i]); s != "" {
			return s
		}
	}
	return ""
}

// FollowUpRunner executes follow-ups in the background, detached from the request.
type FollowUpRunner struct {
	timeout time.Duration
	logger  *slog.Logger
	wg      sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

func NewFollowUpRunner(cfg *config.Config, logger *slog.Logger) *FollowUpRunner {
	timeout := cfg.FollowUpTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &FollowUpRunner{timeout: timeout, logger: logger}
}

// Dispatch runs actions in order. Failures are logged and never returned.
// Once Drain has started new actions are dropped.
func (r *FollowUpRunner) Dispatch(ctx context.Context, reference string, actions []FollowUp) {
	if len(actions) == 0 {
		return
	}
	detached := context.WithoutCancel(ctx)

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		r.logger.Warn("follow-ups dropped during shutdown",
			slog.String("reference", reference),
			slog.Int("actions", len(actions)))
		return
	}
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()
		runCtx, cancel := context.WithTimeout(detached, r.timeout)
		defer cancel()
		for _, action := range actions {
			r.run(runCtx, reference, action)
		}
	}()
}

func (r *FollowUpRunner) run(ctx context.Context, reference string, action FollowUp) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("follow-up panicked",
				slog.String("reference", reference),
				slog.String("action", action.Name),
				slog.Any("panic", p))
		}
	}()

	err := action.Run(ctx)
	switch {
	case err == nil:
		r.logger.Debug("follow-up done", slog.String("reference", reference), slog.String("action", action.Name))
	case errors.Is(err, domainErrors.ErrAlreadyProvisioned):
		r.logger.Info("follow-up skipped, already provisioned", slog.String("reference", reference), slog.String("action", action.Name))
	default:
		r.logger.Error("follow-up failed",
			slog.String("reference", reference),
			slog.String("action", action.Name),
			slog.Any("error", err))
	}
}

// Drain stops accepting follow-ups and waits for running ones or until ctx is done.
func (r *FollowUpRunner) Drain(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
