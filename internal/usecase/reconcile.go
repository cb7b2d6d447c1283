package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/fx"

	"github.com/polkiloo/arkpay/internal/adapter/gateway"
	"github.com/polkiloo/arkpay/internal/config"
	domainErrors "github.com/polkiloo/arkpay/internal/domain/errors"
	"github.com/polkiloo/arkpay/internal/domain/model"
	"github.com/polkiloo/arkpay/internal/domain/repository"
	"github.com/polkiloo/arkpay/internal/pkg/signature"
)

const (
	EventChargeSuccess = "charge.success"
	EventChargeFailed  = "charge.failed"
)

// Reconciliation is the outcome of one reconciliation attempt.
type Reconciliation struct {
	Order *model.Order
	// Applied is set when this attempt moved the order out of pending.
	Applied bool
	// Verified is false when the gateway could not be asked.
	Verified bool
}

// ReconcileUseCase drives order status from callback, webhook, poll and background events.
type ReconcileUseCase struct {
	orders      repository.OrderRepository
	gateway     gateway.Client
	verifier    signature.Verifier
	followUps   *FollowUps
	dispatcher  Dispatcher
	frontendURL string
	pendingTTL  time.Duration
	logger      *slog.Logger
	now         func() time.Time
}

type ReconcileParams struct {
	fx.In

	Orders     repository.OrderRepository
	Gateway    gateway.Client
	Verifier   signature.Verifier
	FollowUps  *FollowUps
	Dispatcher Dispatcher
	Config     *config.Config
	Logger     *slog.Logger
}

// NewReconcileUseCase constructs ReconcileUseCase.
func NewReconcileUseCase(p ReconcileParams) *ReconcileUseCase {
	return &ReconcileUseCase{
		orders:      p.Orders,
		gateway:     p.Gateway,
		verifier:    p.Verifier,
		followUps:   p.FollowUps,
		dispatcher:  p.Dispatcher,
		frontendURL: strings.TrimRight(p.Config.FrontendURL, "/"),
		pendingTTL:  p.Config.PendingOrderTTL,
		logger:      p.Logger,
		now:         time.Now,
	}
}

// Reconcile asks the gateway about a pending order and applies the answer.
// Settled orders are returned as they are. When the gateway fails the current
// order is returned unverified together with an ErrGateway error.
func (u *ReconcileUseCase) Reconcile(ctx context.Context, reference string, source model.EventSource) (*Reconciliation, error) {
	order, err := u.orders.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if order.Status.IsTerminal() {
		return &Reconciliation{Order: order, Verified: true}, nil
	}

	verification, err := u.gateway.Verify(ctx, reference)
	if err != nil {
		u.logger.Warn("payment verification failed",
			slog.String("reference", reference),
			slog.String("source", string(source)),
			slog.Any("error", err))
		if !errors.Is(err, domainErrors.ErrGateway) {
			err = fmt.Errorf("%w: %w", domainErrors.ErrGateway, err)
		}
		return &Reconciliation{Order: order, Verified: false}, err
	}

	target := verification.Status.OrderStatus()
	if target == model.OrderStatusPending {
		return &Reconciliation{Order: order, Verified: true}, nil
	}

	if target == model.OrderStatusCompleted && !verification.Amount.IsZero() && !verification.Amount.Equal(order.Amount) {
		u.logger.Warn("gateway amount differs from order amount",
			slog.String("reference", reference),
			slog.String("order_amount", order.Amount.String()),
			slog.String("paid_amount", verification.Amount.String()))
	}

	updated, applied, err := u.orders.Transition(ctx, reference, target, verification.TransactionID)
	if err != nil {
		return nil, err
	}

	if applied {
		u.logger.Info("order status changed",
			slog.String("reference", reference),
			slog.String("status", string(updated.Status)),
			slog.String("source", string(source)))
		if updated.Status == model.OrderStatusCompleted {
			u.dispatcher.Dispatch(ctx, reference, u.followUps.PaymentCompleted(*updated))
		}
	}

	return &Reconciliation{Order: updated, Applied: applied, Verified: true}, nil
}

// Poll serves buyer status checks. A gateway failure is reported as unverified, not as an error.
func (u *ReconcileUseCase) Poll(ctx context.Context, reference string) (*model.Order, bool, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, false, fmt.Errorf("%w: reference is required", domainErrors.ErrValidation)
	}

	result, err := u.Reconcile(ctx, reference, model.SourcePoll)
	if err != nil {
		if errors.Is(err, domainErrors.ErrGateway) && result != nil {
			return result.Order, false, nil
		}
		return nil, false, err
	}
	return result.Order, result.Verified, nil
}

// CallbackRedirect reconciles the order the buyer returned for and picks the frontend page to show.
func (u *ReconcileUseCase) CallbackRedirect(ctx context.Context, reference string) string {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return u.errorPage("No reference provided")
	}

	result, err := u.Reconcile(ctx, reference, model.SourceCallback)
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		return u.errorPage("Order not found")
	case err != nil:
		return u.errorPage("Payment verification failed")
	}

	switch result.Order.Status {
	case model.OrderStatusCompleted:
		return u.page("success", url.Values{
			"reference": {reference},
			"order":     {strconv.FormatInt(result.Order.ID, 10)},
		})
	case model.OrderStatusFailed, model.OrderStatusExpired:
		return u.page("failed", url.Values{"reference": {reference}})
	default:
		return u.page("pending", url.Values{"reference": {reference}})
	}
}

func (u *ReconcileUseCase) errorPage(message string) string {
	return u.page("error", url.Values{"message": {message}})
}

func (u *ReconcileUseCase) page(name string, query url.Values) string {
	return u.frontendURL + "/payment/" + name + "?" + query.Encode()
}

type webhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string          `json:"reference"`
		ID        json.RawMessage `json:"id"`
		Status    string          `json:"status"`
	} `json:"data"`
}

// HandleWebhook authenticates and applies a gateway notification.
// The signature is checked before the body is parsed or any order is read.
func (u *ReconcileUseCase) HandleWebhook(ctx context.Context, payload []byte, sig string) error {
	if err := u.verifier.Verify(payload, sig); err != nil {
		u.logger.Warn("webhook rejected, bad signature")
		return err
	}

	var event webhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("%w: malformed webhook body", domainErrors.ErrValidation)
	}

	switch event.Event {
	case EventChargeSuccess, EventChargeFailed:
	default:
		u.logger.Info("webhook event ignored", slog.String("event", event.Event))
		return nil
	}

	reference := strings.TrimSpace(event.Data.Reference)
	if reference == "" {
		return fmt.Errorf("%w: webhook without reference", domainErrors.ErrValidation)
	}

	_, err := u.Reconcile(ctx, reference, model.SourceWebhook)
	if errors.Is(err, domainErrors.ErrNotFound) {
		u.logger.Warn("webhook for unknown order", slog.String("reference", reference), slog.String("event", event.Event))
		return nil
	}
	return err
}

// Recheck reconciles a stale pending order and records the attempt while it stays pending.
func (u *ReconcileUseCase) Recheck(ctx context.Context, reference string) (*Reconciliation, error) {
	result, err := u.Reconcile(ctx, reference, model.SourceRecheck)
	if result != nil && result.Order != nil && result.Order.Status == model.OrderStatusPending {
		if _, limited := gateway.RetryAfter(err); !limited {
			if markErr := u.orders.MarkChecked(ctx, reference); markErr != nil {
				u.logger.Error("failed to mark order checked", slog.String("reference", reference), slog.Any("error", markErr))
			}
		}
	}
	return result, err
}

// ExpireStale moves every pending order older than olderThan to expired.
func (u *ReconcileUseCase) ExpireStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		olderThan = u.pendingTTL
	}
	if olderThan <= 0 {
		return 0, fmt.Errorf("%w: age threshold must be positive", domainErrors.ErrValidation)
	}

	expired, err := u.orders.ExpirePending(ctx, u.now().Add(-olderThan))
	if err != nil {
		return 0, err
	}
	if expired > 0 {
		u.logger.Info("expired stale pending orders", slog.Int64("count", expired), slog.Duration("older_than", olderThan))
	}
	return expired, nil
}

// StalePending lists pending orders older than olderThan, least recently checked first.
func (u *ReconcileUseCase) StalePending(ctx context.Context, olderThan time.Duration, limit int) ([]model.Order, error) {
	if olderThan <= 0 {
		return nil, fmt.Errorf("%w: age threshold must be positive", domainErrors.ErrValidation)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", domainErrors.ErrValidation)
	}
	return u.orders.ListStalePending(ctx, u.now().Add(-olderThan), limit)
}
