package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"

	"github.com/polkiloo/arkpay/internal/adapter/gateway"
	"github.com/polkiloo/arkpay/internal/config"
	domainErrors "github.com/polkiloo/arkpay/internal/domain/errors"
	"github.com/polkiloo/arkpay/internal/domain/model"
	"github.com/polkiloo/arkpay/internal/domain/repository"
)

// Dispatcher schedules follow-ups after a commit.
type Dispatcher interface {
	Dispatch(ctx context.Context, reference string, actions []FollowUp)
}

// OrderUseCase places orders on either the payment or the discount path.
type OrderUseCase struct {
	orders      repository.OrderRepository
	settlements repository.SettlementRepository
	discounts   *DiscountUseCase
	gateway     gateway.Client
	followUps   *FollowUps
	dispatcher  Dispatcher
	callbackURL string
	logger      *slog.Logger
	now         func() time.Time
}

type OrderParams struct {
	fx.In

	Orders      repository.OrderRepository
	Settlements repository.SettlementRepository
	Discounts   *DiscountUseCase
	Gateway     gateway.Client
	FollowUps   *FollowUps
	Dispatcher  Dispatcher
	Config      *config.Config
	Logger      *slog.Logger
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(p OrderParams) *OrderUseCase {
	return &OrderUseCase{
		orders:      p.Orders,
		settlements: p.Settlements,
		discounts:   p.Discounts,
		gateway:     p.Gateway,
		followUps:   p.FollowUps,
		dispatcher:  p.Dispatcher,
		callbackURL: p.Config.CallbackURL,
		logger:      p.Logger,
		now:         time.Now,
	}
}

// Place creates an order. A discount code settles it immediately, otherwise a
// gateway transaction is opened and the order waits for payment.
func (u *OrderUseCase) Place(ctx context.Context, req model.OrderRequest) (*model.PlacedOrder, error) {
	if strings.TrimSpace(req.DiscountCode) != "" {
		return u.placeWithDiscount(ctx, req)
	}
	return u.placeWithPayment(ctx, req)
}

func (u *OrderUseCase) placeWithDiscount(ctx context.Context, req model.OrderRequest) (*model.PlacedOrder, error) {
	validation, err := u.discounts.Validate(ctx, req.DiscountCode)
	if err != nil {
		return nil, err
	}
	if !validation.Valid() {
		return nil, fmt.Errorf("%w: %w", domainErrors.ErrValidation, stateError(validation.State))
	}

	order := u.newOrder(req, model.DiscountReferencePrefix)
	order.Status = model.OrderStatusCompleted
	order.Amount = decimal.Zero
	order.DiscountCode = validation.Code
	order.TransactionID = model.DiscountTransactionID

	created, err := u.settlements.SettleWithDiscount(ctx, order, u.now())
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotRedeemable) {
			return nil, u.discounts.rejection(ctx, validation.Code)
		}
		u.logger.Error("discount order not stored",
			slog.String("code", validation.Code),
			slog.String("reference", order.Reference),
			slog.Any("error", err))
		return nil, err
	}

	u.logger.Info("order settled with discount code",
		slog.String("reference", created.Reference),
		slog.String("code", created.DiscountCode))
	u.dispatcher.Dispatch(ctx, created.Reference, u.followUps.DiscountSettled(*created))

	return &model.PlacedOrder{Order: created}, nil
}

func (u *OrderUseCase) placeWithPayment(ctx context.Context, req model.OrderRequest) (*model.PlacedOrder, error) {
	if strings.TrimSpace(req.Email) == "" {
		return nil, fmt.Errorf("%w: email is required for card payment", domainErrors.ErrValidation)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be greater than zero", domainErrors.ErrValidation)
	}

	order := u.newOrder(req, model.PaymentReferencePrefix)
	order.Status = model.OrderStatusPending
	order.Amount = req.Amount

	checkout, err := u.gateway.Initialize(ctx, model.CheckoutRequest{
		Email:       order.Email,
		Amount:      order.Amount,
		Currency:    order.Currency,
		Reference:   order.Reference,
		CallbackURL: u.callbackURL,
	})
	if err != nil {
		u.logger.Error("transaction initialization failed",
			slog.String("reference", order.Reference),
			slog.Any("error", err))
		if !errors.Is(err, domainErrors.ErrGateway) {
			err = fmt.Errorf("%w: %w", domainErrors.ErrGateway, err)
		}
		return nil, err
	}
	if checkout.Reference != "" {
		order.Reference = checkout.Reference
	}
	order.AccessCode = checkout.AccessCode

	created, err := u.orders.Create(ctx, order)
	if err != nil {
		return nil, err
	}

	u.logger.Info("payment order created", slog.String("reference", created.Reference))
	return &model.PlacedOrder{Order: created, PaymentURL: checkout.AuthorizationURL}, nil
}

func (u *OrderUseCase) newOrder(req model.OrderRequest, prefix string) *model.Order {
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = model.DefaultCurrency
	}
	state := strings.TrimSpace(req.State)
	return &model.Order{
		Reference: NewReference(prefix, u.now()),
		Currency:  currency,
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		Address:   strings.TrimSpace(req.Address),
		City:      strings.TrimSpace(req.City),
		State:     state,
		Country:   state,
		CardLink:  strings.TrimSpace(req.CardLink),
	}
}
