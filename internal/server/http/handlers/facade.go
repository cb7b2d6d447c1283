package handlers

import (
	"context"
	"time"

	"github.com/polkiloo/arkpay/internal/domain/model"
)

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	PlaceOrder(ctx context.Context, req model.OrderRequest) (*model.PlacedOrder, error)
	ExpireStaleOrders(ctx context.Context, olderThan time.Duration) (int64, error)
	StaleOrders(ctx context.Context, olderThan time.Duration, limit int) ([]model.Order, error)
}

// PaymentFacade exposes the reconciliation entry points.
type PaymentFacade interface {
	PaymentCallback(ctx context.Context, reference string) string
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	VerifyPayment(ctx context.Context, reference string) (*model.Order, bool, error)
}

// DiscountFacade provides discount ledger operations.
type DiscountFacade interface {
	CreateDiscount(ctx context.Context, req model.NewDiscount) (*model.DiscountCode, error)
	CreateDiscounts(ctx context.Context, count int, req model.NewDiscount) (*model.BulkResult, error)
	Discounts(ctx context.Context) ([]model.DiscountCode, error)
	ValidateDiscount(ctx context.Context, code string) (*model.DiscountValidation, error)
	DeactivateDiscount(ctx context.Context, code string) (*model.DiscountCode, error)
}

// AdminFacade authenticates the operator.
type AdminFacade interface {
	AdminLogin(ctx context.Context, password string) (string, error)
	ParseToken(token string) (string, error)
}

type HealthFacade interface {
	Health(ctx context.Context) error
}

// CheckoutFacade aggregates the full set of operations used across handlers.
type CheckoutFacade interface {
	OrderFacade
	PaymentFacade
	DiscountFacade
	AdminFacade
	HealthFacade
}
