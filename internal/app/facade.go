package app

import (
	"context"
	"time"

	"go.uber.org/fx"

	"github.com/polkiloo/arkpay/internal/domain/model"
	"github.com/polkiloo/arkpay/internal/usecase"
)

// HealthChecker reports whether the database answers.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type CheckoutFacade struct {
	orders    *usecase.OrderUseCase
	reconcile *usecase.ReconcileUseCase
	discounts *usecase.DiscountUseCase
	admin     *usecase.AdminUseCase
	health    HealthChecker
}

type FacadeParams struct {
	fx.In

	Orders    *usecase.OrderUseCase
	Reconcile *usecase.ReconcileUseCase
	Discounts *usecase.DiscountUseCase
	Admin     *usecase.AdminUseCase
	Health    HealthChecker
}

func NewCheckoutFacade(p FacadeParams) *CheckoutFacade {
	return &CheckoutFacade{
		orders:    p.Orders,
		reconcile: p.Reconcile,
		discounts: p.Discounts,
		admin:     p.Admin,
		health:    p.Health,
	}
}

func (f *CheckoutFacade) PlaceOrder(ctx context.Context, req model.OrderRequest) (*model.PlacedOrder, error) {
	return f.orders.Place(ctx, req)
}

func (f *CheckoutFacade) PaymentCallback(ctx context.Context, reference string) string {
	return f.reconcile.CallbackRedirect(ctx, reference)
}

func (f *CheckoutFacade) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	return f.reconcile.HandleWebhook(ctx, payload, signature)
}

func (f *CheckoutFacade) VerifyPayment(ctx context.Context, reference string) (*model.Order, bool, error) {
	return f.reconcile.Poll(ctx, reference)
}

func (f *CheckoutFacade) ExpireStaleOrders(ctx context.Context, olderThan time.Duration) (int64, error) {
	return f.reconcile.ExpireStale(ctx, olderThan)
}

func (f *CheckoutFacade) StaleOrders(ctx context.Context, olderThan time.Duration, limit int) ([]model.Order, error) {
	return f.reconcile.StalePending(ctx, olderThan, limit)
}

func (f *CheckoutFacade) RecheckOrder(ctx context.Context, reference string) error {
	_, err := f.reconcile.Recheck(ctx, reference)
	return err
}

func (f *CheckoutFacade) CreateDiscount(ctx context.Context, req model.NewDiscount) (*model.DiscountCode, error) {
	return f.discounts.Create(ctx, req)
}

func (f *CheckoutFacade) CreateDiscounts(ctx context.Context, count int, req model.NewDiscount) (*model.BulkResult, error) {
	return f.discounts.CreateBulk(ctx, count, req)
}

func (f *CheckoutFacade) Discounts(ctx context.Context) ([]model.DiscountCode, error) {
	return f.discounts.List(ctx)
}

func (f *CheckoutFacade) ValidateDiscount(ctx context.Context, code string) (*model.DiscountValidation, error) {
	return f.discounts.Validate(ctx, code)
}

func (f *CheckoutFacade) DeactivateDiscount(ctx context.Context, code string) (*model.DiscountCode, error) {
	return f.discounts.Deactivate(ctx, code)
}

func (f *CheckoutFacade) AdminLogin(ctx context.Context, password string) (string, error) {
	return f.admin.Login(ctx, password)
}

func (f *CheckoutFacade) ParseToken(token string) (string, error) {
	return f.admin.ParseToken(token)
}

func (f *CheckoutFacade) Health(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}
