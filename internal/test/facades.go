package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/polkiloo/arkpay/internal/domain/model"
)

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	PlaceFn  func(context.Context, model.OrderRequest) (*model.PlacedOrder, error)
	ExpireFn func(context.Context, time.Duration) (int64, error)
	StaleFn  func(context.Context, time.Duration, int) ([]model.Order, error)
}

// PlaceOrder delegates to provided function or returns a pending order.
func (s OrderFacadeStub) PlaceOrder(ctx context.Context, req model.OrderRequest) (*model.PlacedOrder, error) {
	if s.PlaceFn != nil {
		return s.PlaceFn(ctx, req)
	}
	ref := RandomReference(model.PaymentReferencePrefix)
	return &model.PlacedOrder{
		Order:      &model.Order{ID: 1, Reference: ref, Status: model.OrderStatusPending, Amount: req.Amount, Currency: model.DefaultCurrency},
		PaymentURL: "https://checkout.test/" + ref,
	}, nil
}

// ExpireStaleOrders returns the configured count.
func (s OrderFacadeStub) ExpireStaleOrders(ctx context.Context, olderThan time.Duration) (int64, error) {
	if s.ExpireFn != nil {
		return s.ExpireFn(ctx, olderThan)
	}
	return 0, nil
}

// StaleOrders returns predefined stale orders.
func (s OrderFacadeStub) StaleOrders(ctx context.Context, olderThan time.Duration, limit int) ([]model.Order, error) {
	if s.StaleFn != nil {
		return s.StaleFn(ctx, olderThan, limit)
	}
	return nil, nil
}

// PaymentFacadeStub simulates reconciliation entry points.
type PaymentFacadeStub struct {
	CallbackFn func(context.Context, string) string
	WebhookFn  func(context.Context, []byte, string) error
	VerifyFn   func(context.Context, string) (*model.Order, bool, error)
}

// PaymentCallback returns the configured redirect target.
func (s PaymentFacadeStub) PaymentCallback(ctx context.Context, reference string) string {
	if s.CallbackFn != nil {
		return s.CallbackFn(ctx, reference)
	}
	return "https://shop.test/payment/pending?reference=" + reference
}

// HandleWebhook accepts every notification unless overridden.
func (s PaymentFacadeStub) HandleWebhook(ctx context.Context, payload []byte, sig string) error {
	if s.WebhookFn != nil {
		return s.WebhookFn(ctx, payload, sig)
	}
	return nil
}

// VerifyPayment returns a verified pending order by default.
func (s PaymentFacadeStub) VerifyPayment(ctx context.Context, reference string) (*model.Order, bool, error) {
	if s.VerifyFn != nil {
		return s.VerifyFn(ctx, reference)
	}
	return &model.Order{Reference: reference, Status: model.OrderStatusPending}, true, nil
}

// DiscountFacadeStub simulates discount ledger operations.
type DiscountFacadeStub struct {
	CreateFn     func(context.Context, model.NewDiscount) (*model.DiscountCode, error)
	BulkFn       func(context.Context, int, model.NewDiscount) (*model.BulkResult, error)
	ListFn       func(context.Context) ([]model.DiscountCode, error)
	ValidateFn   func(context.Context, string) (*model.DiscountValidation, error)
	DeactivateFn func(context.Context, string) (*model.DiscountCode, error)
}

// CreateDiscount echoes the request as an active code.
func (s DiscountFacadeStub) CreateDiscount(ctx context.Context, req model.NewDiscount) (*model.DiscountCode, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, req)
	}
	code := req.Code
	if code == "" {
		code = RandomCode(8)
	}
	return &model.DiscountCode{ID: 1, Code: code, Description: req.Description, IsActive: true, UsageLimit: req.UsageLimit, ExpiryDate: req.ExpiryDate}, nil
}

// CreateDiscounts returns count generated codes.
func (s DiscountFacadeStub) CreateDiscounts(ctx context.Context, count int, req model.NewDiscount) (*model.BulkResult, error) {
	if s.BulkFn != nil {
		return s.BulkFn(ctx, count, req)
	}
	result := &model.BulkResult{Created: count}
	for i := 0; i < count; i++ {
		result.Codes = append(result.Codes, model.DiscountCode{ID: int64(i + 1), Code: RandomCode(8), IsActive: true})
	}
	return result, nil
}

// Discounts returns predefined codes.
func (s DiscountFacadeStub) Discounts(ctx context.Context) ([]model.DiscountCode, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx)
	}
	return []model.DiscountCode{{ID: 1, Code: "SAVE10", IsActive: true}}, nil
}

// ValidateDiscount reports every code as valid by default.
func (s DiscountFacadeStub) ValidateDiscount(ctx context.Context, code string) (*model.DiscountValidation, error) {
	if s.ValidateFn != nil {
		return s.ValidateFn(ctx, code)
	}
	return &model.DiscountValidation{Code: code, State: model.DiscountStateValid, Discount: &model.DiscountCode{Code: code, IsActive: true}}, nil
}

// DeactivateDiscount returns the code switched off.
func (s DiscountFacadeStub) DeactivateDiscount(ctx context.Context, code string) (*model.DiscountCode, error) {
	if s.DeactivateFn != nil {
		return s.DeactivateFn(ctx, code)
	}
	return &model.DiscountCode{Code: code, IsActive: false}, nil
}

// HealthStub reports database health.
type HealthStub struct {
	Err error
}

// Health returns the configured error.
func (s HealthStub) Health(context.Context) error {
	return s.Err
}

// CheckoutFacadeStub aggregates facade dependencies for HTTP layer tests.
type CheckoutFacadeStub struct {
	OrderFacadeStub
	PaymentFacadeStub
	DiscountFacadeStub
	AdminFacadeStub
	HealthStub
}

// WorkerFacadeStub mimics worker interactions with the checkout facade.
type WorkerFacadeStub struct {
	Batches   [][]model.Order
	StaleFn   func(context.Context, time.Duration, int) ([]model.Order, error)
	RecheckFn func(context.Context, string) error
	ExpireFn  func(context.Context, time.Duration) (int64, error)

	mu         sync.Mutex
	rechecked  []string
	sweeps     []time.Duration
	staleCalls int32
}

// StaleOrders returns batches from the configured queue.
func (s *WorkerFacadeStub) StaleOrders(ctx context.Context, olderThan time.Duration, limit int) ([]model.Order, error) {
	if s.StaleFn != nil {
		return s.StaleFn(ctx, olderThan, limit)
	}
	call := atomic.AddInt32(&s.staleCalls, 1)
	if int(call) <= len(s.Batches) {
		return s.Batches[call-1], nil
	}
	return nil, nil
}

// StaleCalls reports how many times StaleOrders was called.
func (s *WorkerFacadeStub) StaleCalls() int {
	return int(atomic.LoadInt32(&s.staleCalls))
}

// RecheckOrder records the reference.
func (s *WorkerFacadeStub) RecheckOrder(ctx context.Context, reference string) error {
	s.mu.Lock()
	s.rechecked = append(s.rechecked, reference)
	s.mu.Unlock()
	if s.RecheckFn != nil {
		return s.RecheckFn(ctx, reference)
	}
	return nil
}

// Rechecked returns recorded references.
func (s *WorkerFacadeStub) Rechecked() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.rechecked...)
}

// ExpireStaleOrders records the threshold.
func (s *WorkerFacadeStub) ExpireStaleOrders(ctx context.Context, olderThan time.Duration) (int64, error) {
	s.mu.Lock()
	s.sweeps = append(s.sweeps, olderThan)
	s.mu.Unlock()
	if s.ExpireFn != nil {
		return s.ExpireFn(ctx, olderThan)
	}
	return 0, nil
}

// Sweeps returns recorded sweep thresholds.
func (s *WorkerFacadeStub) Sweeps() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.sweeps...)
}
