package test

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/arkpay/internal/adapter/gateway"
	"github.com/polkiloo/arkpay/internal/adapter/provisioning"
	"github.com/polkiloo/arkpay/internal/domain/model"
)

// GatewayStub answers gateway calls from a per-reference status table.
type GatewayStub struct {
	InitializeFn func(context.Context, model.CheckoutRequest) (*model.Checkout, error)
	VerifyFn     func(context.Context, string) (*model.PaymentVerification, error)

	mu          sync.Mutex
	statuses    map[string]model.PaymentStatus
	initialized []model.CheckoutRequest
	verified    []string
}

// SetStatus makes Verify report status for reference.
func (s *GatewayStub) SetStatus(reference string, status model.PaymentStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.statuses == nil {
		s.statuses = make(map[string]model.PaymentStatus)
	}
	s.statuses[reference] = status
}

// Initialized returns the checkout requests seen so far.
func (s *GatewayStub) Initialized() []model.CheckoutRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.CheckoutRequest(nil), s.initialized...)
}

// VerifyCalls reports how many times Verify was called.
func (s *GatewayStub) VerifyCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.verified)
}

func (s *GatewayStub) Initialize(ctx context.Context, req model.CheckoutRequest) (*model.Checkout, error) {
	s.mu.Lock()
	s.initialized = append(s.initialized, req)
	s.mu.Unlock()
	if s.InitializeFn != nil {
		return s.InitializeFn(ctx, req)
	}
	return &model.Checkout{
		AuthorizationURL: "https://checkout.test/" + req.Reference,
		AccessCode:       "access-" + req.Reference,
		Reference:        req.Reference,
	}, nil
}

func (s *GatewayStub) Verify(ctx context.Context, reference string) (*model.PaymentVerification, error) {
	s.mu.Lock()
	s.verified = append(s.verified, reference)
	status, ok := s.statuses[reference]
	s.mu.Unlock()
	if s.VerifyFn != nil {
		return s.VerifyFn(ctx, reference)
	}
	if !ok {
		status = model.PaymentStatusOngoing
	}
	return &model.PaymentVerification{
		TransactionID: "trx-" + reference,
		Reference:     reference,
		Status:        status,
		Amount:        decimal.Zero,
	}, nil
}

// NotifierStub records notifications by kind.
type NotifierStub struct {
	Err error

	mu   sync.Mutex
	sent []string
}

// Sent returns "kind:reference" entries in call order.
func (s *NotifierStub) Sent() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.sent...)
}

func (s *NotifierStub) record(kind string, order model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, kind+":"+order.Reference)
	return s.Err
}

func (s *NotifierStub) PaymentSucceeded(_ context.Context, order model.Order) error {
	return s.record("payment_succeeded", order)
}

func (s *NotifierStub) DiscountApplied(_ context.Context, order model.Order) error {
	return s.record("discount_applied", order)
}

func (s *NotifierStub) OrderReceived(_ context.Context, order model.Order) error {
	return s.record("order_received", order)
}

// ProvisionerStub records provisioning requests.
type ProvisionerStub struct {
	ProvisionFn func(context.Context, string, string) error

	mu    sync.Mutex
	calls []string
}

// Calls returns "username/email" entries in call order.
func (s *ProvisionerStub) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *ProvisionerStub) Provision(ctx context.Context, username, email string) error {
	s.mu.Lock()
	s.calls = append(s.calls, fmt.Sprintf("%s/%s", username, email))
	s.mu.Unlock()
	if s.ProvisionFn != nil {
		return s.ProvisionFn(ctx, username, email)
	}
	return nil
}

// CodeGeneratorStub returns Codes in order and then repeats the last one.
type CodeGeneratorStub struct {
	Codes []string
	Err   error

	mu    sync.Mutex
	calls int
}

// Calls reports how many codes were generated.
func (s *CodeGeneratorStub) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *CodeGeneratorStub) Generate() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return "", s.Err
	}
	i := s.calls
	s.calls++
	if len(s.Codes) == 0 {
		return "", fmt.Errorf("no codes configured")
	}
	if i >= len(s.Codes) {
		i = len(s.Codes) - 1
	}
	return s.Codes[i], nil
}

var (
	_ gateway.Client           = (*GatewayStub)(nil)
	_ provisioning.Provisioner = (*ProvisionerStub)(nil)
)
