package test

import (
	"context"
	"sort"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/arkpay/internal/domain/errors"
	"github.com/polkiloo/arkpay/internal/domain/model"
	"github.com/polkiloo/arkpay/internal/domain/repository"
)

// OrderRepositoryStub keeps orders in memory and applies the same pending guard as SQL.
type OrderRepositoryStub struct {
	CreateFn         func(context.Context, *model.Order) (*model.Order, error)
	GetByReferenceFn func(context.Context, string) (*model.Order, error)
	TransitionFn     func(context.Context, string, model.OrderStatus, string) (*model.Order, bool, error)
	MarkCheckedFn    func(context.Context, string) error
	ListStaleFn      func(context.Context, time.Time, int) ([]model.Order, error)
	ExpireFn         func(context.Context, time.Time) (int64, error)

	// Now stamps created and updated times; time.Now when nil.
	Now func() time.Time

	mu          sync.Mutex
	orders      map[string]*model.Order
	next        int64
	transitions int
	lookups     int
}

// NewOrderRepositoryStub constructs an empty repository.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{orders: make(map[string]*model.Order)}
}

func (s *OrderRepositoryStub) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Put stores an order as is, replacing any existing record with the same reference.
func (s *OrderRepositoryStub) Put(order model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.orders == nil {
		s.orders = make(map[string]*model.Order)
	}
	if order.ID == 0 {
		s.next++
		order.ID = s.next
	}
	s.orders[order.Reference] = &order
}

// Get returns a copy of the stored order.
func (s *OrderRepositoryStub) Get(reference string) (model.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[reference]
	if !ok {
		return model.Order{}, false
	}
	return *o, true
}

// Len reports how many orders are stored.
func (s *OrderRepositoryStub) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

// Transitions reports how many guarded updates were applied.
func (s *OrderRepositoryStub) Transitions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transitions
}

// Lookups reports how many times GetByReference was called.
func (s *OrderRepositoryStub) Lookups() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookups
}

func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.orders == nil {
		s.orders = make(map[string]*model.Order)
	}
	if _, exists := s.orders[order.Reference]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	s.next++
	stored := *order
	stored.ID = s.next
	stored.CreatedAt = s.now()
	stored.UpdatedAt = stored.CreatedAt
	s.orders[stored.Reference] = &stored
	out := stored
	return &out, nil
}

func (s *OrderRepositoryStub) GetByReference(ctx context.Context, reference string) (*model.Order, error) {
	if s.GetByReferenceFn != nil {
		return s.GetByReferenceFn(ctx, reference)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups++
	o, ok := s.orders[reference]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	out := *o
	return &out, nil
}

func (s *OrderRepositoryStub) Transition(ctx context.Context, reference string, status model.OrderStatus, transactionID string) (*model.Order, bool, error) {
	if s.TransitionFn != nil {
		return s.TransitionFn(ctx, reference, status, transactionID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[reference]
	if !ok {
		return nil, false, domainErrors.ErrNotFound
	}
	if o.Status != model.OrderStatusPending {
		out := *o
		return &out, false, nil
	}
	o.Status = status
	if transactionID != "" {
		o.TransactionID = transactionID
	}
	o.UpdatedAt = s.now()
	s.transitions++
	out := *o
	return &out, true, nil
}

func (s *OrderRepositoryStub) MarkChecked(ctx context.Context, reference string) error {
	if s.MarkCheckedFn != nil {
		return s.MarkCheckedFn(ctx, reference)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[reference]
	if !ok || o.Status != model.OrderStatusPending {
		return nil
	}
	now := s.now()
	o.CheckedAt = &now
	return nil
}

func (s *OrderRepositoryStub) ListStalePending(ctx context.Context, createdBefore time.Time, limit int) ([]model.Order, error) {
	if s.ListStaleFn != nil {
		return s.ListStaleFn(ctx, createdBefore, limit)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Order
	for _, o := range s.orders {
		if o.Status == model.OrderStatusPending && o.CreatedAt.Before(createdBefore) {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].CheckedAt, out[j].CheckedAt
		switch {
		case a == nil && b != nil:
			return true
		case a != nil && b == nil:
			return false
		case a != nil && b != nil && !a.Equal(*b):
			return a.Before(*b)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *OrderRepositoryStub) ExpirePending(ctx context.Context, createdBefore time.Time) (int64, error) {
	if s.ExpireFn != nil {
		return s.ExpireFn(ctx, createdBefore)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, o := range s.orders {
		if o.Status == model.OrderStatusPending && o.CreatedAt.Before(createdBefore) {
			o.Status = model.OrderStatusExpired
			o.UpdatedAt = s.now()
			n++
		}
	}
	return n, nil
}

// DiscountRepositoryStub keeps codes in memory; Redeem is an atomic conditional increment.
type DiscountRepositoryStub struct {
	CreateFn     func(context.Context, *model.DiscountCode) (*model.DiscountCode, error)
	ExistsFn     func(context.Context, string) (bool, error)
	GetByCodeFn  func(context.Context, string) (*model.DiscountCode, error)
	ListFn       func(context.Context) ([]model.DiscountCode, error)
	RedeemFn     func(context.Context, string, time.Time) (*model.DiscountCode, error)
	DeactivateFn func(context.Context, string) (*model.DiscountCode, error)

	mu    sync.Mutex
	codes map[string]*model.DiscountCode
	next  int64
}

// NewDiscountRepositoryStub constructs an empty repository.
func NewDiscountRepositoryStub() *DiscountRepositoryStub {
	return &DiscountRepositoryStub{codes: make(map[string]*model.DiscountCode)}
}

// Put stores a code as is.
func (s *DiscountRepositoryStub) Put(code model.DiscountCode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.codes == nil {
		s.codes = make(map[string]*model.DiscountCode)
	}
	if code.ID == 0 {
		s.next++
		code.ID = s.next
	}
	s.codes[code.Code] = &code
}

// Get returns a copy of the stored code.
func (s *DiscountRepositoryStub) Get(code string) (model.DiscountCode, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.codes[code]
	if !ok {
		return model.DiscountCode{}, false
	}
	return *d, true
}

// Len reports how many codes are stored.
func (s *DiscountRepositoryStub) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.codes)
}

func (s *DiscountRepositoryStub) Create(ctx context.Context, discount *model.DiscountCode) (*model.DiscountCode, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, discount)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.codes == nil {
		s.codes = make(map[string]*model.DiscountCode)
	}
	if _, exists := s.codes[discount.Code]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	s.next++
	stored := *discount
	stored.ID = s.next
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	s.codes[stored.Code] = &stored
	out := stored
	return &out, nil
}

func (s *DiscountRepositoryStub) Exists(ctx context.Context, code string) (bool, error) {
	if s.ExistsFn != nil {
		return s.ExistsFn(ctx, code)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.codes[code]
	return ok, nil
}

func (s *DiscountRepositoryStub) GetByCode(ctx context.Context, code string) (*model.DiscountCode, error) {
	if s.GetByCodeFn != nil {
		return s.GetByCodeFn(ctx, code)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.codes[code]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	out := *d
	return &out, nil
}

func (s *DiscountRepositoryStub) List(ctx context.Context) ([]model.DiscountCode, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.DiscountCode, 0, len(s.codes))
	for _, d := range s.codes {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *DiscountRepositoryStub) Redeem(ctx context.Context, code string, now time.Time) (*model.DiscountCode, error) {
	if s.RedeemFn != nil {
		return s.RedeemFn(ctx, code, now)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.codes[code]
	if !ok || d.State(now) != model.DiscountStateValid {
		return nil, domainErrors.ErrNotRedeemable
	}
	d.UsedCount++
	d.UpdatedAt = now
	out := *d
	return &out, nil
}

func (s *DiscountRepositoryStub) Deactivate(ctx context.Context, code string) (*model.DiscountCode, error) {
	if s.DeactivateFn != nil {
		return s.DeactivateFn(ctx, code)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.codes[code]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	d.IsActive = false
	out := *d
	return &out, nil
}

func (s *DiscountRepositoryStub) release(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.codes[code]; ok && d.UsedCount > 0 {
		d.UsedCount--
	}
}

// SettlementStub redeems through Discounts and stores through Orders. A failed
// insert gives the use back, as a rolled back transaction would.
type SettlementStub struct {
	Orders    *OrderRepositoryStub
	Discounts *DiscountRepositoryStub
	SettleFn  func(context.Context, *model.Order, time.Time) (*model.Order, error)

	mu sync.Mutex
}

// NewSettlementStub joins the given repositories.
func NewSettlementStub(orders *OrderRepositoryStub, discounts *DiscountRepositoryStub) *SettlementStub {
	return &SettlementStub{Orders: orders, Discounts: discounts}
}

func (s *SettlementStub) SettleWithDiscount(ctx context.Context, order *model.Order, now time.Time) (*model.Order, error) {
	if s.SettleFn != nil {
		return s.SettleFn(ctx, order, now)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.Discounts.Redeem(ctx, order.DiscountCode, now); err != nil {
		return nil, err
	}
	created, err := s.Orders.Create(ctx, order)
	if err != nil {
		s.Discounts.release(order.DiscountCode)
		return nil, err
	}
	return created, nil
}

var (
	_ repository.OrderRepository      = (*OrderRepositoryStub)(nil)
	_ repository.DiscountRepository   = (*DiscountRepositoryStub)(nil)
	_ repository.SettlementRepository = (*SettlementStub)(nil)
)
