package repository

import (
	"context"
	"time"

	"github.com/polkiloo/arkpay/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
// Status changes only happen through guarded updates that require the order to be pending.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) (*model.Order, error)
	GetByReference(ctx context.Context, reference string) (*model.Order, error)
	// Transition moves a pending order to status and reports whether this call applied it.
	// When the order is no longer pending the current record is returned unchanged.
	Transition(ctx context.Context, reference string, status model.OrderStatus, transactionID string) (*model.Order, bool, error)
	MarkChecked(ctx context.Context, reference string) error
	ListStalePending(ctx context.Context, createdBefore time.Time, limit int) ([]model.Order, error)
	ExpirePending(ctx context.Context, createdBefore time.Time) (int64, error)
}
