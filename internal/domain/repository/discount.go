package repository

import (
	"context"
	"time"

	"github.com/polkiloo/arkpay/internal/domain/model"
)

// DiscountRepository describes persistence operations with discount codes.
type DiscountRepository interface {
	// Create inserts a new code; a taken code yields ErrAlreadyExists.
	Create(ctx context.Context, discount *model.DiscountCode) (*model.DiscountCode, error)
	Exists(ctx context.Context, code string) (bool, error)
	GetByCode(ctx context.Context, code string) (*model.DiscountCode, error)
	List(ctx context.Context) ([]model.DiscountCode, error)
	// Redeem atomically increments the usage counter when the code is redeemable at now,
	// otherwise it returns ErrNotRedeemable.
	Redeem(ctx context.Context, code string, now time.Time) (*model.DiscountCode, error)
	Deactivate(ctx context.Context, code string) (*model.DiscountCode, error)
}
