package repository

import (
	"context"
	"time"

	"github.com/polkiloo/arkpay/internal/domain/model"
)

// SettlementRepository records orders paid for with a discount code.
type SettlementRepository interface {
	// SettleWithDiscount redeems order.DiscountCode and inserts order as one unit of work.
	// A code that is not redeemable at now yields ErrNotRedeemable. When the insert
	// fails the code keeps its usage count.
	SettleWithDiscount(ctx context.Context, order *model.Order, now time.Time) (*model.Order, error)
}
