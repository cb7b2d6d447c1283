package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/polkiloo/arkpay/internal/domain/model"
)

// --- SettlementRepository implementation ---

func (r *settlementRepository) SettleWithDiscount(ctx context.Context, order *model.Order, now time.Time) (*model.Order, error) {
	var created *model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := redeemDiscount(ctx, tx, order.DiscountCode, now); err != nil {
			return err
		}
		stored, err := insertOrder(ctx, tx, order)
		if err != nil {
			return err
		}
		created = stored
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
