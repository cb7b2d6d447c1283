package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/arkpay/internal/domain/errors"
	"github.com/polkiloo/arkpay/internal/domain/model"
)

// --- OrderRepository implementation ---

const orderColumns = `id, reference, status, amount::text, currency, discount_code, transaction_id, access_code,
                      name, email, phone, address, city, state, country, card_link,
                      checked_at, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		o      model.Order
		amount string
	)
	err := row.Scan(&o.ID, &o.Reference, &o.Status, &amount, &o.Currency, &o.DiscountCode, &o.TransactionID, &o.AccessCode,
		&o.Name, &o.Email, &o.Phone, &o.Address, &o.City, &o.State, &o.Country, &o.CardLink,
		&o.CheckedAt, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if o.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("parse order amount: %w", err)
	}
	return &o, nil
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	return insertOrder(ctx, r.storage.pool, order)
}

func insertOrder(ctx context.Context, q rowQuerier, order *model.Order) (*model.Order, error) {
	const query = `INSERT INTO orders (reference, status, amount, currency, discount_code, transaction_id, access_code,
                                       name, email, phone, address, city, state, country, card_link)
                   VALUES ($1, $2, $3::numeric, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
                   RETURNING ` + orderColumns
	created, err := scanOrder(q.QueryRow(ctx, query,
		order.Reference, order.Status, order.Amount.String(), order.Currency, order.DiscountCode, order.TransactionID, order.AccessCode,
		order.Name, order.Email, order.Phone, order.Address, order.City, order.State, order.Country, order.CardLink))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return created, nil
}

func (r *orderRepository) GetByReference(ctx context.Context, reference string) (*model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE reference=$1`
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, reference))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) Transition(ctx context.Context, reference string, status model.OrderStatus, transactionID string) (*model.Order, bool, error) {
	const query = `UPDATE orders
                   SET status=$2,
                       transaction_id=CASE WHEN $3::text <> '' THEN $3::text ELSE transaction_id END,
                       updated_at=NOW()
                   WHERE reference=$1 AND status='pending'
                   RETURNING ` + orderColumns
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, reference, status, transactionID))
	if err == nil {
		return order, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, err
	}

	// Either the reference is unknown or another writer settled the order first.
	current, err := r.GetByReference(ctx, reference)
	if err != nil {
		return nil, false, err
	}
	return current, false, nil
}

func (r *orderRepository) MarkChecked(ctx context.Context, reference string) error {
	const query = `UPDATE orders SET checked_at=NOW() WHERE reference=$1 AND status='pending'`
	_, err := r.storage.pool.Exec(ctx, query, reference)
	return err
}

func (r *orderRepository) ListStalePending(ctx context.Context, createdBefore time.Time, limit int) ([]model.Order, error) {
	const query = `SELECT ` + orderColumns + `
                   FROM orders
                   WHERE status='pending' AND created_at < $1
                   ORDER BY checked_at NULLS FIRST, created_at
                   LIMIT $2`
	rows, err := r.storage.pool.Query(ctx, query, createdBefore, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) ExpirePending(ctx context.Context, createdBefore time.Time) (int64, error) {
	const query = `UPDATE orders SET status='expired', updated_at=NOW() WHERE status='pending' AND created_at < $1`
	tag, err := r.storage.pool.Exec(ctx, query, createdBefore)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
