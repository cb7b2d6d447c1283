package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/arkpay/internal/domain/errors"
	"github.com/polkiloo/arkpay/internal/domain/model"
)

// --- DiscountRepository implementation ---

const discountColumns = `id, code, description, is_active, usage_limit, used_count, expiry_date, created_at, updated_at`

func scanDiscount(row pgx.Row) (*model.DiscountCode, error) {
	var d model.DiscountCode
	if err := row.Scan(&d.ID, &d.Code, &d.Description, &d.IsActive, &d.UsageLimit, &d.UsedCount, &d.ExpiryDate, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *discountRepository) Create(ctx context.Context, discount *model.DiscountCode) (*model.DiscountCode, error) {
	const query = `INSERT INTO discount_codes (code, description, is_active, usage_limit, expiry_date)
                   VALUES ($1, $2, $3, $4, $5)
                   RETURNING ` + discountColumns
	created, err := scanDiscount(r.storage.pool.QueryRow(ctx, query,
		discount.Code, discount.Description, discount.IsActive, discount.UsageLimit, discount.ExpiryDate))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return created, nil
}

func (r *discountRepository) Exists(ctx context.Context, code string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM discount_codes WHERE code=$1)`
	var exists bool
	if err := r.storage.pool.QueryRow(ctx, query, code).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *discountRepository) GetByCode(ctx context.Context, code string) (*model.DiscountCode, error) {
	const query = `SELECT ` + discountColumns + ` FROM discount_codes WHERE code=$1`
	discount, err := scanDiscount(r.storage.pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return discount, nil
}

func (r *discountRepository) List(ctx context.Context) ([]model.DiscountCode, error) {
	const query = `SELECT ` + discountColumns + ` FROM discount_codes ORDER BY created_at DESC, id DESC`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.DiscountCode
	for rows.Next() {
		d, err := scanDiscount(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Redeem performs the increment and every redeemability check in one statement,
// so concurrent redeemers of the last slot cannot both succeed.
func (r *discountRepository) Redeem(ctx context.Context, code string, now time.Time) (*model.DiscountCode, error) {
	return redeemDiscount(ctx, r.storage.pool, code, now)
}

func redeemDiscount(ctx context.Context, q rowQuerier, code string, now time.Time) (*model.DiscountCode, error) {
	const query = `UPDATE discount_codes
                   SET used_count = used_count + 1, updated_at = NOW()
                   WHERE code = $1
                     AND is_active
                     AND (usage_limit IS NULL OR used_count < usage_limit)
                     AND (expiry_date IS NULL OR expiry_date >= $2)
                   RETURNING ` + discountColumns
	discount, err := scanDiscount(q.QueryRow(ctx, query, code, now))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotRedeemable
		}
		return nil, err
	}
	return discount, nil
}

func (r *discountRepository) Deactivate(ctx context.Context, code string) (*model.DiscountCode, error) {
	const query = `UPDATE discount_codes SET is_active = FALSE, updated_at = NOW()
                   WHERE code = $1
                   RETURNING ` + discountColumns
	discount, err := scanDiscount(r.storage.pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return discount, nil
}
