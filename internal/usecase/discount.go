package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	domainErrors "github.com/polkiloo/arkpay/internal/domain/errors"
	"github.com/polkiloo/arkpay/internal/domain/model"
	"github.com/polkiloo/arkpay/internal/domain/repository"
)

// DiscountUseCase manages the discount code ledger.
type DiscountUseCase struct {
	discounts repository.DiscountRepository
	codes     CodeGenerator
	logger    *slog.Logger
	now       func() time.Time
}

// NewDiscountUseCase constructs DiscountUseCase.
func NewDiscountUseCase(discounts repository.DiscountRepository, codes CodeGenerator, logger *slog.Logger) *DiscountUseCase {
	return &DiscountUseCase{discounts: discounts, codes: codes, logger: logger, now: time.Now}
}

// Create stores one code. Without an explicit code a unique one is generated.
func (u *DiscountUseCase) Create(ctx context.Context, req model.NewDiscount) (*model.DiscountCode, error) {
	if err := validateNewDiscount(req); err != nil {
		return nil, err
	}

	code := NormalizeCode(req.Code)
	if code == "" {
		return u.createGenerated(ctx, req, maxCreateAttempts)
	}

	exists, err := u.discounts.Exists(ctx, code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domainErrors.ErrDuplicateCode
	}

	created, err := u.discounts.Create(ctx, newDiscountRecord(code, req))
	if err != nil {
		if errors.Is(err, domainErrors.ErrAlreadyExists) {
			return nil, domainErrors.ErrDuplicateCode
		}
		return nil, err
	}
	return created, nil
}

// CreateBulk generates count independent codes and reports failures per index.
func (u *DiscountUseCase) CreateBulk(ctx context.Context, count int, req model.NewDiscount) (*model.BulkResult, error) {
	if count < 1 || count > MaxBulkCount {
		return nil, fmt.Errorf("%w: count must be between 1 and %d", domainErrors.ErrValidation, MaxBulkCount)
	}
	if err := validateNewDiscount(req); err != nil {
		return nil, err
	}
	req.Code = ""

	result := &model.BulkResult{Codes: make([]model.DiscountCode, 0, count)}
	for i := 0; i < count; i++ {
		created, err := u.createGenerated(ctx, req, maxBulkAttempts)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, model.BulkItemError{Index: i, Err: err})
			continue
		}
		result.Created++
		result.Codes = append(result.Codes, *created)
	}

	if result.Failed > 0 {
		u.logger.Warn("bulk discount creation partially failed",
			slog.Int("created", result.Created),
			slog.Int("failed", result.Failed))
	}
	return result, nil
}

func (u *DiscountUseCase) createGenerated(ctx context.Context, req model.NewDiscount, attempts int) (*model.DiscountCode, error) {
	for attempt := 0; attempt < attempts; attempt++ {
		code, err := u.codes.Generate()
		if err != nil {
			return nil, err
		}

		exists, err := u.discounts.Exists(ctx, code)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}

		created, err := u.discounts.Create(ctx, newDiscountRecord(code, req))
		if errors.Is(err, domainErrors.ErrAlreadyExists) {
			// lost a race with a concurrent creator of the same code
			continue
		}
		if err != nil {
			return nil, err
		}
		return created, nil
	}
	return nil, domainErrors.ErrCodeGenerationExhausted
}

// Validate reports whether code is redeemable right now without changing it.
func (u *DiscountUseCase) Validate(ctx context.Context, code string) (*model.DiscountValidation, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, fmt.Errorf("%w: discount code is required", domainErrors.ErrValidation)
	}

	discount, err := u.discounts.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return &model.DiscountValidation{Code: code, State: model.DiscountStateNotFound}, nil
		}
		return nil, err
	}

	return &model.DiscountValidation{Code: code, State: discount.State(u.now()), Discount: discount}, nil
}

// Redeem consumes one use of code. A code that cannot be redeemed yields a
// validation error carrying the reason.
func (u *DiscountUseCase) Redeem(ctx context.Context, code string) (*model.DiscountCode, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, fmt.Errorf("%w: discount code is required", domainErrors.ErrValidation)
	}

	discount, err := u.discounts.Redeem(ctx, code, u.now())
	if err == nil {
		return discount, nil
	}
	if !errors.Is(err, domainErrors.ErrNotRedeemable) {
		return nil, err
	}
	return nil, u.rejection(ctx, code)
}

// rejection explains why code could not be redeemed. A failed lookup is returned as is.
func (u *DiscountUseCase) rejection(ctx context.Context, code string) error {
	validation, err := u.Validate(ctx, code)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: %w", domainErrors.ErrValidation, stateError(validation.State))
}

// Deactivate switches the code off; repeating it is harmless.
func (u *DiscountUseCase) Deactivate(ctx context.Context, code string) (*model.DiscountCode, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, fmt.Errorf("%w: discount code is required", domainErrors.ErrValidation)
	}
	return u.discounts.Deactivate(ctx, code)
}

// List returns every code, newest first.
func (u *DiscountUseCase) List(ctx context.Context) ([]model.DiscountCode, error) {
	return u.discounts.List(ctx)
}

func validateNewDiscount(req model.NewDiscount) error {
	if req.UsageLimit != nil && *req.UsageLimit < 1 {
		return fmt.Errorf("%w: usage limit must be positive", domainErrors.ErrValidation)
	}
	return nil
}

func newDiscountRecord(code string, req model.NewDiscount) *model.DiscountCode {
	return &model.DiscountCode{
		Code:        code,
		Description: req.Description,
		IsActive:    true,
		UsageLimit:  req.UsageLimit,
		ExpiryDate:  req.ExpiryDate,
	}
}

func stateError(state model.DiscountState) error {
	switch state {
	case model.DiscountStateNotFound:
		return domainErrors.ErrDiscountNotFound
	case model.DiscountStateInactive:
		return domainErrors.ErrDiscountInactive
	case model.DiscountStateExpired:
		return domainErrors.ErrDiscountExpired
	case model.DiscountStateLimitReached:
		return domainErrors.ErrDiscountLimitReached
	default:
		return domainErrors.ErrNotRedeemable
	}
}
