package model

import "time"

// DiscountCode is a redeemable token that settles an order without payment.
type DiscountCode struct {
	ID          int64
	Code        string
	Description string
	IsActive    bool
	UsageLimit  *int
	UsedCount   int
	ExpiryDate  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// State evaluates the code at the given instant without changing it.
func (d DiscountCode) State(now time.Time) DiscountState {
	switch {
	case !d.IsActive:
		return DiscountStateInactive
	case d.ExpiryDate != nil && now.After(*d.ExpiryDate):
		return DiscountStateExpired
	case d.UsageLimit != nil && d.UsedCount >= *d.UsageLimit:
		return DiscountStateLimitReached
	default:
		return DiscountStateValid
	}
}

// DiscountState is the outcome of validating a code.
type DiscountState string

const (
	DiscountStateValid        DiscountState = "valid"
	DiscountStateNotFound     DiscountState = "not_found"
	DiscountStateInactive     DiscountState = "inactive"
	DiscountStateExpired      DiscountState = "expired"
	DiscountStateLimitReached DiscountState = "limit_reached"
)

// Message returns the buyer-facing description of the state.
func (s DiscountState) Message() string {
	switch s {
	case DiscountStateValid:
		return "Discount code is valid"
	case DiscountStateNotFound:
		return "Discount code not found"
	case DiscountStateInactive:
		return "Discount code is inactive"
	case DiscountStateExpired:
		return "Discount code has expired"
	case DiscountStateLimitReached:
		return "Discount code usage limit reached"
	default:
		return "Discount code is invalid"
	}
}

// DiscountValidation is the result of a pure validation read.
type DiscountValidation struct {
	Code     string
	State    DiscountState
	Discount *DiscountCode
}

// Valid reports whether the code can be redeemed right now.
func (v DiscountValidation) Valid() bool {
	return v.State == DiscountStateValid
}

// NewDiscount describes a code to be created; an empty Code requests generation.
type NewDiscount struct {
	Code        string
	Description string
	UsageLimit  *int
	ExpiryDate  *time.Time
}

// BulkItemError records why one member of a bulk creation failed.
type BulkItemError struct {
	Index int
	Err   error
}

// BulkResult summarizes a bulk creation with partial success.
type BulkResult struct {
	Created int
	Failed  int
	Codes   []DiscountCode
	Errors  []BulkItemError
}
