package dto

import "time"

// CreateDiscountRequest describes a single code; an empty code is generated.
type CreateDiscountRequest struct {
	Code        string     `json:"code" validate:"omitempty,discountcode"`
	Description string     `json:"description" validate:"max=500"`
	UsageLimit  *int       `json:"usageLimit" validate:"omitempty,gte=1"`
	ExpiryDate  *time.Time `json:"expiryDate"`
}

// BulkDiscountRequest describes a batch of generated codes.
type BulkDiscountRequest struct {
	Count       int        `json:"count" validate:"required,gte=1,lte=1000"`
	Description string     `json:"description" validate:"max=500"`
	UsageLimit  *int       `json:"usageLimit" validate:"omitempty,gte=1"`
	ExpiryDate  *time.Time `json:"expiryDate"`
}

type DiscountResponse struct {
	ID          int64      `json:"id"`
	Code        string     `json:"code"`
	Description string     `json:"description,omitempty"`
	IsActive    bool       `json:"isActive"`
	UsageLimit  *int       `json:"usageLimit"`
	UsedCount   int        `json:"usedCount"`
	ExpiryDate  *time.Time `json:"expiryDate"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type BulkItemError struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

type BulkDiscountResponse struct {
	Created int                `json:"created"`
	Failed  int                `json:"failed"`
	Codes   []DiscountResponse `json:"codes"`
	Errors  []BulkItemError    `json:"errors,omitempty"`
}

// ValidateDiscountResponse answers a public code check.
type ValidateDiscountResponse struct {
	Valid    bool              `json:"valid"`
	Status   string            `json:"status"`
	Message  string            `json:"message"`
	Discount *DiscountResponse `json:"discount,omitempty"`
}
