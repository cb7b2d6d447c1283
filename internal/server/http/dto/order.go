package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOrderRequest describes the checkout form.
type CreateOrderRequest struct {
	Name         string          `json:"name" validate:"required,max=200"`
	Email        string          `json:"email" validate:"omitempty,email"`
	Phone        string          `json:"phone" validate:"required,max=32"`
	Address      string          `json:"address" validate:"required,max=500"`
	City         string          `json:"city" validate:"required,max=100"`
	State        string          `json:"state" validate:"required,max=100"`
	CardLink     string          `json:"cardLink" validate:"required,max=500"`
	Amount       decimal.Decimal `json:"amount" validate:"gte=0"`
	Currency     string          `json:"currency" validate:"omitempty,len=3,alpha"`
	DiscountCode string          `json:"discountCode" validate:"omitempty,discountcode"`
}

// OrderResponse is the public view of an order.
type OrderResponse struct {
	ID            int64           `json:"id"`
	Reference     string          `json:"reference"`
	Status        string          `json:"status"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	DiscountCode  string          `json:"discountCode,omitempty"`
	TransactionID string          `json:"transactionId,omitempty"`
	Name          string          `json:"name"`
	Email         string          `json:"email,omitempty"`
	Phone         string          `json:"phone"`
	Address       string          `json:"address"`
	City          string          `json:"city"`
	State         string          `json:"state"`
	Country       string          `json:"country"`
	CardLink      string          `json:"cardLink"`
	CheckedAt     *time.Time      `json:"checkedAt,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// PendingOrderResponse is returned when the buyer still has to pay.
type PendingOrderResponse struct {
	Order     OrderResponse `json:"order"`
	Reference string        `json:"reference"`
}

// OrderStatusResponse answers a status poll.
type OrderStatusResponse struct {
	Reference string          `json:"reference"`
	Status    string          `json:"status"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Verified  bool            `json:"verified"`
	CreatedAt time.Time       `json:"createdAt"`
}

// ExpireResponse reports how many orders a sweep expired.
type ExpireResponse struct {
	Expired int64 `json:"expired"`
}
