package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus describes the order lifecycle.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusFailed    OrderStatus = "failed"
	OrderStatusExpired   OrderStatus = "expired"
)

// IsTerminal reports whether no further transition may leave the status.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusCompleted, OrderStatusFailed, OrderStatusExpired:
		return true
	default:
		return false
	}
}

const (
	// DiscountTransactionID marks orders settled by a discount code rather than the gateway.
	DiscountTransactionID = "DISCOUNT_APPLIED"

	// DefaultCurrency applies when the buyer does not specify one.
	DefaultCurrency = "NGN"

	PaymentReferencePrefix  = "ORD"
	DiscountReferencePrefix = "DISC"
)

// Order describes a purchase that is either paid through the gateway or settled by a discount code.
type Order struct {
	ID            int64
	Reference     string
	Status        OrderStatus
	Amount        decimal.Decimal
	Currency      string
	DiscountCode  string
	TransactionID string
	AccessCode    string

	Name     string
	Email    string
	Phone    string
	Address  string
	City     string
	State    string
	Country  string
	CardLink string

	CheckedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EventSource names the entry point that drove a reconciliation attempt.
type EventSource string

const (
	SourceCallback EventSource = "callback"
	SourceWebhook  EventSource = "webhook"
	SourcePoll     EventSource = "poll"
	SourceRecheck  EventSource = "recheck"
	SourceSweep    EventSource = "sweep"
)

// OrderRequest is the buyer input for placing an order.
type OrderRequest struct {
	Name         string
	Email        string
	Phone        string
	Address      string
	City         string
	State        string
	CardLink     string
	Amount       decimal.Decimal
	Currency     string
	DiscountCode string
}

// PlacedOrder is the result of placing an order; PaymentURL is empty for discount orders.
type PlacedOrder struct {
	Order      *Order
	PaymentURL string
}
