package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the transaction status reported by the payment gateway.
type PaymentStatus string

const (
	PaymentStatusSuccess    PaymentStatus = "success"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusCancelled  PaymentStatus = "cancelled"
	PaymentStatusCanceled   PaymentStatus = "canceled"
	PaymentStatusReversed   PaymentStatus = "reversed"
	PaymentStatusAbandoned  PaymentStatus = "abandoned"
	PaymentStatusOngoing    PaymentStatus = "ongoing"
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusQueued     PaymentStatus = "queued"
)

// OrderStatus maps the gateway report onto the order state machine.
// Anything the gateway has not settled keeps the order pending.
func (s PaymentStatus) OrderStatus() OrderStatus {
	switch s {
	case PaymentStatusSuccess:
		return OrderStatusCompleted
	case PaymentStatusFailed, PaymentStatusCancelled, PaymentStatusCanceled, PaymentStatusReversed:
		return OrderStatusFailed
	default:
		return OrderStatusPending
	}
}

// CheckoutRequest carries the data needed to open a gateway transaction.
type CheckoutRequest struct {
	Email       string
	Amount      decimal.Decimal
	Currency    string
	Reference   string
	CallbackURL string
}

// Checkout is the gateway's answer to transaction initialization.
type Checkout struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
}

// PaymentVerification is the gateway's view of a transaction.
type PaymentVerification struct {
	TransactionID string
	Reference     string
	Status        PaymentStatus
	Amount        decimal.Decimal
	Currency      string
	Channel       string
	CustomerEmail string
	PaidAt        *time.Time
}
