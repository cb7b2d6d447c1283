package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/polkiloo/arkpay/internal/domain/model"
)

// Kind identifies the template the mailer renders.
type Kind string

const (
	KindPaymentSucceeded Kind = "payment_succeeded"
	KindOrderReceived    Kind = "order_received"
	KindDiscountApplied  Kind = "discount_applied"
)

const (
	titlePaymentSucceeded = "Payment Successful"
	titleOrderReceived    = "Order Received"
	titleDiscountApplied  = "Discount Code Applied"
)

// Message is the payload handed to the mailer.
type Message struct {
	Kind    Kind         `json:"kind"`
	To      string       `json:"to"`
	Subject string       `json:"subject"`
	Order   OrderSummary `json:"order"`
}

// OrderSummary is the order data templates may render.
type OrderSummary struct {
	Reference     string    `json:"reference"`
	Status        string    `json:"status"`
	Amount        string    `json:"amount"`
	Currency      string    `json:"currency"`
	DiscountCode  string    `json:"discountCode,omitempty"`
	TransactionID string    `json:"transactionId,omitempty"`
	Name          string    `json:"name,omitempty"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Address       string    `json:"address,omitempty"`
	City          string    `json:"city,omitempty"`
	State         string    `json:"state,omitempty"`
	Country       string    `json:"country,omitempty"`
	CardLink      string    `json:"cardLink,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

func summarize(order model.Order) OrderSummary {
	return OrderSummary{
		Reference:     order.Reference,
		Status:        string(order.Status),
		Amount:        order.Amount.StringFixed(2),
		Currency:      order.Currency,
		DiscountCode:  order.DiscountCode,
		TransactionID: order.TransactionID,
		Name:          order.Name,
		Email:         order.Email,
		Phone:         order.Phone,
		Address:       order.Address,
		City:          order.City,
		State:         order.State,
		Country:       order.Country,
		CardLink:      order.CardLink,
		CreatedAt:     order.CreatedAt,
	}
}

// Notifier composes buyer and seller messages for settled orders.
type Notifier struct {
	publisher     Publisher
	sellerEmail   string
	subjectPrefix string
	logger        *slog.Logger
}

func NewNotifier(publisher Publisher, sellerEmail, subjectPrefix string, logger *slog.Logger) *Notifier {
	return &Notifier{
		publisher:     publisher,
		sellerEmail:   sellerEmail,
		subjectPrefix: subjectPrefix,
		logger:        logger,
	}
}

// PaymentSucceeded tells the buyer the payment went through.
func (n *Notifier) PaymentSucceeded(ctx context.Context, order model.Order) error {
	return n.send(ctx, KindPaymentSucceeded, order.Email, titlePaymentSucceeded, order)
}

// DiscountApplied tells the buyer the order was settled by a code.
func (n *Notifier) DiscountApplied(ctx context.Context, order model.Order) error {
	return n.send(ctx, KindDiscountApplied, order.Email, titleDiscountApplied, order)
}

// OrderReceived tells the seller about a new settled order.
func (n *Notifier) OrderReceived(ctx context.Context, order model.Order) error {
	return n.send(ctx, KindOrderReceived, n.sellerEmail, titleOrderReceived, order)
}

func (n *Notifier) send(ctx context.Context, kind Kind, to, title string, order model.Order) error {
	if to == "" {
		n.logger.Warn("notification skipped, no recipient",
			slog.String("kind", string(kind)),
			slog.String("reference", order.Reference))
		return nil
	}
	return n.publisher.Publish(ctx, Message{
		Kind:    kind,
		To:      to,
		Subject: n.subjectPrefix + title,
		Order:   summarize(order),
	})
}
