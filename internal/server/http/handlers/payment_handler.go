package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/arkpay/internal/domain/errors"
	"github.com/polkiloo/arkpay/internal/server/http/dto"
)

const maxWebhookBody = 1 << 20

// PaymentHandler serves the gateway callback, webhook and status polls.
type PaymentHandler struct {
	facade          PaymentFacade
	signatureHeader string
}

// NewPaymentHandler constructs PaymentHandler reading signatures from signatureHeader.
func NewPaymentHandler(facade PaymentFacade, signatureHeader string) *PaymentHandler {
	if signatureHeader == "" {
		signatureHeader = "X-Paystack-Signature"
	}
	return &PaymentHandler{facade: facade, signatureHeader: signatureHeader}
}

// Callback handles GET /api/payments/callback and redirects the buyer to the frontend.
func (h *PaymentHandler) Callback(c *gin.Context) {
	reference := c.Query("reference")
	if reference == "" {
		reference = c.Query("trxref")
	}
	c.Redirect(http.StatusFound, h.facade.PaymentCallback(c.Request.Context(), reference))
}

// Webhook handles POST /api/payments/webhook.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
	if err != nil {
		badRequest(c, "unreadable body")
		return
	}

	if err := h.facade.HandleWebhook(c.Request.Context(), payload, c.GetHeader(h.signatureHeader)); err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidSignature), errors.Is(err, domainErrors.ErrValidation):
			writeError(c, err)
		default:
			c.JSON(http.StatusInternalServerError, dto.Envelope{Success: false, Message: "webhook processing failed"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.WebhookAck{Received: true})
}

// Status handles GET /api/payments/verify/:reference and GET /api/payments/status/:reference.
func (h *PaymentHandler) Status(c *gin.Context) {
	reference := strings.TrimSpace(c.Param("reference"))
	if reference == "" {
		badRequest(c, "Reference is required")
		return
	}

	order, verified, err := h.facade.VerifyPayment(c.Request.Context(), reference)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.Envelope{Success: false, Message: "Order not found"})
			return
		}
		writeError(c, err)
		return
	}

	message := ""
	if !verified {
		message = "Payment could not be verified, try again later"
	}
	c.JSON(http.StatusOK, dto.Envelope{
		Success: true,
		Message: message,
		Data: dto.OrderStatusResponse{
			Reference: order.Reference,
			Status:    string(order.Status),
			Amount:    order.Amount,
			Currency:  order.Currency,
			Verified:  verified,
			CreatedAt: order.CreatedAt,
		},
	})
}
