package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/arkpay/internal/domain/errors"
	"github.com/polkiloo/arkpay/internal/domain/model"
	"github.com/polkiloo/arkpay/internal/server/http/dto"
	"github.com/polkiloo/arkpay/internal/server/http/middleware"
)

// CurrentAdmin extracts the authenticated operator from context.
func CurrentAdmin(c *gin.Context) string {
	return c.GetString(middleware.AdminSubjectContextKey)
}

var discountStates = []struct {
	err   error
	state model.DiscountState
}{
	{domainErrors.ErrDiscountNotFound, model.DiscountStateNotFound},
	{domainErrors.ErrDiscountInactive, model.DiscountStateInactive},
	{domainErrors.ErrDiscountExpired, model.DiscountStateExpired},
	{domainErrors.ErrDiscountLimitReached, model.DiscountStateLimitReached},
}

// writeError maps domain errors onto HTTP responses.
func writeError(c *gin.Context, err error) {
	status, message := http.StatusInternalServerError, "internal server error"

	switch {
	case errors.Is(err, domainErrors.ErrValidation):
		status, message = http.StatusBadRequest, validationMessage(err)
	case errors.Is(err, domainErrors.ErrNotFound):
		status, message = http.StatusNotFound, "not found"
	case errors.Is(err, domainErrors.ErrDuplicateCode):
		status, message = http.StatusConflict, domainErrors.ErrDuplicateCode.Error()
	case errors.Is(err, domainErrors.ErrAlreadyExists), errors.Is(err, domainErrors.ErrAlreadyProvisioned):
		status, message = http.StatusConflict, "conflict"
	case errors.Is(err, domainErrors.ErrInvalidSignature):
		status, message = http.StatusUnauthorized, "invalid signature"
	case errors.Is(err, domainErrors.ErrInvalidCredentials), errors.Is(err, domainErrors.ErrInvalidToken):
		status, message = http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, domainErrors.ErrGateway):
		message = "payment gateway error"
	case errors.Is(err, domainErrors.ErrCodeGenerationExhausted):
		message = domainErrors.ErrCodeGenerationExhausted.Error()
	}

	c.JSON(status, dto.Envelope{Success: false, Message: message})
}

func validationMessage(err error) string {
	for _, ds := range discountStates {
		if errors.Is(err, ds.err) {
			return ds.state.Message()
		}
	}
	if errors.Is(err, domainErrors.ErrNotRedeemable) {
		return "Discount code is invalid"
	}
	return strings.TrimPrefix(err.Error(), domainErrors.ErrValidation.Error()+": ")
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.Envelope{Success: false, Message: message})
}

// durationQuery reads a Go duration from the query, falling back to def when absent.
func durationQuery(c *gin.Context, name string, def time.Duration) (time.Duration, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def, true
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, false
	}
	return d, true
}

func toOrderResponse(order model.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:            order.ID,
		Reference:     order.Reference,
		Status:        string(order.Status),
		Amount:        order.Amount,
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
		CheckedAt:     order.CheckedAt,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}

func toDiscountResponse(d model.DiscountCode) dto.DiscountResponse {
	return dto.DiscountResponse{
		ID:          d.ID,
		Code:        d.Code,
		Description: d.Description,
		IsActive:    d.IsActive,
		UsageLimit:  d.UsageLimit,
		UsedCount:   d.UsedCount,
		ExpiryDate:  d.ExpiryDate,
		CreatedAt:   d.CreatedAt,
	}
}
