package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/polkiloo/arkpay/internal/domain/model"
	"github.com/polkiloo/arkpay/internal/pkg/validation"
	"github.com/polkiloo/arkpay/internal/server/http/dto"
)

const (
	defaultStaleAge   = 30 * time.Minute
	defaultStaleLimit = 50
	maxStaleLimit     = 500
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade   OrderFacade
	validate *validatorv10.Validate
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade, validate *validatorv10.Validate) *OrderHandler {
	return &OrderHandler{facade: facade, validate: validate}
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return
	}

	placed, err := h.facade.PlaceOrder(c.Request.Context(), model.OrderRequest{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
		City:         req.City,
		State:        req.State,
		CardLink:     req.CardLink,
		Amount:       req.Amount,
		Currency:     req.Currency,
		DiscountCode: req.DiscountCode,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	order := toOrderResponse(*placed.Order)
	if placed.PaymentURL == "" {
		c.JSON(http.StatusCreated, dto.Envelope{Success: true, Message: "Order created with discount code", Data: order})
		return
	}

	c.JSON(http.StatusCreated, dto.Envelope{
		Success:    true,
		Message:    "Transaction initialized. Please complete payment.",
		Data:       dto.PendingOrderResponse{Order: order, Reference: order.Reference},
		PaymentURL: placed.PaymentURL,
	})
}

// Expire handles POST /api/orders/expire.
func (h *OrderHandler) Expire(c *gin.Context) {
	olderThan, ok := durationQuery(c, "olderThan", 0)
	if !ok {
		badRequest(c, "olderThan must be a positive duration")
		return
	}

	expired, err := h.facade.ExpireStaleOrders(c.Request.Context(), olderThan)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Envelope{Success: true, Data: dto.ExpireResponse{Expired: expired}})
}

// Stale handles GET /api/orders/stale.
func (h *OrderHandler) Stale(c *gin.Context) {
	olderThan, ok := durationQuery(c, "olderThan", defaultStaleAge)
	if !ok {
		badRequest(c, "olderThan must be a positive duration")
		return
	}

	limit := defaultStaleLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxStaleLimit {
			badRequest(c, "limit must be between 1 and 500")
			return
		}
		limit = n
	}

	orders, err := h.facade.StaleOrders(c.Request.Context(), olderThan, limit)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, toOrderResponse(o))
	}
	c.JSON(http.StatusOK, dto.Envelope{Success: true, Data: resp})
}
