package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/polkiloo/arkpay/internal/domain/model"
	"github.com/polkiloo/arkpay/internal/pkg/validation"
	"github.com/polkiloo/arkpay/internal/server/http/dto"
)

// DiscountHandler manages discount code endpoints.
type DiscountHandler struct {
	facade   DiscountFacade
	validate *validatorv10.Validate
}

func NewDiscountHandler(facade DiscountFacade, validate *validatorv10.Validate) *DiscountHandler {
	return &DiscountHandler{facade: facade, validate: validate}
}

// Create handles POST /api/discounts.
func (h *DiscountHandler) Create(c *gin.Context) {
	var req dto.CreateDiscountRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return
	}

	created, err := h.facade.CreateDiscount(c.Request.Context(), model.NewDiscount{
		Code:        req.Code,
		Description: req.Description,
		UsageLimit:  req.UsageLimit,
		ExpiryDate:  req.ExpiryDate,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.Envelope{Success: true, Message: "Discount code created", Data: toDiscountResponse(*created)})
}

// Bulk handles POST /api/discounts/bulk.
func (h *DiscountHandler) Bulk(c *gin.Context) {
	var req dto.BulkDiscountRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return
	}

	result, err := h.facade.CreateDiscounts(c.Request.Context(), req.Count, model.NewDiscount{
		Description: req.Description,
		UsageLimit:  req.UsageLimit,
		ExpiryDate:  req.ExpiryDate,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	resp := dto.BulkDiscountResponse{
		Created: result.Created,
		Failed:  result.Failed,
		Codes:   make([]dto.DiscountResponse, 0, len(result.Codes)),
	}
	for _, code := range result.Codes {
		resp.Codes = append(resp.Codes, toDiscountResponse(code))
	}
	for _, item := range result.Errors {
		resp.Errors = append(resp.Errors, dto.BulkItemError{Index: item.Index, Error: item.Err.Error()})
	}
	c.JSON(http.StatusCreated, dto.Envelope{Success: true, Data: resp})
}

// List handles GET /api/discounts.
func (h *DiscountHandler) List(c *gin.Context) {
	codes, err := h.facade.Discounts(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]dto.DiscountResponse, 0, len(codes))
	for _, code := range codes {
		resp = append(resp, toDiscountResponse(code))
	}
	c.JSON(http.StatusOK, dto.Envelope{Success: true, Data: resp})
}

// Validate handles GET /api/discounts/validate/:code.
func (h *DiscountHandler) Validate(c *gin.Context) {
	result, err := h.facade.ValidateDiscount(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}

	resp := dto.ValidateDiscountResponse{
		Valid:   result.Valid(),
		Status:  string(result.State),
		Message: result.State.Message(),
	}
	if result.Discount != nil && result.Valid() {
		d := toDiscountResponse(*result.Discount)
		resp.Discount = &d
	}

	status := http.StatusBadRequest
	switch result.State {
	case model.DiscountStateValid:
		status = http.StatusOK
	case model.DiscountStateNotFound:
		status = http.StatusNotFound
	}
	c.JSON(status, resp)
}

// Deactivate handles PATCH /api/discounts/deactivate/:code.
func (h *DiscountHandler) Deactivate(c *gin.Context) {
	code, err := h.facade.DeactivateDiscount(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Envelope{Success: true, Message: "Discount code deactivated", Data: toDiscountResponse(*code)})
}
