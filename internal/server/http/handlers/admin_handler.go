package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/polkiloo/arkpay/internal/pkg/validation"
	"github.com/polkiloo/arkpay/internal/server/http/dto"
)

// AdminHandler processes operator login.
type AdminHandler struct {
	facade   AdminFacade
	validate *validatorv10.Validate
}

func NewAdminHandler(facade AdminFacade, validate *validatorv10.Validate) *AdminHandler {
	return &AdminHandler{facade: facade, validate: validate}
}

// Login handles POST /api/admin/login.
func (h *AdminHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return
	}

	token, err := h.facade.AdminLogin(c.Request.Context(), req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Envelope{Success: true, Data: dto.LoginResponse{Token: token}})
}
