package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"go.uber.org/fx"

	"github.com/polkiloo/arkpay/internal/config"
	"github.com/polkiloo/arkpay/internal/server/http/handlers"
	"github.com/polkiloo/arkpay/internal/server/http/middleware"
)

// Params collects router dependencies.
type Params struct {
	fx.In

	Facade    handlers.CheckoutFacade
	Validator *validatorv10.Validate
	Config    *config.Config
	Logger    *slog.Logger
}

// Setup configures gin router with handlers and middleware.
func Setup(p Params) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(p.Logger))
	engine.Use(middleware.DecompressRequest(middleware.DefaultMaxBodyBytes))
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	orderHandler := handlers.NewOrderHandler(p.Facade, p.Validator)
	paymentHandler := handlers.NewPaymentHandler(p.Facade, p.Config.SignatureHeader)
	discountHandler := handlers.NewDiscountHandler(p.Facade, p.Validator)
	adminHandler := handlers.NewAdminHandler(p.Facade, p.Validator)
	healthHandler := handlers.NewHealthHandler(p.Facade)

	engine.GET("/healthz", healthHandler.Check)

	api := engine.Group("/api")
	api.POST("/orders", orderHandler.Create)
	api.POST("/admin/login", adminHandler.Login)
	api.GET("/discounts/validate/:code", discountHandler.Validate)

	payments := api.Group("/payments")
	payments.GET("/callback", paymentHandler.Callback)
	payments.POST("/webhook", paymentHandler.Webhook)
	payments.GET("/verify/:reference", paymentHandler.Status)
	payments.GET("/status/:reference", paymentHandler.Status)

	admin := api.Group("")
	admin.Use(middleware.AdminRequired(p.Facade))
	admin.POST("/discounts", discountHandler.Create)
	admin.POST("/discounts/bulk", discountHandler.Bulk)
	admin.GET("/discounts", discountHandler.List)
	admin.PATCH("/discounts/deactivate/:code", discountHandler.Deactivate)
	admin.POST("/orders/expire", orderHandler.Expire)
	admin.GET("/orders/stale", orderHandler.Stale)

	return engine
}
