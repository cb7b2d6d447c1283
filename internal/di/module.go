package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/arkpay/internal/adapter/gateway"
	"github.com/polkiloo/arkpay/internal/adapter/notify"
	"github.com/polkiloo/arkpay/internal/adapter/provisioning"
	"github.com/polkiloo/arkpay/internal/app"
	"github.com/polkiloo/arkpay/internal/config"
	"github.com/polkiloo/arkpay/internal/logger"
	"github.com/polkiloo/arkpay/internal/pkg/auth"
	"github.com/polkiloo/arkpay/internal/pkg/signature"
	"github.com/polkiloo/arkpay/internal/pkg/validation"
	"github.com/polkiloo/arkpay/internal/server/http/router"
	"github.com/polkiloo/arkpay/internal/storage/postgres"
	"github.com/polkiloo/arkpay/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		signature.Module,
		validation.Module,
		postgres.Module,
		gateway.Module,
		notify.Module,
		provisioning.Module,
		usecase.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
