package gateway

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/arkpay/internal/config"
)

// Module exposes the payment gateway client to fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.GatewayBaseURL, p.Config.GatewaySecret, p.Config.GatewayTimeout, p.Logger)
}
