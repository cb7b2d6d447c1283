package provisioning

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/arkpay/internal/config"
)

// Module exposes the card provisioner to fx graph.
var Module = fx.Provide(newProvisioner)

type provisionerParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newProvisioner(p provisionerParams) (Provisioner, error) {
	if p.Config.ProvisioningURL == "" {
		p.Logger.Info("provisioning service not configured, logging requests")
		return NewLogProvisioner(p.Logger), nil
	}
	return NewHTTPClient(p.Config.ProvisioningURL, p.Config.GatewayTimeout, p.Logger)
}
