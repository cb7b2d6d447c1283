package signature

import (
	"go.uber.org/fx"

	"github.com/polkiloo/arkpay/internal/config"
)

// Module provides the webhook signature verifier keyed with the gateway secret.
var Module = fx.Provide(newVerifier)

func newVerifier(cfg *config.Config) Verifier {
	return NewHMACVerifier(cfg.GatewaySecret)
}
