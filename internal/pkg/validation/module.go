package validation

import "go.uber.org/fx"

// Module provides the shared request validator.
var Module = fx.Provide(New)
