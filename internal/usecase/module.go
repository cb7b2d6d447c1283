package usecase

import (
	"go.uber.org/fx"

	"github.com/polkiloo/arkpay/internal/adapter/notify"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	NewRandomCodeGenerator,
	NewDiscountUseCase,
	NewOrderUseCase,
	NewReconcileUseCase,
	NewAdminUseCase,
	NewFollowUps,
	NewFollowUpRunner,
	func(r *FollowUpRunner) Dispatcher { return r },
	func(n *notify.Notifier) Notifier { return n },
)
