package notify

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/arkpay/internal/config"
)

// Module wires the notification publisher and notifier.
var Module = fx.Provide(newPublisher, newNotifier)

type publisherParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

var loadAWSConfig = LoadAWSConfig

func newPublisher(p publisherParams) (Publisher, error) {
	if p.Config.NotifyQueueURL == "" {
		p.Logger.Info("notification queue not configured, logging notifications")
		return NewLogPublisher(p.Logger), nil
	}

	awsCfg, err := loadAWSConfig(p.Ctx, p.Config.AWSRegion)
	if err != nil {
		return nil, err
	}
	return NewSQSPublisher(NewSQSClient(awsCfg, p.Config.AWSEndpoint), p.Config.NotifyQueueURL), nil
}

func newNotifier(publisher Publisher, cfg *config.Config, logger *slog.Logger) *Notifier {
	return NewNotifier(publisher, cfg.SellerEmail, cfg.EmailSubjectPrefix, logger)
}
