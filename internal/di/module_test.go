package di

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"go.uber.org/fx"

	"github.com/polkiloo/arkpay/internal/adapter/gateway"
	"github.com/polkiloo/arkpay/internal/adapter/provisioning"
	"github.com/polkiloo/arkpay/internal/app"
	"github.com/polkiloo/arkpay/internal/config"
	"github.com/polkiloo/arkpay/internal/domain/repository"
	"github.com/polkiloo/arkpay/internal/server/http/handlers"
	"github.com/polkiloo/arkpay/internal/storage/postgres"
	"github.com/polkiloo/arkpay/internal/test"
)

func TestModuleComposesGraphWithReplacements(t *testing.T) {
	cfg := &config.Config{
		RunAddress:       ":0",
		DatabaseURI:      "postgres://stub",
		GatewayBaseURL:   "http://localhost",
		GatewaySecret:    "sk_test",
		GatewayTimeout:   time.Second,
		FrontendURL:      "http://localhost:3000",
		AdminTokenSecret: "secret",
		RecheckInterval:  time.Millisecond,
		SweepInterval:    time.Millisecond,
		WorkerPoolSize:   1,
		MaxOrdersBatch:   1,
		FollowUpTimeout:  time.Second,
		ShutdownTimeout:  time.Millisecond,
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	orders := test.NewOrderRepositoryStub()
	discounts := test.NewDiscountRepositoryStub()

	var facade *app.CheckoutFacade
	var httpFacade handlers.CheckoutFacade
	fxApp := fx.New(
		fx.NopLogger,
		fx.Provide(func() context.Context { return context.Background() }),
		Module(
			fx.Replace(cfg),
			fx.Replace(logger),
			fx.Replace(&postgres.Storage{}),
			fx.Replace(fx.Annotate(orders, fx.As(new(repository.OrderRepository)))),
			fx.Replace(fx.Annotate(discounts, fx.As(new(repository.DiscountRepository)))),
			fx.Replace(fx.Annotate(test.NewSettlementStub(orders, discounts), fx.As(new(repository.SettlementRepository)))),
			fx.Replace(fx.Annotate(&test.GatewayStub{}, fx.As(new(gateway.Client)))),
			fx.Replace(fx.Annotate(&test.ProvisionerStub{}, fx.As(new(provisioning.Provisioner)))),
		),
		fx.Populate(&facade, &httpFacade),
	)

	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}
	t.Cleanup(func() { _ = fxApp.Stop(context.Background()) })
	if facade == nil || httpFacade == nil {
		t.Fatal("expected checkout facade instances")
	}
}
