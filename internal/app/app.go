package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/arkpay/internal/config"
	"github.com/polkiloo/arkpay/internal/server/http/handlers"
	"github.com/polkiloo/arkpay/internal/storage/postgres"
	"github.com/polkiloo/arkpay/internal/usecase"
	"github.com/polkiloo/arkpay/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		NewCheckoutFacade,
		func(f *CheckoutFacade) handlers.CheckoutFacade { return f },
		func(s *postgres.Storage) HealthChecker { return s },
		newHTTPServer,
		newRechecker,
		newSweeper,
	),
	fx.Invoke(registerLifecycle),
)

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type workerParams struct {
	fx.In

	Facade *CheckoutFacade
	Config *config.Config
	Logger *slog.Logger
}

func newRechecker(p workerParams) *worker.Rechecker {
	return worker.NewRechecker(
		p.Facade,
		p.Config.RecheckInterval,
		p.Config.RecheckAfter,
		p.Config.MaxOrdersBatch,
		p.Config.WorkerPoolSize,
		p.Logger,
	)
}

func newSweeper(p workerParams) *worker.Sweeper {
	return worker.NewSweeper(p.Facade, p.Config.SweepInterval, p.Config.PendingOrderTTL, p.Logger)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Rechecker  *worker.Rechecker
	Sweeper    *worker.Sweeper
	FollowUps  *usecase.FollowUpRunner
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting arkpay", slog.String("addr", p.Server.Addr))
			// workers outlive the start context
			background := context.WithoutCancel(ctx)
			p.Sweeper.Start(background)
			p.Rechecker.Start(background)
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			var errs []error
			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errs = append(errs, err)
			}

			p.Rechecker.Stop()
			p.Sweeper.Stop()

			if err := p.FollowUps.Drain(shutdownCtx); err != nil {
				p.Logger.Warn("follow-ups still running at shutdown", slog.String("error", err.Error()))
			}

			p.Logger.Info("arkpay stopped")
			return errors.Join(errs...)
		},
	})
}
