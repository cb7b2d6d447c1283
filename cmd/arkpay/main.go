package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/fx"

	"github.com/polkiloo/arkpay/internal/di"
)

// stopTimeout leaves room for the configured shutdown timeout plus the follow-up drain.
const stopTimeout = 45 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := fx.New(
		fx.Provide(func() context.Context { return ctx }),
		fx.StopTimeout(stopTimeout),
		di.Module(),
	)

	if err := run(ctx, app); err != nil {
		fmt.Fprintf(os.Stderr, "arkpay: %v\n", err)
		stop()
		os.Exit(1)
	}
}
