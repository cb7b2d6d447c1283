package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

type application interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Done() <-chan os.Signal
}

// run starts the service, waits for a signal or an fx shutdown and stops it.
func run(ctx context.Context, app application) error {
	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("start: %w", err)
	}

	select {
	case <-ctx.Done():
	case <-app.Done():
	}

	// ctx is already cancelled here, fx applies its own stop timeout
	if err := app.Stop(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stop: %w", err)
	}
	return nil
}
