package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/polkiloo/arkpay/internal/logger"
	"github.com/polkiloo/arkpay/internal/pkg/auth"
	"github.com/polkiloo/arkpay/internal/storage/postgres"
	"github.com/polkiloo/arkpay/internal/usecase"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if len(os.Args) > 1 && os.Args[1] == "hash-password" {
		if err := hashPassword(os.Stdin, os.Stdout, auth.NewBcryptHasher(0)); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	log := logger.NewWithWriter(os.Stderr, logger.ParseLevel(os.Getenv("LOG_LEVEL")))

	dsn := os.Getenv("DATABASE_URI")
	if dsn == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URI is required")
		os.Exit(2)
	}

	storage, err := postgres.New(ctx, dsn, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open storage: %v\n", err)
		os.Exit(1)
	}
	defer storage.Close()

	ledger := usecase.NewDiscountUseCase(storage.Discounts(), usecase.NewRandomCodeGenerator(), log)
	if err := run(ctx, os.Args[1:], ledger, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		storage.Close()
		os.Exit(1)
	}
}
