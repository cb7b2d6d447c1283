package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/polkiloo/arkpay/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestRunner() *FollowUpRunner {
	return NewFollowUpRunner(&config.Config{FollowUpTimeout: time.Second}, testLogger())
}

func drain(t *testing.T, r *FollowUpRunner) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.Drain(ctx); err != nil {
		t.Fatalf("follow-ups did not finish: %v", err)
	}
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func intPtr(v int) *int { return &v }
