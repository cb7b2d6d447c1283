package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	domainErrors "github.com/polkiloo/arkpay/internal/domain/errors"
	"github.com/polkiloo/arkpay/internal/domain/model"
	"github.com/polkiloo/arkpay/internal/pkg/auth"
	"github.com/polkiloo/arkpay/internal/test"
	"github.com/polkiloo/arkpay/internal/usecase"
)

func newLedger() (*usecase.DiscountUseCase, *test.DiscountRepositoryStub) {
	repo := test.NewDiscountRepositoryStub()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return usecase.NewDiscountUseCase(repo, usecase.NewRandomCodeGenerator(), logger), repo
}

func TestRunCreate(t *testing.T) {
	ledger, repo := newLedger()
	var out bytes.Buffer

	err := run(context.Background(), []string{"create", "-code", "save2024", "-limit", "5", "-expires", "2099-12-31"}, ledger, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "SAVE2024") {
		t.Fatalf("expected code in output, got %q", out.String())
	}
	stored, ok := repo.Get("SAVE2024")
	if !ok || stored.UsageLimit == nil || *stored.UsageLimit != 5 {
		t.Fatalf("unexpected stored code %+v", stored)
	}
	wantExpiry := time.Date(2099, 12, 31, 23, 59, 59, 999999000, time.UTC)
	if stored.ExpiryDate == nil || !stored.ExpiryDate.Equal(wantExpiry) {
		t.Fatalf("expected expiry at end of day, got %v", stored.ExpiryDate)
	}

	err = run(context.Background(), []string{"create", "-code", "SAVE2024"}, ledger, &out)
	if !errors.Is(err, domainErrors.ErrDuplicateCode) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestRunBulkListDeactivate(t *testing.T) {
	ledger, repo := newLedger()
	var out bytes.Buffer

	if err := run(context.Background(), []string{"bulk", "-count", "3", "-description", "launch"}, ledger, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.Len() != 3 || !strings.Contains(out.String(), "created 3, failed 0") {
		t.Fatalf("expected three codes, got %d: %q", repo.Len(), out.String())
	}

	out.Reset()
	if err := run(context.Background(), []string{"list"}, ledger, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lines := strings.Count(strings.TrimSpace(out.String()), "\n"); lines != 3 {
		t.Fatalf("expected header plus three rows, got %q", out.String())
	}

	codes, _ := ledger.List(context.Background())
	out.Reset()
	if err := run(context.Background(), []string{"deactivate", "-code", codes[0].Code}, ledger, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored, _ := repo.Get(codes[0].Code); stored.IsActive {
		t.Fatal("expected code to be deactivated")
	}
}

func TestRunRejectsBadInput(t *testing.T) {
	ledger, _ := newLedger()
	cases := [][]string{
		nil,
		{"unknown"},
		{"create", "-expires", "tomorrow"},
		{"create", "-nope"},
		{"bulk", "-count", "0"},
		{"deactivate"},
	}
	for _, args := range cases {
		if err := run(context.Background(), args, ledger, io.Discard); err == nil {
			t.Fatalf("%v: expected error", args)
		}
	}
}

func TestParseExpiry(t *testing.T) {
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		raw  string
		want time.Time
	}{
		{"720h", now.Add(720 * time.Hour)},
		{"2026-11-01", time.Date(2026, 11, 1, 23, 59, 59, 999999000, time.UTC)},
		{"2026-11-01T10:00:00Z", time.Date(2026, 11, 1, 10, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, err := parseExpiry(tc.raw, now)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.raw, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.raw, tc.want, got)
		}
	}
	if _, err := parseExpiry("-5h", now); err == nil {
		t.Fatal("expected negative duration to be rejected")
	}
}

func TestDateExpiryCoversWholeDay(t *testing.T) {
	expiry, err := parseExpiry("2026-11-01", time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	code := model.DiscountCode{Code: "DAY", IsActive: true, ExpiryDate: &expiry}

	lastMoments := []time.Time{
		time.Date(2026, 11, 1, 23, 59, 59, 0, time.UTC),
		time.Date(2026, 11, 1, 23, 59, 59, 500000000, time.UTC),
		time.Date(2026, 11, 1, 23, 59, 59, 999999000, time.UTC),
	}
	for _, at := range lastMoments {
		if state := code.State(at); state != model.DiscountStateValid {
			t.Fatalf("expected valid at %v, got %s", at, state)
		}
	}
	if state := code.State(time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)); state != model.DiscountStateExpired {
		t.Fatalf("expected expired at next midnight, got %s", state)
	}
}

func TestHashPassword(t *testing.T) {
	hasher := auth.NewBcryptHasher(4)
	var out bytes.Buffer
	if err := hashPassword(strings.NewReader("s3cret\n"), &out, hasher); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hash := strings.TrimSpace(out.String())
	if err := hasher.Compare(hash, "s3cret"); err != nil {
		t.Fatalf("expected printed hash to match password: %v", err)
	}

	if err := hashPassword(strings.NewReader(""), io.Discard, hasher); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error for empty password, got %v", err)
	}
}
