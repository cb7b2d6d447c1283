package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/arkpay/internal/domain/errors"
	"github.com/polkiloo/arkpay/internal/domain/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(server.URL, "sk_test", time.Second, testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client
}

func TestNewHTTPClientValidatesURL(t *testing.T) {
	if _, err := NewHTTPClient("://bad-url", "sk", time.Second, testLogger()); err == nil {
		t.Fatal("expected error for invalid url")
	}
	if _, err := NewHTTPClient("/relative", "sk", time.Second, testLogger()); err == nil {
		t.Fatal("expected error for relative url")
	}

	client, err := NewHTTPClient("https://api.example.com", "sk", 0, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.httpClient.Timeout != defaultTimeout {
		t.Fatalf("expected default timeout, got %v", client.httpClient.Timeout)
	}
}

func TestInitialize(t *testing.T) {
	var got initializeRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/transaction/initialize" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk_test" {
			t.Errorf("missing bearer secret, got %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":true,"message":"Authorization URL created","data":{"authorization_url":"https://checkout.example/abc","access_code":"abc","reference":"ORD_1_x"}}`))
	})

	checkout, err := client.Initialize(context.Background(), model.CheckoutRequest{
		Email:       "ada@example.com",
		Amount:      decimal.RequireFromString("2500.75"),
		Currency:    "NGN",
		Reference:   "ORD_1_x",
		CallbackURL: "https://shop.example/api/payments/callback",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Amount != 250075 {
		t.Fatalf("expected amount in minor units 250075, got %d", got.Amount)
	}
	if len(got.Channels) != 1 || got.Channels[0] != "card" {
		t.Fatalf("expected card channel only, got %v", got.Channels)
	}
	if got.CallbackURL == "" || got.Email != "ada@example.com" || got.Reference != "ORD_1_x" {
		t.Fatalf("unexpected request payload: %+v", got)
	}
	if checkout.AuthorizationURL != "https://checkout.example/abc" || checkout.AccessCode != "abc" || checkout.Reference != "ORD_1_x" {
		t.Fatalf("unexpected checkout: %+v", checkout)
	}
}

func TestVerify(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/transaction/verify/ORD_1_x" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"status":true,"message":"Verification successful","data":{"id":4099260516,"status":"success","reference":"ORD_1_x","amount":250075,"currency":"NGN","paid_at":"2024-05-01T10:00:05.000Z","channel":"card","customer":{"email":"ada@example.com"}}}`))
	})

	v, err := client.Verify(context.Background(), "ORD_1_x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Status != model.PaymentStatusSuccess || v.Status.OrderStatus() != model.OrderStatusCompleted {
		t.Fatalf("unexpected status %q", v.Status)
	}
	if v.TransactionID != "4099260516" {
		t.Fatalf("unexpected transaction id %q", v.TransactionID)
	}
	if !v.Amount.Equal(decimal.RequireFromString("2500.75")) {
		t.Fatalf("expected major unit amount 2500.75, got %s", v.Amount)
	}
	if v.PaidAt == nil || v.CustomerEmail != "ada@example.com" || v.Channel != "card" {
		t.Fatalf("unexpected verification: %+v", v)
	}
}

func TestVerifyFailures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		header map[string]string
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "rate limited",
			status: http.StatusTooManyRequests,
			header: map[string]string{"Retry-After": "7"},
			check: func(t *testing.T, err error) {
				delay, ok := RetryAfter(err)
				if !ok || delay != 7*time.Second {
					t.Fatalf("expected retry after 7s, got %v %v", delay, ok)
				}
			},
		},
		{
			name:   "not found",
			status: http.StatusNotFound,
			body:   `{"status":false,"message":"Transaction reference not found"}`,
			check: func(t *testing.T, err error) {
				var gwErr *Error
				if !errors.As(err, &gwErr) || gwErr.StatusCode != http.StatusNotFound {
					t.Fatalf("expected *Error with 404, got %v", err)
				}
				if gwErr.Message != "Transaction reference not found" {
					t.Fatalf("unexpected message %q", gwErr.Message)
				}
			},
		},
		{
			name:   "status false",
			status: http.StatusOK,
			body:   `{"status":false,"message":"Invalid key"}`,
		},
		{
			name:   "empty data",
			status: http.StatusOK,
			body:   `{"status":true,"message":"ok","data":null}`,
		},
		{
			name:   "malformed body",
			status: http.StatusOK,
			body:   `not json`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				for k, v := range tc.header {
					w.Header().Set(k, v)
				}
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			_, err := client.Verify(context.Background(), "ORD_1_x")
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, domainErrors.ErrGateway) {
				t.Fatalf("expected ErrGateway, got %v", err)
			}
			if tc.check != nil {
				tc.check(t, err)
			}
		})
	}
}

func TestVerifyTransportErrorIsGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client, err := NewHTTPClient(url, "sk", time.Second, testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	if _, err := client.Verify(context.Background(), "ref"); !errors.Is(err, domainErrors.ErrGateway) {
		t.Fatalf("expected ErrGateway, got %v", err)
	}
}

func TestVerifyHonoursTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	client, err := NewHTTPClient(server.URL, "sk", 50*time.Millisecond, testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	if _, err := client.Verify(context.Background(), "ref"); !errors.Is(err, domainErrors.ErrGateway) {
		t.Fatalf("expected timeout to surface as ErrGateway, got %v", err)
	}
}

func TestParseRetryAfter(t *testing.T) {
	if got := parseRetryAfter(""); got != 5*time.Second {
		t.Fatalf("expected default delay, got %v", got)
	}
	if got := parseRetryAfter("3"); got != 3*time.Second {
		t.Fatalf("expected 3s, got %v", got)
	}
	future := time.Now().Add(time.Minute).UTC().Format(http.TimeFormat)
	if got := parseRetryAfter(future); got <= 0 || got > time.Minute {
		t.Fatalf("expected positive delay up to a minute, got %v", got)
	}
	if got := parseRetryAfter("garbage"); got != 5*time.Second {
		t.Fatalf("expected default delay, got %v", got)
	}
}

func TestErrorMessages(t *testing.T) {
	if (&Error{StatusCode: 500}).Error() == "" {
		t.Fatal("expected message")
	}
	if (TooManyRequestsError{RetryAfter: time.Second}).Error() == "" {
		t.Fatal("expected message")
	}
	if _, ok := RetryAfter(errors.New("plain")); ok {
		t.Fatal("plain error must not carry retry delay")
	}
}
