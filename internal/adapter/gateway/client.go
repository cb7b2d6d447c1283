package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/arkpay/internal/domain/errors"
	"github.com/polkiloo/arkpay/internal/domain/model"
)

const defaultTimeout = 10 * time.Second

// minorUnits is the number of minor currency units in a major one.
var minorUnits = decimal.NewFromInt(100)

// TooManyRequestsError represents rate limiting signal from the gateway.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// Is makes rate limiting count as a gateway failure.
func (e TooManyRequestsError) Is(target error) bool {
	return target == domainErrors.ErrGateway
}

// Error is a non-successful gateway answer.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gateway responded with status %d", e.StatusCode)
	}
	return fmt.Sprintf("gateway responded with status %d: %s", e.StatusCode, e.Message)
}

func (e *Error) Is(target error) bool {
	return target == domainErrors.ErrGateway
}

// Client exposes the gateway transaction operations.
type Client interface {
	Initialize(ctx context.Context, req model.CheckoutRequest) (*model.Checkout, error)
	Verify(ctx context.Context, reference string) (*model.PaymentVerification, error)
}

// HTTPClient implements Client via the gateway REST API.
type HTTPClient struct {
	baseURL    *url.URL
	secret     string
	httpClient *http.Client
	logger     *slog.Logger
}

// envelope mirrors the common JSON wrapper of every gateway answer.
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type initializeRequest struct {
	Email       string   `json:"email"`
	Amount      int64    `json:"amount"`
	Reference   string   `json:"reference"`
	Currency    string   `json:"currency,omitempty"`
	Channels    []string `json:"channels"`
	CallbackURL string   `json:"callback_url,omitempty"`
}

type initializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type verifyData struct {
	ID        int64      `json:"id"`
	Status    string     `json:"status"`
	Reference string     `json:"reference"`
	Amount    int64      `json:"amount"`
	Currency  string     `json:"currency"`
	PaidAt    *time.Time `json:"paid_at"`
	Channel   string     `json:"channel"`
	Customer  struct {
		Email string `json:"email"`
	} `json:"customer"`
}

// NewHTTPClient creates a gateway client authenticating with the secret key.
func NewHTTPClient(baseURL, secret string, timeout time.Duration, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse gateway url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("gateway url must be absolute")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPClient{
		baseURL: parsed,
		secret:  secret,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Initialize opens a card transaction and returns the hosted payment page.
func (c *HTTPClient) Initialize(ctx context.Context, req model.CheckoutRequest) (*model.Checkout, error) {
	payload, err := json.Marshal(initializeRequest{
		Email:       req.Email,
		Amount:      req.Amount.Mul(minorUnits).Round(0).IntPart(),
		Reference:   req.Reference,
		Currency:    req.Currency,
		Channels:    []string{"card"},
		CallbackURL: req.CallbackURL,
	})
	if err != nil {
		return nil, err
	}

	var data initializeData
	if err := c.do(ctx, http.MethodPost, "/transaction/initialize", payload, &data); err != nil {
		return nil, err
	}

	reference := data.Reference
	if reference == "" {
		reference = req.Reference
	}
	return &model.Checkout{
		AuthorizationURL: data.AuthorizationURL,
		AccessCode:       data.AccessCode,
		Reference:        reference,
	}, nil
}

// Verify fetches the gateway's current view of the transaction.
func (c *HTTPClient) Verify(ctx context.Context, reference string) (*model.PaymentVerification, error) {
	var data verifyData
	if err := c.do(ctx, http.MethodGet, path.Join("/transaction/verify", reference), nil, &data); err != nil {
		return nil, err
	}

	verification := &model.PaymentVerification{
		Reference:     data.Reference,
		Status:        model.PaymentStatus(data.Status),
		Amount:        decimal.New(data.Amount, -2),
		Currency:      data.Currency,
		Channel:       data.Channel,
		CustomerEmail: data.Customer.Email,
		PaidAt:        data.PaidAt,
	}
	if data.ID != 0 {
		verification.TransactionID = strconv.FormatInt(data.ID, 10)
	}
	if verification.Reference == "" {
		verification.Reference = reference
	}
	return verification, nil
}

func (c *HTTPClient) do(ctx context.Context, method, route string, payload []byte, out any) error {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, route)

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return fmt.Errorf("%w: %w", domainErrors.ErrGateway, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.secret)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domainErrors.ErrGateway, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %w", domainErrors.ErrGateway, err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return TooManyRequestsError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		var env envelope
		_ = json.Unmarshal(raw, &env)
		c.logger.Error("gateway request failed",
			slog.String("method", method),
			slog.String("route", route),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(raw)))
		return &Error{StatusCode: resp.StatusCode, Message: env.Message}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%w: decode response: %w", domainErrors.ErrGateway, err)
	}
	if !env.Status {
		c.logger.Error("gateway rejected request",
			slog.String("route", route),
			slog.String("message", env.Message))
		return &Error{StatusCode: resp.StatusCode, Message: env.Message}
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return &Error{StatusCode: resp.StatusCode, Message: "empty response data"}
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: decode response data: %w", domainErrors.ErrGateway, err)
	}
	return nil
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 5 * time.Second
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}

// RetryAfter extracts the rate limit delay from err, if any.
func RetryAfter(err error) (time.Duration, bool) {
	var tooMany TooManyRequestsError
	if errors.As(err, &tooMany) {
		return tooMany.RetryAfter, true
	}
	return 0, false
}
