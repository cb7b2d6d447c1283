package provisioning

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	domainErrors "github.com/polkiloo/arkpay/internal/domain/errors"
)

// Provisioner creates the purchased digital card for a buyer.
type Provisioner interface {
	Provision(ctx context.Context, username, email string) error
}

// HTTPClient calls the card service.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

type provisionRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

func NewHTTPClient(baseURL string, timeout time.Duration, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse provisioning url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("provisioning url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Provision registers the card; an existing card yields ErrAlreadyProvisioned.
func (c *HTTPClient) Provision(ctx context.Context, username, email string) error {
	payload, err := json.Marshal(provisionRequest{Username: username, Email: email})
	if err != nil {
		return err
	}

	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/cards")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("provision card: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		return nil
	case http.StatusConflict:
		return fmt.Errorf("%w: card %s", domainErrors.ErrAlreadyProvisioned, username)
	default:
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("provisioning request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return fmt.Errorf("provisioning error: %s", resp.Status)
	}
}

// LogProvisioner only records provisioning requests.
type LogProvisioner struct {
	logger *slog.Logger
}

func NewLogProvisioner(logger *slog.Logger) *LogProvisioner {
	return &LogProvisioner{logger: logger}
}

func (p *LogProvisioner) Provision(_ context.Context, username, email string) error {
	p.logger.Info("card provisioning requested", slog.String("username", username), slog.String("email", email))
	return nil
}
