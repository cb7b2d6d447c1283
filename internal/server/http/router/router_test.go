package router

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/arkpay/internal/config"
	pkgAuth "github.com/polkiloo/arkpay/internal/pkg/auth"
	"github.com/polkiloo/arkpay/internal/pkg/validation"
	"github.com/polkiloo/arkpay/internal/server/http/handlers"
	testhelpers "github.com/polkiloo/arkpay/internal/test"
)

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	facade := testhelpers.CheckoutFacadeStub{
		AdminFacadeStub: testhelpers.AdminFacadeStub{ParseFn: func(token string) (string, error) {
			if token != "good" {
				return "", pkgAuth.ErrInvalidToken
			}
			return "admin", nil
		}},
	}
	return Setup(Params{
		Facade:    facade,
		Validator: validation.New(),
		Config:    &config.Config{SignatureHeader: "X-Paystack-Signature"},
		Logger:    slog.New(slog.NewJSONHandler(io.Discard, nil)),
	})
}

func serve(engine *gin.Engine, method, target string, body []byte, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	return resp
}

func TestPublicRoutes(t *testing.T) {
	engine := newEngine()
	order, _ := json.Marshal(map[string]string{
		"name": "Ada", "phone": "123", "address": "1 Way", "city": "Lagos", "state": "Lagos",
		"cardLink": "https://ark.id/ada", "email": "ada@example.com", "amount": "1500",
	})

	cases := []struct {
		method string
		target string
		body   []byte
		want   int
	}{
		{http.MethodGet, "/healthz", nil, http.StatusOK},
		{http.MethodPost, "/api/orders", order, http.StatusCreated},
		{http.MethodGet, "/api/payments/callback?reference=ORD_1", nil, http.StatusFound},
		{http.MethodPost, "/api/payments/webhook", []byte(`{}`), http.StatusOK},
		{http.MethodGet, "/api/payments/verify/ORD_1", nil, http.StatusOK},
		{http.MethodGet, "/api/payments/status/ORD_1", nil, http.StatusOK},
		{http.MethodGet, "/api/discounts/validate/SAVE10", nil, http.StatusOK},
		{http.MethodPost, "/api/admin/login", []byte(`{"password":"x"}`), http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.method+" "+tc.target, func(t *testing.T) {
			if resp := serve(engine, tc.method, tc.target, tc.body, ""); resp.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, resp.Code, resp.Body.String())
			}
		})
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	engine := newEngine()

	cases := []struct {
		method string
		target string
		body   []byte
		want   int
	}{
		{http.MethodPost, "/api/discounts", []byte(`{"code":"SAVE2024"}`), http.StatusCreated},
		{http.MethodPost, "/api/discounts/bulk", []byte(`{"count":2}`), http.StatusCreated},
		{http.MethodGet, "/api/discounts", nil, http.StatusOK},
		{http.MethodPatch, "/api/discounts/deactivate/SAVE10", nil, http.StatusOK},
		{http.MethodPost, "/api/orders/expire", nil, http.StatusOK},
		{http.MethodGet, "/api/orders/stale", nil, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.method+" "+tc.target, func(t *testing.T) {
			if resp := serve(engine, tc.method, tc.target, tc.body, ""); resp.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401 without token, got %d", resp.Code)
			}
			if resp := serve(engine, tc.method, tc.target, tc.body, "forged"); resp.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401 for forged token, got %d", resp.Code)
			}
			if resp := serve(engine, tc.method, tc.target, tc.body, "good"); resp.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, resp.Code, resp.Body.String())
			}
		})
	}
}

func TestUnknownRoute(t *testing.T) {
	if resp := serve(newEngine(), http.MethodGet, "/api/user/orders", nil, ""); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

var _ handlers.CheckoutFacade = testhelpers.CheckoutFacadeStub{}
