package signature

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/polkiloo/arkpay/internal/config"
	domainErrors "github.com/polkiloo/arkpay/internal/domain/errors"
)

func referenceSignature(secret string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestHMACVerifier(t *testing.T) {
	body := []byte(`{"event":"charge.success","data":{"reference":"ORD_1_abc"}}`)
	verifier := NewHMACVerifier("sk_test")
	valid := referenceSignature("sk_test", body)

	cases := []struct {
		name      string
		body      []byte
		signature string
		ok        bool
	}{
		{"valid", body, valid, true},
		{"uppercase hex", body, strings.ToUpper(valid), true},
		{"surrounding spaces", body, " " + valid + " ", true},
		{"tampered body", []byte(`{"event":"charge.success","data":{"reference":"ORD_2_abc"}}`), valid, false},
		{"whitespace changed body", append([]byte(" "), body...), valid, false},
		{"other secret", body, referenceSignature("sk_other", body), false},
		{"empty", body, "", false},
		{"not hex", body, "zz", false},
		{"truncated", body, valid[:len(valid)-2], false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := verifier.Verify(tc.body, tc.signature)
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && !errors.Is(err, domainErrors.ErrInvalidSignature) {
				t.Fatalf("expected ErrInvalidSignature, got %v", err)
			}
		})
	}
}

func TestHMACVerifierWithoutSecretRejects(t *testing.T) {
	body := []byte("{}")
	if err := NewHMACVerifier("").Verify(body, referenceSignature("", body)); !errors.Is(err, domainErrors.ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestSignMatchesVerify(t *testing.T) {
	verifier := NewHMACVerifier("sk_test")
	body := []byte(`{"event":"charge.failed"}`)
	if err := verifier.Verify(body, verifier.Sign(body)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewVerifierUsesGatewaySecret(t *testing.T) {
	v := newVerifier(&config.Config{GatewaySecret: "sk_cfg"})
	body := []byte("payload")
	if err := v.Verify(body, referenceSignature("sk_cfg", body)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
