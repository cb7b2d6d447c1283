package signature

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"strings"

	domainErrors "github.com/polkiloo/arkpay/internal/domain/errors"
)

// Verifier checks that a webhook body was signed with the gateway secret.
type Verifier interface {
	Verify(payload []byte, signature string) error
}

// HMACVerifier compares the hex HMAC-SHA512 of the raw body with the header value.
type HMACVerifier struct {
	secret []byte
}

func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret)}
}

// Verify returns ErrInvalidSignature unless signature matches payload exactly.
func (v *HMACVerifier) Verify(payload []byte, signature string) error {
	signature = strings.TrimSpace(signature)
	if signature == "" || len(v.secret) == 0 {
		return domainErrors.ErrInvalidSignature
	}

	given, err := hex.DecodeString(strings.ToLower(signature))
	if err != nil {
		return domainErrors.ErrInvalidSignature
	}

	if !hmac.Equal(v.sum(payload), given) {
		return domainErrors.ErrInvalidSignature
	}
	return nil
}

// Sign returns the header value the gateway would send for payload.
func (v *HMACVerifier) Sign(payload []byte) string {
	return hex.EncodeToString(v.sum(payload))
}

func (v *HMACVerifier) sum(payload []byte) []byte {
	mac := hmac.New(sha512.New, v.secret)
	mac.Write(payload)
	return mac.Sum(nil)
}
