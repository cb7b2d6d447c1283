package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	domainErrors "github.com/polkiloo/arkpay/internal/domain/errors"
)

var ErrInvalidToken = domainErrors.ErrInvalidToken

const defaultTokenTTL = 12 * time.Hour

var tokenEncoding = base64.RawURLEncoding

// HMACStrategy signs "subject:expiry" with HMAC-SHA256 and packs it into a URL-safe token.
type HMACStrategy struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewHMACStrategy builds HMACStrategy with provided secret and options.
func NewHMACStrategy(secret string, opts Options) *HMACStrategy {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &HMACStrategy{secret: []byte(secret), ttl: ttl, now: now}
}

// IssueToken generates signed auth token for the subject.
func (s *HMACStrategy) IssueToken(subject string) (string, error) {
	if subject == "" || strings.Contains(subject, ":") {
		return "", fmt.Errorf("%w: invalid token subject %q", domainErrors.ErrValidation, subject)
	}
	payload := subject + ":" + strconv.FormatInt(s.now().Add(s.ttl).Unix(), 10)
	return tokenEncoding.EncodeToString([]byte(payload + ":" + s.sign(payload))), nil
}

// ParseToken validates token and returns encoded subject.
func (s *HMACStrategy) ParseToken(token string) (string, error) {
	raw, err := tokenEncoding.DecodeString(token)
	if err != nil {
		return "", ErrInvalidToken
	}

	subject, rest, ok := strings.Cut(string(raw), ":")
	if !ok || subject == "" {
		return "", ErrInvalidToken
	}
	expiry, sig, ok := strings.Cut(rest, ":")
	if !ok {
		return "", ErrInvalidToken
	}

	if !hmac.Equal([]byte(s.sign(subject+":"+expiry)), []byte(sig)) {
		return "", ErrInvalidToken
	}

	expires, err := strconv.ParseInt(expiry, 10, 64)
	if err != nil || !s.now().Before(time.Unix(expires, 0)) {
		return "", ErrInvalidToken
	}
	return subject, nil
}

func (s *HMACStrategy) Name() string {
	return "hmac-sha256"
}

func (s *HMACStrategy) sign(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return tokenEncoding.EncodeToString(mac.Sum(nil))
}
