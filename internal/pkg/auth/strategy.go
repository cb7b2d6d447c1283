package auth

import "time"

// Strategy issues and verifies operator bearer tokens.
type Strategy interface {
	IssueToken(subject string) (string, error)
	ParseToken(token string) (string, error)
	Name() string
}

// Options tune token issuing. Now defaults to time.Now.
type Options struct {
	TTL time.Duration
	Now func() time.Time
}
