package usecase

import (
	"context"

	"github.com/polkiloo/arkpay/internal/config"
	domainErrors "github.com/polkiloo/arkpay/internal/domain/errors"
	pkgAuth "github.com/polkiloo/arkpay/internal/pkg/auth"
)

// AdminSubject is the token subject of the operator account.
const AdminSubject = "admin"

// AdminUseCase authenticates the operator behind the maintenance endpoints.
type AdminUseCase struct {
	passwordHash string
	hasher       pkgAuth.PasswordHasher
	tokens       pkgAuth.Strategy
}

// NewAdminUseCase constructs AdminUseCase.
func NewAdminUseCase(cfg *config.Config, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy) *AdminUseCase {
	return &AdminUseCase{passwordHash: cfg.AdminPasswordHash, hasher: hasher, tokens: strategy}
}

// Login checks the operator password and returns a bearer token.
func (u *AdminUseCase) Login(_ context.Context, password string) (string, error) {
	if u.passwordHash == "" || password == "" {
		return "", domainErrors.ErrInvalidCredentials
	}
	if err := u.hasher.Compare(u.passwordHash, password); err != nil {
		return "", domainErrors.ErrInvalidCredentials
	}
	return u.tokens.IssueToken(AdminSubject)
}

// ParseToken returns the subject of a valid token.
func (u *AdminUseCase) ParseToken(token string) (string, error) {
	if token == "" {
		return "", pkgAuth.ErrInvalidToken
	}
	return u.tokens.ParseToken(token)
}
