package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	domainErrors "github.com/polkiloo/arkpay/internal/domain/errors"
)

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// PasswordHasher hashes the operator password and checks login attempts against it.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error
}

// BcryptHasher uses bcrypt to hash passwords.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates BcryptHasher; a zero cost selects bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash returns the bcrypt hash suitable for ADMIN_PASSWORD_HASH.
func (h *BcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("%w: password is empty", domainErrors.ErrValidation)
	}
	if len(password) > maxPasswordBytes {
		return "", fmt.Errorf("%w: password exceeds %d bytes", domainErrors.ErrValidation, maxPasswordBytes)
	}
	encoded, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(encoded), nil
}

// Compare reports ErrInvalidCredentials when password does not match hash.
func (h *BcryptHasher) Compare(hash string, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return domainErrors.ErrInvalidCredentials
	default:
		return fmt.Errorf("%w: %v", domainErrors.ErrInvalidCredentials, err)
	}
}
