package errors

import "errors"

var (
	ErrAlreadyExists = errors.New("already exists")
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("validation failed")

	ErrDuplicateCode           = errors.New("discount code already exists")
	ErrCodeGenerationExhausted = errors.New("unable to generate unique discount code")
	ErrDiscountNotFound        = errors.New("discount code not found")
	ErrDiscountInactive        = errors.New("discount code is inactive")
	ErrDiscountExpired         = errors.New("discount code has expired")
	ErrDiscountLimitReached    = errors.New("discount code usage limit reached")
	ErrNotRedeemable           = errors.New("discount code is not redeemable")

	ErrInvalidSignature   = errors.New("invalid signature")
	ErrGateway            = errors.New("payment gateway error")
	ErrAlreadyProvisioned = errors.New("resource already provisioned")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)
