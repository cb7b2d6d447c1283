package dto

// LoginRequest carries the operator password.
type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
}
