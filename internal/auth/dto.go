package auth

import (
	"strings"

	errors "github.com/frahmantamala/association-management/internal"
	"github.com/frahmantamala/association-management/internal/core/common/validation"
)

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenDTO for refresh token requests
type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

func (d *LoginDTO) Validate() *errors.AppError {
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	return validation.Struct(d)
}

func (d RefreshTokenDTO) Validate() *errors.AppError {
	return validation.Struct(d)
}
