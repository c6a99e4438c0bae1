package user

import (
	"strings"

	errors "github.com/frahmantamala/association-management/internal"
	"github.com/frahmantamala/association-management/internal/core/common/validation"
)

const MinPasswordLength = 6

type CreateDTO struct {
	Email  string  `json:"email" validate:"required,email"`
	Nome   *string `json:"nome"`
	Perfil string  `json:"perfil" validate:"required,oneof=admin operador visualizador"`
	Senha  string  `json:"senha" validate:"required,min=6"`
	Ativo  *bool   `json:"ativo"`
}

func (d *CreateDTO) Validate() *errors.AppError {
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.Nome = trimmed(d.Nome)
	return validation.Struct(d)
}

// UpdateDTO changes only the fields that are present.
type UpdateDTO struct {
	Nome   *string `json:"nome"`
	Perfil *string `json:"perfil" validate:"omitempty,oneof=admin operador visualizador"`
	Ativo  *bool   `json:"ativo"`
}

func (d *UpdateDTO) Validate() *errors.AppError {
	d.Nome = trimmed(d.Nome)
	return validation.Struct(d)
}

type UpdateNameDTO struct {
	Nome string `json:"nome" validate:"required"`
}

func (d *UpdateNameDTO) Validate() *errors.AppError {
	d.Nome = strings.TrimSpace(d.Nome)
	return validation.Struct(d)
}

type ChangePasswordDTO struct {
	SenhaAtual     string `json:"senha_atual" validate:"required"`
	NovaSenha      string `json:"nova_senha" validate:"required"`
	ConfirmarSenha string `json:"confirmar_senha" validate:"required"`
}

func (d ChangePasswordDTO) Validate() *errors.AppError {
	if verr := validation.Struct(d); verr != nil {
		return verr
	}
	if d.NovaSenha != d.ConfirmarSenha {
		return errors.NewValidationFieldError("confirmar_senha", MsgPasswordMismatch, errors.ErrCodeValidationFailed)
	}
	if len([]rune(d.NovaSenha)) < MinPasswordLength {
		return errors.NewValidationFieldError("nova_senha", errors.MsgPasswordTooShort, errors.ErrCodeValidationFailed)
	}
	return nil
}

// trimmed turns blank optional strings into nil.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
