package notification

import (
	errors "github.com/frahmantamala/association-management/internal"
	"github.com/frahmantamala/association-management/internal/core/common/validation"
	"github.com/frahmantamala/association-management/internal/dues"
)

type SendDuesDTO struct {
	Tipo string `json:"tipo"`
	Options
}

func (dto *SendDuesDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("tipo", dto.Tipo).Required().OneOf(errors.ErrCodeInvalidValue, Kinds...)
	v.Field("dias_restantes", dto.DaysRemaining).IntRange(0, 365, errors.ErrCodeInvalidValue)
	v.Field("dias_atraso", dto.DaysOverdue).IntRange(0, 3650, errors.ErrCodeInvalidValue)
	return v.Validate()
}

// BatchDTO targets every record of a month, optionally narrowed by status.
type BatchDTO struct {
	Tipo   string `json:"tipo"`
	Ano    int    `json:"ano"`
	Mes    int    `json:"mes"`
	Status string `json:"status,omitempty"`
}

func (dto *BatchDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("tipo", dto.Tipo).Required().OneOf(errors.ErrCodeInvalidValue, BatchKinds...)
	v.Field("ano", dto.Ano).IntRange(2000, 2100, errors.ErrCodeInvalidPeriod)
	v.Field("mes", dto.Mes).IntRange(1, 12, errors.ErrCodeInvalidPeriod)
	if dto.Status != "" && dto.Status != "todos" {
		v.Field("status", dto.Status).OneOf(errors.ErrCodeInvalidStatus, string(dues.StatusPaid), string(dues.StatusPending))
	}
	return v.Validate()
}

type SendResult struct {
	Success bool   `json:"success"`
	To      string `json:"para"`
	Subject string `json:"assunto"`
}

// BatchResult counts a batch run. Records without an address, and paid
// records for overdue notices, are skipped rather than failed.
type BatchResult struct {
	Total     int `json:"total"`
	Enviados  int `json:"enviados"`
	Erros     int `json:"erros"`
	Ignorados int `json:"ignorados"`
}

type sendEmailResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type sendEmailError struct {
	Error string `json:"error"`
}
