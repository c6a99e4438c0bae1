package employee

import (
	"strings"
	"time"

	errors "github.com/frahmantamala/association-management/internal"
	"github.com/frahmantamala/association-management/internal/core/common/format"
	"github.com/frahmantamala/association-management/internal/core/common/validation"
)

// EmployeeDTO is the payload for both create and update; updates replace
// every field, as the edit form always sends the whole record.
type EmployeeDTO struct {
	Nome         string  `json:"nome"`
	CPF          string  `json:"cpf"`
	Email        string  `json:"email"`
	Telefone     *string `json:"telefone,omitempty"`
	Cargo        *string `json:"cargo,omitempty"`
	DataAdmissao *string `json:"data_admissao,omitempty"`
	DataAdesao   *string `json:"data_adesao,omitempty"`
	Status       string  `json:"status,omitempty"`
	Observacoes  *string `json:"observacoes,omitempty"`
}

// Normalize trims input, strips CPF punctuation and defaults status to ativo.
func (dto *EmployeeDTO) Normalize() {
	dto.Nome = strings.TrimSpace(dto.Nome)
	dto.Email = strings.ToLower(strings.TrimSpace(dto.Email))
	dto.CPF = format.Digits(dto.CPF)
	if dto.Status == "" {
		dto.Status = string(StatusActive)
	}
	dto.Telefone = blankToNil(dto.Telefone)
	dto.Cargo = blankToNil(dto.Cargo)
	dto.Observacoes = blankToNil(dto.Observacoes)
	if dto.Telefone != nil {
		digits := format.Digits(*dto.Telefone)
		dto.Telefone = &digits
	}
}

func (dto *EmployeeDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("nome", dto.Nome).Required().MaxLength(200)
	v.Field("cpf", dto.CPF).Required().CPF()
	v.Field("email", dto.Email).Required().Email()
	v.Field("status", dto.Status).OneOf(errors.ErrCodeInvalidStatus, Statuses...)
	v.Field("data_admissao", dto.DataAdmissao).Custom(isoDate("data_admissao"))
	v.Field("data_adesao", dto.DataAdesao).Custom(isoDate("data_adesao"))
	return v.Validate()
}

// ToEmployee assumes Normalize and Validate already ran.
func (dto *EmployeeDTO) ToEmployee() *Employee {
	admissao, _ := format.ParseISODate(dto.DataAdmissao)
	adesao, _ := format.ParseISODate(dto.DataAdesao)
	return &Employee{
		Nome:         dto.Nome,
		CPF:          dto.CPF,
		Email:        dto.Email,
		Telefone:     dto.Telefone,
		Cargo:        dto.Cargo,
		DataAdmissao: admissao,
		DataAdesao:   adesao,
		Status:       Status(dto.Status),
		Observacoes:  dto.Observacoes,
	}
}

func isoDate(field string) func(interface{}) *errors.AppError {
	return func(value interface{}) *errors.AppError {
		s, _ := value.(*string)
		if _, err := format.ParseISODate(s); err != nil {
			return errors.NewValidationFieldError(field, "Data inválida, use AAAA-MM-DD", errors.ErrCodeInvalidDate)
		}
		return nil
	}
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// Filter narrows the employee listing. Zero values match everything and a
// zero Limit returns every row.
type Filter struct {
	Search         string
	Status         string
	Cargo          string
	AdmissaoInicio *time.Time
	AdmissaoFim    *time.Time
	Limit          int
	Offset         int
}

type ListResponse struct {
	Funcionarios []*Employee `json:"funcionarios"`
	Total        int64       `json:"total"`
	Limit        int         `json:"limit"`
	Offset       int         `json:"offset"`
}

type CargosResponse struct {
	Cargos []string `json:"cargos"`
}
