package employee

import (
	"time"

	"github.com/frahmantamala/association-management/internal/core/common/format"
	employeeDatamodel "github.com/frahmantamala/association-management/internal/core/datamodel/employee"
)

type Status string

const (
	StatusActive    Status = "ativo"
	StatusInactive  Status = "inativo"
	StatusSuspended Status = "suspenso"
)

var Statuses = []string{string(StatusActive), string(StatusInactive), string(StatusSuspended)}

type Employee struct {
	ID           string     `json:"id"`
	Nome         string     `json:"nome"`
	CPF          string     `json:"cpf"`
	Email        string     `json:"email"`
	Telefone     *string    `json:"telefone"`
	Cargo        *string    `json:"cargo"`
	DataAdmissao *time.Time `json:"data_admissao"`
	DataAdesao   *time.Time `json:"data_adesao"`
	Status       Status     `json:"status"`
	Observacoes  *string    `json:"observacoes"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (e *Employee) IsActive() bool {
	return e.Status == StatusActive
}

// FormattedCPF is the masked form used on screens and documents.
func (e *Employee) FormattedCPF() string {
	return format.CPF(e.CPF)
}

func ToDataModel(e *Employee) *employeeDatamodel.Employee {
	return &employeeDatamodel.Employee{
		ID:           e.ID,
		Nome:         e.Nome,
		CPF:          e.CPF,
		Email:        e.Email,
		Telefone:     e.Telefone,
		Cargo:        e.Cargo,
		DataAdmissao: e.DataAdmissao,
		DataAdesao:   e.DataAdesao,
		Status:       string(e.Status),
		Observacoes:  e.Observacoes,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func FromDataModel(e *employeeDatamodel.Employee) *Employee {
	return &Employee{
		ID:           e.ID,
		Nome:         e.Nome,
		CPF:          e.CPF,
		Email:        e.Email,
		Telefone:     e.Telefone,
		Cargo:        e.Cargo,
		DataAdmissao: e.DataAdmissao,
		DataAdesao:   e.DataAdesao,
		Status:       Status(e.Status),
		Observacoes:  e.Observacoes,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}
