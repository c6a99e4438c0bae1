package dues

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/frahmantamala/association-management/internal/core/common/format"
	duesDatamodel "github.com/frahmantamala/association-management/internal/core/datamodel/dues"
	"github.com/frahmantamala/association-management/internal/employee"
)

// PaymentStatus is the filter vocabulary; the record itself only stores pago.
type PaymentStatus string

const (
	StatusPaid    PaymentStatus = "pago"
	StatusPending PaymentStatus = "pendente"
)

// MsgAllGenerated is reported, with success still true, when every active
// employee already has a record for the month.
const MsgAllGenerated = "Todas as associações já foram criadas"

type DuesRecord struct {
	ID               string             `json:"id"`
	FuncionarioID    string             `json:"funcionario_id"`
	Ano              int                `json:"ano"`
	Mes              int                `json:"mes"`
	ValorMensalidade decimal.Decimal    `json:"valor_mensalidade"`
	Pago             bool               `json:"pago"`
	DataPagamento    *time.Time         `json:"data_pagamento"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
	Funcionario      *employee.Employee `json:"funcionarios,omitempty"`
}

func (d *DuesRecord) Status() PaymentStatus {
	if d.Pago {
		return StatusPaid
	}
	return StatusPending
}

// StatusLabel is the capitalized status shown in reports.
func (d *DuesRecord) StatusLabel() string {
	if d.Pago {
		return "Pago"
	}
	return "Pendente"
}

func (d *DuesRecord) Period() string {
	return format.Period(d.Ano, d.Mes)
}

func (d *DuesRecord) EmployeeName() string {
	if d.Funcionario == nil {
		return "-"
	}
	return d.Funcionario.Nome
}

func (d *DuesRecord) EmployeeEmail() string {
	if d.Funcionario == nil {
		return ""
	}
	return d.Funcionario.Email
}

// GenerationResult reports a generator run. Errors may hold an informational
// note even when Success is true.
type GenerationResult struct {
	Success bool     `json:"success"`
	Created int      `json:"criadas"`
	Errors  []string `json:"errors"`
}

func ToDataModel(d *DuesRecord) *duesDatamodel.DuesRecord {
	return &duesDatamodel.DuesRecord{
		ID:               d.ID,
		FuncionarioID:    d.FuncionarioID,
		Ano:              d.Ano,
		Mes:              d.Mes,
		ValorMensalidade: d.ValorMensalidade,
		Pago:             d.Pago,
		DataPagamento:    d.DataPagamento,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

func FromDataModel(d *duesDatamodel.DuesRecord) *DuesRecord {
	record := &DuesRecord{
		ID:               d.ID,
		FuncionarioID:    d.FuncionarioID,
		Ano:              d.Ano,
		Mes:              d.Mes,
		ValorMensalidade: d.ValorMensalidade,
		Pago:             d.Pago,
		DataPagamento:    d.DataPagamento,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
	if d.Funcionario != nil {
		record.Funcionario = employee.FromDataModel(d.Funcionario)
	}
	return record
}
