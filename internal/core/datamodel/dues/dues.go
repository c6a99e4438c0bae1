package dues

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	employeeDatamodel "github.com/frahmantamala/association-management/internal/core/datamodel/employee"
)

// DuesRecord is one employee's monthly fee for a year/month. The triple
// (funcionario_id, ano, mes) is unique.
type DuesRecord struct {
	ID               string                      `gorm:"primaryKey;type:uuid"`
	FuncionarioID    string                      `gorm:"column:funcionario_id;type:uuid;not null;uniqueIndex:uq_associacoes_funcionario_periodo,priority:1"`
	Ano              int                         `gorm:"column:ano;not null;uniqueIndex:uq_associacoes_funcionario_periodo,priority:2;index:idx_associacoes_periodo,priority:1"`
	Mes              int                         `gorm:"column:mes;not null;uniqueIndex:uq_associacoes_funcionario_periodo,priority:3;index:idx_associacoes_periodo,priority:2"`
	ValorMensalidade decimal.Decimal             `gorm:"column:valor_mensalidade;type:numeric(12,2);not null;default:0"`
	Pago             bool                        `gorm:"column:pago;not null;default:false"`
	DataPagamento    *time.Time                  `gorm:"column:data_pagamento;type:date"`
	CreatedAt        time.Time                   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time                   `gorm:"column:updated_at;autoUpdateTime"`
	Funcionario      *employeeDatamodel.Employee `gorm:"foreignKey:FuncionarioID;references:ID"`
}

func (DuesRecord) TableName() string {
	return "associacoes"
}

func (d *DuesRecord) BeforeCreate(_ *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
