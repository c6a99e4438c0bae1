package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Employee struct {
	ID           string     `gorm:"primaryKey;type:uuid"`
	Nome         string     `gorm:"column:nome;not null"`
	CPF          string     `gorm:"column:cpf;size:11;uniqueIndex;not null"`
	Email        string     `gorm:"column:email;not null"`
	Telefone     *string    `gorm:"column:telefone"`
	Cargo        *string    `gorm:"column:cargo"`
	DataAdmissao *time.Time `gorm:"column:data_admissao;type:date"`
	DataAdesao   *time.Time `gorm:"column:data_adesao;type:date"`
	Status       string     `gorm:"column:status;not null;default:ativo;index"`
	Observacoes  *string    `gorm:"column:observacoes"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Employee) TableName() string {
	return "funcionarios"
}

func (e *Employee) BeforeCreate(_ *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
