package document

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	employeeDatamodel "github.com/frahmantamala/association-management/internal/core/datamodel/employee"
)

type Document struct {
	ID             string                      `gorm:"primaryKey;type:uuid"`
	FuncionarioID  string                      `gorm:"column:funcionario_id;type:uuid;not null;index"`
	Nome           string                      `gorm:"column:nome;not null"`
	Tipo           string                      `gorm:"column:tipo;not null"`
	Descricao      *string                     `gorm:"column:descricao"`
	ArquivoURL     string                      `gorm:"column:arquivo_url;not null"`
	ArquivoNome    string                      `gorm:"column:arquivo_nome;not null"`
	ArquivoCaminho string                      `gorm:"column:arquivo_caminho;not null"`
	ArquivoTamanho *int64                      `gorm:"column:arquivo_tamanho"`
	CreatedAt      time.Time                   `gorm:"column:created_at;autoCreateTime"`
	CreatedBy      *string                     `gorm:"column:created_by;type:uuid"`
	Funcionario    *employeeDatamodel.Employee `gorm:"foreignKey:FuncionarioID;references:ID"`
}

func (Document) TableName() string {
	return "documentos"
}

func (d *Document) BeforeCreate(_ *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
