package setting

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Setting struct {
	ID           string    `gorm:"primaryKey;type:uuid"`
	Chave        string    `gorm:"column:chave;uniqueIndex;not null"`
	Valor        string    `gorm:"column:valor;not null"`
	Tipo         string    `gorm:"column:tipo;not null;default:text"`
	Categoria    string    `gorm:"column:categoria;not null"`
	Descricao    *string   `gorm:"column:descricao"`
	SomenteAdmin bool      `gorm:"column:somente_admin;not null;default:false"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Setting) TableName() string {
	return "configuracoes"
}

func (s *Setting) BeforeCreate(_ *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
