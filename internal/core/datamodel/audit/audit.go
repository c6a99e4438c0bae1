package audit

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Log rows are append-only.
type Log struct {
	ID              string         `gorm:"primaryKey;type:uuid"`
	UsuarioID       *string        `gorm:"column:usuario_id;type:uuid;index"`
	UsuarioEmail    *string        `gorm:"column:usuario_email"`
	Acao            string         `gorm:"column:acao;not null;index"`
	Tabela          string         `gorm:"column:tabela;not null;index"`
	RegistroID      *string        `gorm:"column:registro_id"`
	DadosAnteriores datatypes.JSON `gorm:"column:dados_anteriores"`
	DadosNovos      datatypes.JSON `gorm:"column:dados_novos"`
	IPAddress       *string        `gorm:"column:ip_address"`
	UserAgent       *string        `gorm:"column:user_agent"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime;index"`
}

func (Log) TableName() string {
	return "auditoria_logs"
}

func (l *Log) BeforeCreate(_ *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
