package audit

import (
	"encoding/json"
	"time"

	auditDatamodel "github.com/frahmantamala/association-management/internal/core/datamodel/audit"
)

type Action string

const (
	ActionCreate Action = "CREATE"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
	ActionView   Action = "VIEW"
	ActionExport Action = "EXPORT"
	ActionEmail  Action = "EMAIL"
)

// Tables named in audit entries.
const (
	TableEmployees = "funcionarios"
	TableDues      = "associacoes"
	TableDocuments = "documentos"
	TableSettings  = "configuracoes"
	TableUsers     = "user_profiles"
	TableReports   = "relatorios"
	TableEmails    = "emails"
)

type Entry struct {
	ID              string          `json:"id"`
	UsuarioID       *string         `json:"usuario_id"`
	UsuarioEmail    *string         `json:"usuario_email"`
	Acao            Action          `json:"acao"`
	Tabela          string          `json:"tabela"`
	RegistroID      *string         `json:"registro_id"`
	DadosAnteriores json.RawMessage `json:"dados_anteriores,omitempty"`
	DadosNovos      json.RawMessage `json:"dados_novos,omitempty"`
	IPAddress       *string         `json:"ip_address"`
	UserAgent       *string         `json:"user_agent"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Filter narrows the audit listing. Empty fields match everything.
type Filter struct {
	Acao   string
	Tabela string
	Search string
	Limit  int
	Offset int
}

func FromDataModel(l *auditDatamodel.Log) *Entry {
	return &Entry{
		ID:              l.ID,
		UsuarioID:       l.UsuarioID,
		UsuarioEmail:    l.UsuarioEmail,
		Acao:            Action(l.Acao),
		Tabela:          l.Tabela,
		RegistroID:      l.RegistroID,
		DadosAnteriores: json.RawMessage(l.DadosAnteriores),
		DadosNovos:      json.RawMessage(l.DadosNovos),
		IPAddress:       l.IPAddress,
		UserAgent:       l.UserAgent,
		CreatedAt:       l.CreatedAt,
	}
}
