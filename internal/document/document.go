package document

import (
	"fmt"
	"regexp"
	"time"

	"github.com/frahmantamala/association-management/internal/core/common/format"
	documentDatamodel "github.com/frahmantamala/association-management/internal/core/datamodel/document"
	"github.com/frahmantamala/association-management/internal/employee"
)

type Type string

const (
	TypeIdentity   Type = "identidade"
	TypeCPF        Type = "cpf"
	TypeReceipt    Type = "comprovante"
	TypeMemberCard Type = "carteirinha"
	TypeOther      Type = "outro"
)

var Types = []string{string(TypeIdentity), string(TypeCPF), string(TypeReceipt), string(TypeMemberCard), string(TypeOther)}

// Bucket is the object storage bucket documents live in.
const Bucket = "documentos"

type Document struct {
	ID               string             `json:"id"`
	FuncionarioID    string             `json:"funcionario_id"`
	Nome             string             `json:"nome"`
	Tipo             Type               `json:"tipo"`
	Descricao        *string            `json:"descricao"`
	ArquivoURL       string             `json:"arquivo_url"`
	ArquivoNome      string             `json:"arquivo_nome"`
	ArquivoCaminho   string             `json:"arquivo_caminho"`
	ArquivoTamanho   *int64             `json:"arquivo_tamanho"`
	TamanhoFormatado string             `json:"tamanho_formatado"`
	CreatedAt        time.Time          `json:"created_at"`
	CreatedBy        *string            `json:"created_by"`
	Funcionario      *employee.Employee `json:"funcionario,omitempty"`
}

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// SanitizeFileName replaces every character outside [a-zA-Z0-9.-] with "_".
func SanitizeFileName(name string) string {
	return unsafeFileChars.ReplaceAllString(name, "_")
}

// ObjectKey is funcionario-<id>/<unix ms>_<sanitized name>.
func ObjectKey(employeeID, fileName string, at time.Time) string {
	return fmt.Sprintf("funcionario-%s/%d_%s", employeeID, at.UnixMilli(), SanitizeFileName(fileName))
}

func ToDataModel(d *Document) *documentDatamodel.Document {
	return &documentDatamodel.Document{
		ID:             d.ID,
		FuncionarioID:  d.FuncionarioID,
		Nome:           d.Nome,
		Tipo:           string(d.Tipo),
		Descricao:      d.Descricao,
		ArquivoURL:     d.ArquivoURL,
		ArquivoNome:    d.ArquivoNome,
		ArquivoCaminho: d.ArquivoCaminho,
		ArquivoTamanho: d.ArquivoTamanho,
		CreatedAt:      d.CreatedAt,
		CreatedBy:      d.CreatedBy,
	}
}

func FromDataModel(d *documentDatamodel.Document) *Document {
	doc := &Document{
		ID:             d.ID,
		FuncionarioID:  d.FuncionarioID,
		Nome:           d.Nome,
		Tipo:           Type(d.Tipo),
		Descricao:      d.Descricao,
		ArquivoURL:     d.ArquivoURL,
		ArquivoNome:    d.ArquivoNome,
		ArquivoCaminho: d.ArquivoCaminho,
		ArquivoTamanho: d.ArquivoTamanho,
		CreatedAt:      d.CreatedAt,
		CreatedBy:      d.CreatedBy,
	}
	if d.ArquivoTamanho != nil {
		doc.TamanhoFormatado = format.FileSize(*d.ArquivoTamanho)
	}
	if d.Funcionario != nil {
		doc.Funcionario = employee.FromDataModel(d.Funcionario)
	}
	return doc
}
