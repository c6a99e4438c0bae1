package notification

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/frahmantamala/association-management/internal/core/common/format"
	"github.com/frahmantamala/association-management/internal/dues"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

type palette struct {
	color template.CSS
	box   template.CSS
}

var palettes = map[Kind]palette{
	KindCharge:       {color: "#2563eb", box: "white"},
	KindReminder:     {color: "#f59e0b", box: "#fef3c7"},
	KindConfirmation: {color: "#10b981", box: "#d1fae5"},
	KindOverdue:      {color: "#ef4444", box: "#fee2e2"},
}

var templates = parseTemplates()

func parseTemplates() map[Kind]*template.Template {
	parsed := make(map[Kind]*template.Template, len(palettes))
	for kind := range palettes {
		parsed[kind] = template.Must(template.New(string(kind)).Option("missingkey=error").ParseFS(
			templateFS,
			"templates/_base.gohtml",
			fmt.Sprintf("templates/%s.gohtml", kind),
		))
	}
	return parsed
}

// Options tunes a rendered email. Zero values fall back to the defaults.
type Options struct {
	DaysRemaining int    `json:"dias_restantes,omitempty"`
	DaysOverdue   int    `json:"dias_atraso,omitempty"`
	DueDate       string `json:"vencimento,omitempty"`
	Signature     string `json:"-"`
}

type templateData struct {
	Nome          string
	CPF           string
	Periodo       string
	Valor         string
	Vencimento    string
	DiasRestantes int
	DiasAtraso    int
	DataPagamento string
	Signature     string
	Color         template.CSS
	BoxColor      template.CSS
}

// Compose renders the email for a dues record. The record must carry its
// employee; the recipient address is left for the caller to check.
func Compose(kind Kind, record *dues.DuesRecord, opts Options) (*Message, error) {
	tmpl, ok := templates[kind]
	if !ok {
		return nil, fmt.Errorf("unknown email template %q", kind)
	}

	if opts.DaysRemaining <= 0 {
		opts.DaysRemaining = DefaultDaysRemaining
	}
	if opts.DaysOverdue <= 0 {
		opts.DaysOverdue = DefaultDaysOverdue
	}
	if opts.Signature == "" {
		opts.Signature = DefaultSignature
	}

	data := templateData{
		Nome:          record.EmployeeName(),
		Periodo:       record.Period(),
		Valor:         format.Money(record.ValorMensalidade),
		Vencimento:    opts.DueDate,
		DiasRestantes: opts.DaysRemaining,
		DiasAtraso:    opts.DaysOverdue,
		DataPagamento: format.Date(record.DataPagamento),
		Signature:     opts.Signature,
		Color:         palettes[kind].color,
		BoxColor:      palettes[kind].box,
	}
	if record.Funcionario != nil {
		data.CPF = record.Funcionario.FormattedCPF()
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		return nil, fmt.Errorf("render %s email: %w", kind, err)
	}

	return &Message{
		To:      record.EmployeeEmail(),
		Subject: Subject(kind, record.Ano, record.Mes, opts),
		HTML:    buf.String(),
	}, nil
}

func Subject(kind Kind, year, month int, opts Options) string {
	period := format.Period(year, month)
	switch kind {
	case KindCharge:
		return "Cobrança de Mensalidade - " + period
	case KindReminder:
		days := opts.DaysRemaining
		if days <= 0 {
			days = DefaultDaysRemaining
		}
		return fmt.Sprintf("Lembrete: Mensalidade %s vence em %d dia(s)", period, days)
	case KindConfirmation:
		return "Pagamento Confirmado - " + period
	case KindOverdue:
		return "Aviso de Inadimplência - " + period
	}
	return period
}
