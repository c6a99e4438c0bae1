package report

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/frahmantamala/association-management/internal/core/common/format"
	"github.com/frahmantamala/association-management/internal/dues"
	"github.com/frahmantamala/association-management/internal/employee"
)

const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	marginLeft   = 14.0
	bottomMargin = 15.0
	rowHeight    = 6.0
)

type rgb struct{ r, g, b int }

var (
	headBlue = rgb{59, 130, 246}
	headRed  = rgb{239, 68, 68}
)

// Renderer builds PDF and XLSX files from rows that were already loaded.
type Renderer struct {
	// Header is printed under every listing title when set.
	Header string
	Now    func() time.Time
	// Uncompressed leaves PDF content streams readable.
	Uncompressed bool
}

func (r *Renderer) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

type pdfDoc struct {
	*fpdf.Fpdf
	tr func(string) string
}

func (r *Renderer) newDoc() *pdfDoc {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(!r.Uncompressed)
	pdf.SetMargins(marginLeft, 14, marginLeft)
	pdf.SetAutoPageBreak(false, bottomMargin)
	pdf.AddPage()
	return &pdfDoc{Fpdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (d *pdfDoc) text(x, y float64, s string) {
	d.Text(x, y, d.tr(s))
}

func (d *pdfDoc) centered(y float64, s string) {
	w := d.GetStringWidth(d.tr(s))
	d.Text((pageWidth-w)/2, y, d.tr(s))
}

func (d *pdfDoc) fit(s string, width float64) string {
	s = d.tr(s)
	if d.GetStringWidth(s) <= width-2 {
		return s
	}
	for len(s) > 0 && d.GetStringWidth(s+"...") > width-2 {
		s = s[:len(s)-1]
	}
	return s + "..."
}

// title prints the listing heading and returns the y below it.
func (d *pdfDoc) title(title, header string, lines ...string) float64 {
	d.SetFont("Helvetica", "", 18)
	d.text(marginLeft, 20, title)
	d.SetFont("Helvetica", "", 10)
	y := 28.0
	if header != "" {
		d.text(marginLeft, y, header)
		y += 6
	}
	for _, line := range lines {
		d.text(marginLeft, y, line)
		y += 6
	}
	return y
}

// table draws a striped grid, repeating the header row on each new page.
func (d *pdfDoc) table(x, startY float64, headers []string, widths []float64, rows [][]string, head rgb, fontSize float64) {
	drawHeader := func(y float64) {
		d.SetFont("Helvetica", "B", fontSize)
		d.SetFillColor(head.r, head.g, head.b)
		d.SetTextColor(255, 255, 255)
		d.SetXY(x, y)
		for i, h := range headers {
			d.CellFormat(widths[i], rowHeight+1, d.tr(h), "", 0, "L", true, 0, "")
		}
		d.SetTextColor(0, 0, 0)
		d.SetFont("Helvetica", "", fontSize)
	}

	y := startY
	drawHeader(y)
	y += rowHeight + 1

	for n, row := range rows {
		if y+rowHeight > pageHeight-bottomMargin {
			d.AddPage()
			y = 14
			drawHeader(y)
			y += rowHeight + 1
		}
		fill := n%2 == 1
		if fill {
			d.SetFillColor(245, 245, 245)
		}
		d.SetXY(x, y)
		for i, cell := range row {
			d.CellFormat(widths[i], rowHeight, d.fit(cell, widths[i]), "", 0, "L", fill, 0, "")
		}
		y += rowHeight
	}
}

func (d *pdfDoc) render() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func pdfFile(name string, d *pdfDoc) (*File, error) {
	data, err := d.render()
	if err != nil {
		return nil, err
	}
	return &File{Name: name, ContentType: ContentTypePDF, Data: data}, nil
}

func moneyOrDash(r *dues.DuesRecord) string {
	if r.ValorMensalidade.IsZero() {
		return "-"
	}
	return format.Money(r.ValorMensalidade)
}

func cpfOf(r *dues.DuesRecord) string {
	if r.Funcionario == nil || r.Funcionario.CPF == "" {
		return "-"
	}
	return r.Funcionario.FormattedCPF()
}

func (r *Renderer) EmployeesPDF(employees []*employee.Employee) (*File, error) {
	now := r.now()
	d := r.newDoc()
	y := d.title("Relatório de Funcionários", r.Header,
		"Data de geração: "+now.Format(generatedLayout),
		fmt.Sprintf("Total de funcionários: %d", len(employees)),
	)

	rows := make([][]string, 0, len(employees))
	for _, e := range employees {
		rows = append(rows, []string{
			e.Nome,
			e.FormattedCPF(),
			e.Email,
			format.OrDash(e.Cargo),
			format.Title(string(e.Status)),
		})
	}
	d.table(marginLeft, y, []string{"Nome", "CPF", "Email", "Cargo", "Status"},
		[]float64{50, 28, 52, 32, 20}, rows, headBlue, 8)

	return pdfFile(datedName("funcionarios", now, FormatPDF), d)
}

func duesRows(records []*dues.DuesRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			rec.EmployeeName(),
			cpfOf(rec),
			moneyOrDash(rec),
			rec.StatusLabel(),
			format.Date(rec.DataPagamento),
		})
	}
	return rows
}

var (
	duesHeaders = []string{"Funcionário", "CPF", "Valor", "Status", "Data Pagamento"}
	duesWidths  = []float64{56, 30, 30, 28, 38}
)

func (r *Renderer) DuesPDF(records []*dues.DuesRecord, year, month int) (*File, error) {
	now := r.now()
	t := dues.ComputeTotals(records)
	d := r.newDoc()
	y := d.title("Relatório de Associações", r.Header,
		"Período: "+format.Period(year, month),
		"Data de geração: "+now.Format(generatedLayout),
		fmt.Sprintf("Total de associações: %d", t.Total),
		fmt.Sprintf("Pagas: %d | Pendentes: %d", t.Pagas, t.Pendentes),
		"Valor Total: "+format.Money(t.ValorTotal),
		fmt.Sprintf("Valor Pago: %s | Pendente: %s", format.Money(t.ValorRecebido), format.Money(t.ValorPendente)),
	)

	d.table(marginLeft, y, duesHeaders, duesWidths, duesRows(records), headBlue, 8)
	return pdfFile(periodName("associacoes", year, month, FormatPDF), d)
}

// DelinquencyPDF lists only the unpaid records of the period.
func (r *Renderer) DelinquencyPDF(records []*dues.DuesRecord, year, month int) (*File, error) {
	now := r.now()
	pending := make([]*dues.DuesRecord, 0, len(records))
	for _, rec := range records {
		if !rec.Pago {
			pending = append(pending, rec)
		}
	}
	t := dues.ComputeTotals(pending)

	d := r.newDoc()
	y := d.title("Relatório de Inadimplência", r.Header,
		"Período: "+format.Period(year, month),
		"Data de geração: "+now.Format(generatedLayout),
		fmt.Sprintf("Total de inadimplentes: %d", len(pending)),
		"Valor Total Pendente: "+format.Money(t.ValorPendente),
	)

	rows := make([][]string, 0, len(pending))
	for _, rec := range pending {
		email, phone := "-", "-"
		if rec.Funcionario != nil {
			if rec.Funcionario.Email != "" {
				email = rec.Funcionario.Email
			}
			if rec.Funcionario.Telefone != nil {
				phone = format.Phone(*rec.Funcionario.Telefone)
			}
		}
		rows = append(rows, []string{rec.EmployeeName(), cpfOf(rec), email, phone, moneyOrDash(rec)})
	}
	d.table(marginLeft, y, []string{"Funcionário", "CPF", "Email", "Telefone", "Valor Pendente"},
		[]float64{46, 28, 48, 30, 30}, rows, headRed, 8)

	return pdfFile(periodName("inadimplencia", year, month, FormatPDF), d)
}

func (r *Renderer) FinancialPDF(records []*dues.DuesRecord, year, month int) (*File, error) {
	now := r.now()
	t := dues.ComputeTotals(records)
	d := r.newDoc()
	d.title("Relatório Financeiro", r.Header,
		"Período: "+format.Period(year, month),
		"Data de geração: "+now.Format(generatedLayout),
	)

	d.SetFont("Helvetica", "", 12)
	d.text(marginLeft, 46, "RESUMO FINANCEIRO")
	d.SetFont("Helvetica", "", 10)
	summary := []string{
		fmt.Sprintf("Total de Associações: %d", t.Total),
		fmt.Sprintf("Associações Pagas: %d", t.Pagas),
		fmt.Sprintf("Associações Pendentes: %d", t.Pendentes),
		"Valor Total: " + format.Money(t.ValorTotal),
		"Valor Recebido: " + format.Money(t.ValorRecebido),
		"Valor Pendente: " + format.Money(t.ValorPendente),
		"Percentual Pago: " + format.Percent(t.PercentPaid()),
	}
	y := 54.0
	for _, line := range summary {
		d.text(marginLeft, y, line)
		y += 6
	}

	d.table(marginLeft, y, duesHeaders, duesWidths, duesRows(records), headBlue, 8)
	return pdfFile(periodName("relatorio-financeiro", year, month, FormatPDF), d)
}

// ReceiptPDF renders the "RECIBO DE PAGAMENTO" for one record. Without a
// payment date the issue date is printed.
func (r *Renderer) ReceiptPDF(rec *dues.DuesRecord) (*File, error) {
	now := r.now()
	number := ReceiptNumber(rec.ID)
	d := r.newDoc()

	d.SetFont("Helvetica", "B", 16)
	d.centered(30, "RECIBO DE PAGAMENTO")
	d.SetFont("Helvetica", "", 10)
	d.centered(38, "Nº "+number)

	y := 50.0
	label := func(s string) {
		d.SetFont("Helvetica", "B", 10)
		d.text(20, y, s)
		d.SetFont("Helvetica", "", 10)
	}

	label("Recebi de:")
	d.text(20, y+7, rec.EmployeeName())
	d.text(20, y+14, "CPF: "+cpfOf(rec))
	y += 30

	label("Referente à mensalidade de:")
	d.text(20, y+7, rec.Period())
	y += 20

	label("O valor de:")
	d.SetFontSize(14)
	d.text(20, y+8, format.Money(rec.ValorMensalidade))
	d.SetFontSize(10)
	y += 25

	paidAt := now
	if rec.DataPagamento != nil {
		paidAt = *rec.DataPagamento
	}
	label("Data do pagamento:")
	d.text(20, y+7, paidAt.Format(format.DateLayout))
	y += 25

	label("Forma de pagamento:")
	d.text(20, y+7, "_____________________________")
	y += 30

	d.Line(20, y, 190, y)
	d.centered(y+10, "Assinatura")

	d.SetFontSize(8)
	d.centered(280, "Emitido em: "+now.Format(generatedLayout))

	return pdfFile(fmt.Sprintf("recibo-%s.pdf", number), d)
}

// ProofPDF renders the "COMPROVANTE DE PAGAMENTO" for one record.
func (r *Renderer) ProofPDF(rec *dues.DuesRecord) (*File, error) {
	now := r.now()
	d := r.newDoc()

	d.SetFont("Helvetica", "B", 16)
	d.centered(25, "COMPROVANTE DE PAGAMENTO")

	paidAt := "-"
	if rec.DataPagamento != nil {
		paidAt = rec.DataPagamento.Format(generatedLayout)
	}
	info := [][2]string{
		{"Funcionário:", rec.EmployeeName()},
		{"CPF:", cpfOf(rec)},
		{"Período:", rec.Period()},
		{"Valor:", format.Money(rec.ValorMensalidade)},
		{"Status:", rec.StatusLabel()},
		{"Data do Pagamento:", paidAt},
		{"Data de Emissão:", now.Format(generatedLayout)},
	}

	y := 40.0
	for _, row := range info {
		d.SetFont("Helvetica", "B", 10)
		d.text(20, y, row[0])
		d.SetFont("Helvetica", "", 10)
		d.text(70, y, row[1])
		y += 10
	}

	d.SetFontSize(8)
	d.centered(280, "Este comprovante pode ser usado como recibo")

	name := fmt.Sprintf("comprovante-%s-%d-%d.pdf", format.Slug(rec.EmployeeName()), rec.Mes, rec.Ano)
	return pdfFile(name, d)
}

// StatementPDF renders an employee's dues history, newest period first.
func (r *Renderer) StatementPDF(e *employee.Employee, records []*dues.DuesRecord) (*File, error) {
	now := r.now()
	sorted := append([]*dues.DuesRecord(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Ano != sorted[j].Ano {
			return sorted[i].Ano > sorted[j].Ano
		}
		return sorted[i].Mes > sorted[j].Mes
	})
	t := dues.ComputeTotals(records)

	d := r.newDoc()
	d.SetFont("Helvetica", "B", 16)
	d.centered(20, "EXTRATO FINANCEIRO")

	d.SetFont("Helvetica", "", 10)
	d.text(20, 30, "Funcionário: "+e.Nome)
	d.text(20, 37, "CPF: "+e.FormattedCPF())
	d.text(20, 44, "Data de emissão: "+now.Format(generatedLayout))

	d.SetFont("Helvetica", "B", 10)
	d.text(20, 56, "RESUMO:")
	d.SetFont("Helvetica", "", 10)
	d.text(20, 63, fmt.Sprintf("Total de mensalidades: %d", t.Total))
	d.text(20, 70, fmt.Sprintf("Pagas: %d | Pendentes: %d", t.Pagas, t.Pendentes))
	d.text(20, 77, "Valor Total: "+format.Money(t.ValorTotal))
	d.text(20, 84, "Valor Pago: "+format.Money(t.ValorRecebido))
	d.text(20, 91, "Valor Pendente: "+format.Money(t.ValorPendente))

	rows := make([][]string, 0, len(sorted))
	for _, rec := range sorted {
		rows = append(rows, []string{
			rec.Period(),
			format.Money(rec.ValorMensalidade),
			rec.StatusLabel(),
			format.Date(rec.DataPagamento),
		})
	}
	d.table(20, 98, []string{"Período", "Valor", "Status", "Data Pagamento"},
		[]float64{50, 40, 40, 40}, rows, headBlue, 9)

	return pdfFile(fmt.Sprintf("extrato-%s-%s.pdf", format.Slug(e.Nome), now.Format(format.ISODateLayout)), d)
}
