package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/frahmantamala/association-management/internal/core/common/format"
	"github.com/frahmantamala/association-management/internal/dues"
	"github.com/frahmantamala/association-management/internal/employee"
)

const (
	SheetEmployees = "Funcionários"
	SheetDues      = "Associações"
)

type column struct {
	title string
	width float64
}

var employeeColumns = []column{
	{"Nome", 30},
	{"CPF", 15},
	{"Email", 30},
	{"Telefone", 15},
	{"Cargo", 20},
	{"Data Admissão", 15},
	{"Data Adesão", 15},
	{"Status", 12},
	{"Observações", 40},
}

var duesColumns = []column{
	{"Funcionário", 30},
	{"CPF", 15},
	{"Email", 30},
	{"Telefone", 15},
	{"Ano", 8},
	{"Mês", 12},
	{"Valor Mensalidade", 15},
	{"Status", 12},
	{"Data Pagamento", 15},
}

func (r *Renderer) EmployeesXLSX(employees []*employee.Employee) (*File, error) {
	rows := make([][]interface{}, 0, len(employees))
	for _, e := range employees {
		phone := "-"
		if e.Telefone != nil {
			phone = format.Phone(*e.Telefone)
		}
		rows = append(rows, []interface{}{
			e.Nome,
			e.FormattedCPF(),
			e.Email,
			phone,
			format.OrDash(e.Cargo),
			format.Date(e.DataAdmissao),
			format.Date(e.DataAdesao),
			format.Title(string(e.Status)),
			format.OrDash(e.Observacoes),
		})
	}

	data, err := writeSheet(SheetEmployees, employeeColumns, rows)
	if err != nil {
		return nil, err
	}
	return &File{Name: datedName("funcionarios", r.now(), FormatXLSX), ContentType: ContentTypeXLSX, Data: data}, nil
}

func (r *Renderer) DuesXLSX(records []*dues.DuesRecord, year, month int) (*File, error) {
	rows := make([][]interface{}, 0, len(records))
	for _, rec := range records {
		email, phone := "-", "-"
		if rec.Funcionario != nil {
			if rec.Funcionario.Email != "" {
				email = rec.Funcionario.Email
			}
			if rec.Funcionario.Telefone != nil {
				phone = format.Phone(*rec.Funcionario.Telefone)
			}
		}
		rows = append(rows, []interface{}{
			rec.EmployeeName(),
			cpfOf(rec),
			email,
			phone,
			rec.Ano,
			format.MonthName(rec.Mes),
			rec.ValorMensalidade.InexactFloat64(),
			rec.StatusLabel(),
			format.Date(rec.DataPagamento),
		})
	}

	data, err := writeSheet(SheetDues, duesColumns, rows)
	if err != nil {
		return nil, err
	}
	return &File{Name: periodName("associacoes", year, month, FormatXLSX), ContentType: ContentTypeXLSX, Data: data}, nil
}

// writeSheet renders a single-sheet workbook with a bold header row.
func writeSheet(sheet string, columns []column, rows [][]interface{}) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c.title
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheet, name, name, c.width); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(columns), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A1", lastHeader, bold); err != nil {
		return nil, err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := row
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
