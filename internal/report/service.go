package report

import (
	"context"
	"log/slog"
	"time"

	errors "github.com/frahmantamala/association-management/internal"
	"github.com/frahmantamala/association-management/internal/audit"
	"github.com/frahmantamala/association-management/internal/core/common/validation"
	"github.com/frahmantamala/association-management/internal/dues"
	"github.com/frahmantamala/association-management/internal/employee"
	"github.com/frahmantamala/association-management/internal/setting"
)

type EmployeeReader interface {
	List(ctx context.Context, filter employee.Filter) (*employee.ListResponse, error)
	Get(ctx context.Context, id string) (*employee.Employee, error)
}

type DuesReader interface {
	List(ctx context.Context, filter dues.Filter) (*dues.ListResponse, error)
	Get(ctx context.Context, id string) (*dues.DuesRecord, error)
	History(ctx context.Context, employeeID string) (*dues.HistoryResponse, error)
}

type SettingsReader interface {
	Get(ctx context.Context, key string) string
}

type AuditRecorder interface {
	Record(ctx context.Context, action audit.Action, table, recordID string, before, after interface{})
}

type RenderMetrics interface {
	ReportRendered(kind, format string)
}

var ErrNotPaid = errors.NewValidationError("Esta associação não foi paga ainda", errors.ErrCodeInvalidStatus)

type Service struct {
	employees EmployeeReader
	dues      DuesReader
	settings  SettingsReader
	audit     AuditRecorder
	metrics   RenderMetrics
	now       func() time.Time
	logger    *slog.Logger
}

func NewService(employees EmployeeReader, duesReader DuesReader, settings SettingsReader, auditRecorder AuditRecorder, metrics RenderMetrics, logger *slog.Logger) *Service {
	return &Service{
		employees: employees,
		dues:      duesReader,
		settings:  settings,
		audit:     auditRecorder,
		metrics:   metrics,
		now:       time.Now,
		logger:    logger,
	}
}

// WithClock replaces the time source used for generation stamps and file names.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) renderer(ctx context.Context) *Renderer {
	return &Renderer{
		Header: s.settings.Get(ctx, setting.KeyReportHeader),
		Now:    s.now,
	}
}

// Employees exports every employee matching filter, ignoring its paging.
func (s *Service) Employees(ctx context.Context, f Format, filter employee.Filter) (*File, error) {
	if verr := checkFormat(f, FormatPDF, FormatXLSX); verr != nil {
		return nil, verr
	}

	filter.Limit, filter.Offset = 0, 0
	list, err := s.employees.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to load employees for report", "error", err)
		return nil, err
	}

	r := s.renderer(ctx)
	var file *File
	if f == FormatXLSX {
		file, err = r.EmployeesXLSX(list.Funcionarios)
	} else {
		file, err = r.EmployeesPDF(list.Funcionarios)
	}
	if err != nil {
		s.logger.Error("failed to render employees report", "error", err, "formato", f)
		return nil, err
	}

	s.exported(ctx, KindEmployees, f, "", file, len(list.Funcionarios), nil)
	return file, nil
}

// Period renders one of the month reports: associacoes (pdf or xlsx),
// inadimplencia or financeiro (pdf).
func (s *Service) Period(ctx context.Context, kind Kind, f Format, year, month int) (*File, error) {
	v := validation.NewValidator()
	v.Field("tipo", string(kind)).OneOf(errors.ErrCodeInvalidValue, PeriodKinds...)
	v.Field("ano", year).IntRange(2000, 2100, errors.ErrCodeInvalidPeriod)
	v.Field("mes", month).IntRange(1, 12, errors.ErrCodeInvalidPeriod)
	if verr := v.Validate(); verr != nil {
		return nil, verr
	}

	allowed := []Format{FormatPDF}
	if kind == KindDues {
		allowed = append(allowed, FormatXLSX)
	}
	if verr := checkFormat(f, allowed...); verr != nil {
		return nil, verr
	}

	list, err := s.dues.List(ctx, dues.Filter{Ano: year, Mes: month})
	if err != nil {
		s.logger.Error("failed to load dues for report", "error", err, "ano", year, "mes", month)
		return nil, err
	}
	records := list.Associacoes

	r := s.renderer(ctx)
	var file *File
	switch {
	case kind == KindDues && f == FormatXLSX:
		file, err = r.DuesXLSX(records, year, month)
	case kind == KindDues:
		file, err = r.DuesPDF(records, year, month)
	case kind == KindDelinquency:
		file, err = r.DelinquencyPDF(records, year, month)
	default:
		file, err = r.FinancialPDF(records, year, month)
	}
	if err != nil {
		s.logger.Error("failed to render period report", "error", err, "tipo", kind, "formato", f)
		return nil, err
	}

	s.exported(ctx, kind, f, "", file, len(records), map[string]interface{}{"ano": year, "mes": month})
	return file, nil
}

func (s *Service) Receipt(ctx context.Context, duesID string) (*File, error) {
	return s.paymentDocument(ctx, KindReceipt, duesID)
}

func (s *Service) Proof(ctx context.Context, duesID string) (*File, error) {
	return s.paymentDocument(ctx, KindProof, duesID)
}

// paymentDocument renders a receipt or proof; both exist only for paid records.
func (s *Service) paymentDocument(ctx context.Context, kind Kind, duesID string) (*File, error) {
	record, err := s.dues.Get(ctx, duesID)
	if err != nil {
		return nil, err
	}
	if !record.Pago {
		return nil, ErrNotPaid
	}

	r := s.renderer(ctx)
	var file *File
	if kind == KindReceipt {
		file, err = r.ReceiptPDF(record)
	} else {
		file, err = r.ProofPDF(record)
	}
	if err != nil {
		s.logger.Error("failed to render payment document", "error", err, "tipo", kind, "associacao_id", duesID)
		return nil, err
	}

	s.exported(ctx, kind, FormatPDF, record.ID, file, 1, nil)
	return file, nil
}

// Statement renders an employee's full dues history.
func (s *Service) Statement(ctx context.Context, employeeID string) (*File, error) {
	e, err := s.employees.Get(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	history, err := s.dues.History(ctx, employeeID)
	if err != nil {
		s.logger.Error("failed to load dues history for statement", "error", err, "funcionario_id", employeeID)
		return nil, err
	}

	file, err := s.renderer(ctx).StatementPDF(e, history.Associacoes)
	if err != nil {
		s.logger.Error("failed to render statement", "error", err, "funcionario_id", employeeID)
		return nil, err
	}

	s.exported(ctx, KindStatement, FormatPDF, employeeID, file, len(history.Associacoes), nil)
	return file, nil
}

func (s *Service) exported(ctx context.Context, kind Kind, f Format, recordID string, file *File, rows int, extra map[string]interface{}) {
	if s.metrics != nil {
		s.metrics.ReportRendered(string(kind), string(f))
	}

	details := map[string]interface{}{
		"tipo":      kind,
		"formato":   f,
		"arquivo":   file.Name,
		"registros": rows,
	}
	for k, v := range extra {
		details[k] = v
	}
	s.audit.Record(ctx, audit.ActionExport, audit.TableReports, recordID, nil, details)

	s.logger.Info("report exported", "tipo", kind, "formato", f, "arquivo", file.Name, "bytes", len(file.Data))
}

func checkFormat(f Format, allowed ...Format) *errors.AppError {
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = string(a)
	}
	v := validation.NewValidator()
	v.Field("formato", string(f)).OneOf(errors.ErrCodeInvalidValue, names...)
	return v.Validate()
}
