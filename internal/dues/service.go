package dues

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	errors "github.com/frahmantamala/association-management/internal"
	"github.com/frahmantamala/association-management/internal/audit"
	"github.com/frahmantamala/association-management/internal/core/common/format"
	duesDatamodel "github.com/frahmantamala/association-management/internal/core/datamodel/dues"
	"github.com/frahmantamala/association-management/internal/core/events"
)

type RepositoryAPI interface {
	List(ctx context.Context, filter Filter) ([]*duesDatamodel.DuesRecord, int64, error)
	Totals(ctx context.Context, filter Filter) (Totals, error)
	History(ctx context.Context, employeeID string) ([]*duesDatamodel.DuesRecord, error)
	GetByID(ctx context.Context, id string) (*duesDatamodel.DuesRecord, error)
	Exists(ctx context.Context, employeeID string, year, month int) (bool, error)
	Create(ctx context.Context, d *duesDatamodel.DuesRecord) error
	Update(ctx context.Context, d *duesDatamodel.DuesRecord) error
	Delete(ctx context.Context, id string) error

	ActiveEmployeeIDs(ctx context.Context) ([]string, error)
	EmployeeIDsForPeriod(ctx context.Context, year, month int) ([]string, error)
	// InsertMissing skips rows whose (funcionario_id, ano, mes) already
	// exists and returns how many were actually inserted.
	InsertMissing(ctx context.Context, rows []*duesDatamodel.DuesRecord) (int64, error)
}

type AuditRecorder interface {
	Record(ctx context.Context, action audit.Action, table, recordID string, before, after interface{})
}

type SettingsReader interface {
	GetDecimal(ctx context.Context, key string) decimal.Decimal
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type GenerationMetrics interface {
	DuesGenerated(n int)
}

type Service struct {
	repo      RepositoryAPI
	audit     AuditRecorder
	settings  SettingsReader
	publisher EventPublisher
	metrics   GenerationMetrics
	logger    *slog.Logger
}

// NewService wires the dues service. publisher and metrics may be nil.
func NewService(repo RepositoryAPI, auditRecorder AuditRecorder, settings SettingsReader, publisher EventPublisher, metrics GenerationMetrics, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		audit:     auditRecorder,
		settings:  settings,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

func (s *Service) List(ctx context.Context, filter Filter) (*ListResponse, error) {
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list dues", "error", err, "ano", filter.Ano, "mes", filter.Mes)
		return nil, err
	}

	totals, err := s.repo.Totals(ctx, filter)
	if err != nil {
		s.logger.Error("failed to total dues", "error", err, "ano", filter.Ano, "mes", filter.Mes)
		return nil, err
	}

	return &ListResponse{
		Associacoes: fromRows(rows),
		Total:       total,
		Totais:      totals,
	}, nil
}

// History lists an employee's records, newest period first.
func (s *Service) History(ctx context.Context, employeeID string) (*HistoryResponse, error) {
	rows, err := s.repo.History(ctx, employeeID)
	if err != nil {
		s.logger.Error("failed to load dues history", "error", err, "employee_id", employeeID)
		return nil, err
	}

	records := fromRows(rows)
	return &HistoryResponse{Associacoes: records, Totais: ComputeTotals(records)}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*DuesRecord, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err != errors.ErrDuesNotFound {
			s.logger.Error("failed to get dues", "error", err, "dues_id", id)
		}
		return nil, err
	}
	return FromDataModel(row), nil
}

func (s *Service) Exists(ctx context.Context, employeeID string, year, month int) (bool, error) {
	return s.repo.Exists(ctx, employeeID, year, month)
}

func (s *Service) Create(ctx context.Context, dto CreateDuesDTO) (*DuesRecord, error) {
	if verr := dto.Validate(); verr != nil {
		return nil, verr
	}

	exists, err := s.repo.Exists(ctx, dto.FuncionarioID, dto.Ano, dto.Mes)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.ErrDuplicateDues
	}

	paidAt, _ := format.ParseISODate(dto.DataPagamento)
	record := &DuesRecord{
		FuncionarioID:    dto.FuncionarioID,
		Ano:              dto.Ano,
		Mes:              dto.Mes,
		ValorMensalidade: dto.ValorMensalidade,
	}
	applyPayment(record, dto.Pago, paidAt)

	row := ToDataModel(record)
	if err := s.repo.Create(ctx, row); err != nil {
		if errors.IsUniqueViolation(err) {
			return nil, errors.ErrDuplicateDues
		}
		s.logger.Error("failed to create dues", "error", err, "employee_id", dto.FuncionarioID)
		return nil, err
	}

	created := FromDataModel(row)
	s.audit.Record(ctx, audit.ActionCreate, audit.TableDues, created.ID, nil, created)
	if created.Pago {
		s.publishPaid(ctx, created)
	}

	s.logger.Info("dues created", "dues_id", created.ID, "employee_id", created.FuncionarioID, "ano", created.Ano, "mes", created.Mes)
	return created, nil
}

func (s *Service) Update(ctx context.Context, id string, dto UpdateDuesDTO) (*DuesRecord, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if verr := dto.Validate(); verr != nil {
		return nil, verr
	}

	paidAt, _ := format.ParseISODate(dto.DataPagamento)
	next := *current
	next.ValorMensalidade = dto.ValorMensalidade
	applyPayment(&next, dto.Pago, paidAt)

	return s.save(ctx, current, &next)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete dues", "error", err, "dues_id", id)
		return err
	}

	s.audit.Record(ctx, audit.ActionDelete, audit.TableDues, id, current, nil)
	s.logger.Info("dues deleted", "dues_id", id)
	return nil
}

// MarkPaid sets pago with today's date. Marking an already paid record keeps
// its original payment date.
func (s *Service) MarkPaid(ctx context.Context, id string) (*DuesRecord, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Pago {
		return current, nil
	}

	next := *current
	applyPayment(&next, true, nil)
	return s.save(ctx, current, &next)
}

func (s *Service) MarkUnpaid(ctx context.Context, id string) (*DuesRecord, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Pago {
		return current, nil
	}

	next := *current
	applyPayment(&next, false, nil)
	return s.save(ctx, current, &next)
}

func (s *Service) save(ctx context.Context, before, next *DuesRecord) (*DuesRecord, error) {
	if err := s.repo.Update(ctx, ToDataModel(next)); err != nil {
		s.logger.Error("failed to update dues", "error", err, "dues_id", next.ID)
		return nil, err
	}

	updated, err := s.Get(ctx, next.ID)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.ActionUpdate, audit.TableDues, updated.ID, before, updated)
	if !before.Pago && updated.Pago {
		s.publishPaid(ctx, updated)
	}

	s.logger.Info("dues updated", "dues_id", updated.ID, "pago", updated.Pago)
	return updated, nil
}

func (s *Service) publishPaid(ctx context.Context, d *DuesRecord) {
	if s.publisher == nil {
		return
	}
	paidAt := time.Now()
	if d.DataPagamento != nil {
		paidAt = *d.DataPagamento
	}
	evt := events.NewDuesPaidEvent(d.ID, d.FuncionarioID, d.Ano, d.Mes, d.ValorMensalidade, paidAt)
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.logger.Error("failed to publish dues paid event", "error", err, "dues_id", d.ID)
	}
}

// applyPayment keeps pago and data_pagamento consistent: paid records always
// carry a date (today when none is given) and pending ones never do.
func applyPayment(d *DuesRecord, pago bool, paidAt *time.Time) {
	d.Pago = pago
	if !pago {
		d.DataPagamento = nil
		return
	}
	if paidAt == nil {
		now := time.Now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		paidAt = &today
	}
	d.DataPagamento = paidAt
}

func fromRows(rows []*duesDatamodel.DuesRecord) []*DuesRecord {
	records := make([]*DuesRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, FromDataModel(row))
	}
	return records
}
