package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	errors "github.com/frahmantamala/association-management/internal"
	"github.com/frahmantamala/association-management/internal/audit"
	"github.com/frahmantamala/association-management/internal/dues"
	"github.com/frahmantamala/association-management/internal/setting"
)

type DuesReader interface {
	Get(ctx context.Context, id string) (*dues.DuesRecord, error)
	List(ctx context.Context, filter dues.Filter) (*dues.ListResponse, error)
}

type SettingsReader interface {
	GetInt(ctx context.Context, key string, def int) int
	GetBool(ctx context.Context, key string) bool
}

type AuditRecorder interface {
	Record(ctx context.Context, action audit.Action, table, recordID string, before, after interface{})
}

type DeliveryMetrics interface {
	EmailSent(template string, ok bool)
}

type Service struct {
	dues      DuesReader
	settings  SettingsReader
	provider  Provider
	audit     AuditRecorder
	metrics   DeliveryMetrics
	delay     time.Duration
	signature string
	logger    *slog.Logger
}

type Config struct {
	BatchDelay time.Duration
	Signature  string
}

func NewService(duesReader DuesReader, settings SettingsReader, provider Provider, auditRecorder AuditRecorder, metrics DeliveryMetrics, cfg Config, logger *slog.Logger) *Service {
	signature := cfg.Signature
	if signature == "" {
		signature = DefaultSignature
	}
	return &Service{
		dues:      duesReader,
		settings:  settings,
		provider:  provider,
		audit:     auditRecorder,
		metrics:   metrics,
		delay:     cfg.BatchDelay,
		signature: signature,
		logger:    logger,
	}
}

// Send delivers an already rendered message.
func (s *Service) Send(ctx context.Context, msg *Message) error {
	if !msg.Complete() {
		return errors.NewValidationError(MsgIncompleteParams, errors.ErrCodeMissingRecipient)
	}

	err := s.deliver(ctx, "avulso", msg)
	s.audit.Record(ctx, audit.ActionEmail, audit.TableEmails, "", nil, emailSnapshot("avulso", msg, err))
	if err != nil {
		return deliveryError(err)
	}
	return nil
}

// SendForDues renders and sends one template for a dues record.
func (s *Service) SendForDues(ctx context.Context, duesID string, dto SendDuesDTO) (*SendResult, error) {
	if verr := dto.Validate(); verr != nil {
		return nil, verr
	}

	record, err := s.dues.Get(ctx, duesID)
	if err != nil {
		return nil, err
	}

	kind := Kind(dto.Tipo)
	if verr := checkEligible(kind, record); verr != nil {
		return nil, verr
	}

	msg, err := Compose(kind, record, s.options(ctx, kind, record, dto.Options))
	if err != nil {
		s.logger.Error("failed to render email", "error", err, "tipo", kind, "associacao_id", duesID)
		return nil, err
	}

	sendErr := s.deliver(ctx, string(kind), msg)
	s.audit.Record(ctx, audit.ActionEmail, audit.TableDues, record.ID, nil, emailSnapshot(string(kind), msg, sendErr))
	if sendErr != nil {
		return nil, deliveryError(sendErr)
	}

	return &SendResult{Success: true, To: msg.To, Subject: msg.Subject}, nil
}

// SendBatch sends one template to every eligible record of a month, one at
// a time with the configured pause after each attempt. A cancelled ctx stops
// the run and returns the counts so far along with the context error.
func (s *Service) SendBatch(ctx context.Context, dto BatchDTO) (*BatchResult, error) {
	if verr := dto.Validate(); verr != nil {
		return nil, verr
	}

	kind := Kind(dto.Tipo)
	filter := dues.Filter{Ano: dto.Ano, Mes: dto.Mes}
	if dto.Status != "" && dto.Status != "todos" {
		filter.Status = dues.PaymentStatus(dto.Status)
	}
	if kind == KindOverdue {
		filter.Status = dues.StatusPending
	}

	list, err := s.dues.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to load dues for batch email", "error", err, "ano", dto.Ano, "mes", dto.Mes)
		return nil, err
	}

	result := &BatchResult{Total: len(list.Associacoes)}
	for _, record := range list.Associacoes {
		if checkEligible(kind, record) != nil {
			result.Ignorados++
			continue
		}

		if err := ctx.Err(); err != nil {
			return result, err
		}

		msg, err := Compose(kind, record, s.options(ctx, kind, record, Options{}))
		if err == nil {
			err = s.deliver(ctx, string(kind), msg)
			s.audit.Record(ctx, audit.ActionEmail, audit.TableDues, record.ID, nil, emailSnapshot(string(kind), msg, err))
		}
		if err != nil {
			s.logger.Warn("batch email failed", "error", err, "tipo", kind, "associacao_id", record.ID)
			result.Erros++
		} else {
			result.Enviados++
		}

		if err := s.pause(ctx); err != nil {
			return result, err
		}
	}

	s.logger.Info("batch email finished",
		"tipo", kind,
		"ano", dto.Ano,
		"mes", dto.Mes,
		"enviados", result.Enviados,
		"erros", result.Erros,
		"ignorados", result.Ignorados)

	return result, nil
}

// ConfirmationsEnabled reports the enviar_confirmacao_pagamento setting.
func (s *Service) ConfirmationsEnabled(ctx context.Context) bool {
	return s.settings.GetBool(ctx, setting.KeySendPaymentConfirmation)
}

func (s *Service) deliver(ctx context.Context, template string, msg *Message) error {
	err := s.provider.Send(ctx, msg)
	if s.metrics != nil {
		s.metrics.EmailSent(template, err == nil)
	}
	if err != nil {
		s.logger.Error("email delivery failed",
			"error", err,
			"provider", s.provider.Name(),
			"tipo", template,
			"to", msg.To)
	}
	return err
}

func (s *Service) pause(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) options(ctx context.Context, kind Kind, record *dues.DuesRecord, opts Options) Options {
	opts.Signature = s.signature
	switch kind {
	case KindReminder:
		if opts.DaysRemaining <= 0 {
			opts.DaysRemaining = s.settings.GetInt(ctx, setting.KeyReminderDays, DefaultDaysRemaining)
		}
	case KindOverdue:
		if opts.DaysOverdue <= 0 {
			opts.DaysOverdue = s.settings.GetInt(ctx, setting.KeyOverdueDays, DefaultDaysOverdue)
		}
	case KindCharge:
		if opts.DueDate == "" {
			opts.DueDate = DueDate(record.Ano, record.Mes, s.settings.GetInt(ctx, setting.KeyDueDay, 0))
		}
	}
	return opts
}

// DueDate renders the due day of a period as dd/mm/yyyy, clamping to the
// last day of short months. A non-positive day yields "".
func DueDate(year, month, day int) string {
	if day <= 0 {
		return ""
	}
	last := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > last {
		day = last
	}
	return fmt.Sprintf("%02d/%02d/%d", day, month, year)
}

func checkEligible(kind Kind, record *dues.DuesRecord) *errors.AppError {
	if record.EmployeeEmail() == "" {
		return ErrNoEmail
	}
	switch kind {
	case KindConfirmation:
		if !record.Pago || record.DataPagamento == nil {
			return ErrNotPaidYet
		}
	case KindOverdue:
		if record.Pago {
			return ErrAlreadyPaid
		}
	}
	return nil
}

func emailSnapshot(template string, msg *Message, err error) map[string]interface{} {
	snapshot := map[string]interface{}{
		"tipo":    template,
		"para":    msg.To,
		"assunto": msg.Subject,
		"enviado": err == nil,
	}
	if err != nil {
		snapshot["erro"] = err.Error()
	}
	return snapshot
}
