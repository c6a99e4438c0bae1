package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/association-management/internal/core/events"
)

type confirmationSender interface {
	ConfirmationsEnabled(ctx context.Context) bool
	SendForDues(ctx context.Context, duesID string, dto SendDuesDTO) (*SendResult, error)
}

// EventHandler mails a payment confirmation when a dues record becomes paid
// and the enviar_confirmacao_pagamento setting is on.
type EventHandler struct {
	sender confirmationSender
	logger *slog.Logger
}

func NewEventHandler(sender confirmationSender, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		sender: sender,
		logger: logger,
	}
}

func (h *EventHandler) HandleDuesPaid(ctx context.Context, event events.Event) error {
	paid, ok := event.(*events.DuesPaidEvent)
	if !ok {
		h.logger.Error("invalid event type for dues paid handler", "event_type", event.EventType())
		return fmt.Errorf("expected DuesPaidEvent, got %T", event)
	}

	if !h.sender.ConfirmationsEnabled(ctx) {
		h.logger.Debug("payment confirmation emails disabled", "associacao_id", paid.DuesID)
		return nil
	}

	result, err := h.sender.SendForDues(ctx, paid.DuesID, SendDuesDTO{Tipo: string(KindConfirmation)})
	if err == ErrNoEmail {
		h.logger.Info("no email for payment confirmation",
			"associacao_id", paid.DuesID,
			"funcionario_id", paid.EmployeeID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("payment confirmation for %s: %w", paid.DuesID, err)
	}

	h.logger.Info("payment confirmation sent",
		"associacao_id", paid.DuesID,
		"to", result.To,
		"event_id", paid.EventID())
	return nil
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypeDuesPaid, h.HandleDuesPaid)

	h.logger.Info("notification event handlers registered",
		"handlers", []string{events.EventTypeDuesPaid})
}
