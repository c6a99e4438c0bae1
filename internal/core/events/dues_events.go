package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventTypeDuesGenerated = "dues.generated"
	EventTypeDuesPaid      = "dues.paid"
)

// DuesGeneratedEvent is published after a generator run for one month
// inserted at least one record.
type DuesGeneratedEvent struct {
	BaseEvent
	Year    int `json:"ano"`
	Month   int `json:"mes"`
	Created int `json:"created"`
}

func NewDuesGeneratedEvent(year, month, created int) *DuesGeneratedEvent {
	return &DuesGeneratedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeDuesGenerated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"ano":     year,
				"mes":     month,
				"created": created,
			},
		},
		Year:    year,
		Month:   month,
		Created: created,
	}
}

type DuesPaidEvent struct {
	BaseEvent
	DuesID     string          `json:"associacao_id"`
	EmployeeID string          `json:"funcionario_id"`
	Year       int             `json:"ano"`
	Month      int             `json:"mes"`
	Amount     decimal.Decimal `json:"valor"`
	PaidAt     time.Time       `json:"data_pagamento"`
}

func NewDuesPaidEvent(duesID, employeeID string, year, month int, amount decimal.Decimal, paidAt time.Time) *DuesPaidEvent {
	return &DuesPaidEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeDuesPaid,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"associacao_id":  duesID,
				"funcionario_id": employeeID,
				"ano":            year,
				"mes":            month,
				"valor":          amount.StringFixed(2),
			},
		},
		DuesID:     duesID,
		EmployeeID: employeeID,
		Year:       year,
		Month:      month,
		Amount:     amount,
		PaidAt:     paidAt,
	}
}
