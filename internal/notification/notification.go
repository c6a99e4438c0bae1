package notification

import (
	"net/http"
	"strings"

	errors "github.com/frahmantamala/association-management/internal"
)

// Kind names an email template.
type Kind string

const (
	KindCharge       Kind = "cobranca"
	KindReminder     Kind = "lembrete"
	KindConfirmation Kind = "confirmacao"
	KindOverdue      Kind = "inadimplencia"
)

var Kinds = []string{
	string(KindCharge),
	string(KindReminder),
	string(KindConfirmation),
	string(KindOverdue),
}

// BatchKinds can be sent to a whole month at once; confirmations only go
// out per record.
var BatchKinds = []string{
	string(KindCharge),
	string(KindReminder),
	string(KindOverdue),
}

const (
	DefaultDaysRemaining = 5
	DefaultDaysOverdue   = 10

	DefaultSignature = "Gestão de Associação de Funcionários"
)

const (
	MsgIncompleteParams = "Parâmetros incompletos"
	MsgEmailSent        = "Email enviado com sucesso"
	MsgNoEmail          = "Funcionário não possui email cadastrado"
	MsgNotPaidYet       = "Esta associação não foi paga ainda"
	MsgAlreadyPaid      = "Esta associação já foi paga"
	MsgDeliveryFailed   = "Erro ao enviar email"
)

var (
	ErrNoEmail     = errors.NewValidationError(MsgNoEmail, errors.ErrCodeMissingRecipient)
	ErrNotPaidYet  = errors.NewValidationError(MsgNotPaidYet, errors.ErrCodeInvalidStatus)
	ErrAlreadyPaid = errors.NewValidationError(MsgAlreadyPaid, errors.ErrCodeInvalidStatus)
)

func deliveryError(cause error) error {
	return &errors.AppError{
		Type:       errors.ErrorTypeInternal,
		Code:       errors.ErrCodeEmailDeliveryFail,
		Message:    MsgDeliveryFailed,
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

// Message is an outbound email; it doubles as the send-email request body.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

func (m *Message) Complete() bool {
	return strings.TrimSpace(m.To) != "" &&
		strings.TrimSpace(m.Subject) != "" &&
		strings.TrimSpace(m.HTML) != ""
}
