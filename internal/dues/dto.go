package dues

import (
	"time"

	"github.com/shopspring/decimal"

	errors "github.com/frahmantamala/association-management/internal"
	"github.com/frahmantamala/association-management/internal/core/common/format"
	"github.com/frahmantamala/association-management/internal/core/common/validation"
)

type CreateDuesDTO struct {
	FuncionarioID    string          `json:"funcionario_id"`
	Ano              int             `json:"ano"`
	Mes              int             `json:"mes"`
	ValorMensalidade decimal.Decimal `json:"valor_mensalidade"`
	Pago             bool            `json:"pago"`
	DataPagamento    *string         `json:"data_pagamento,omitempty"`
}

func (dto *CreateDuesDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("funcionario_id", dto.FuncionarioID).Required()
	v.Field("ano", dto.Ano).IntRange(2000, 2100, errors.ErrCodeInvalidPeriod)
	v.Field("mes", dto.Mes).IntRange(1, 12, errors.ErrCodeInvalidPeriod)
	v.Field("valor_mensalidade", dto.ValorMensalidade).NonNegativeAmount()
	v.Field("data_pagamento", dto.DataPagamento).Custom(paymentDate)
	return v.Validate()
}

// UpdateDuesDTO edits amount and payment state; the period and employee of a
// record never change.
type UpdateDuesDTO struct {
	ValorMensalidade decimal.Decimal `json:"valor_mensalidade"`
	Pago             bool            `json:"pago"`
	DataPagamento    *string         `json:"data_pagamento,omitempty"`
}

func (dto *UpdateDuesDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("valor_mensalidade", dto.ValorMensalidade).NonNegativeAmount()
	v.Field("data_pagamento", dto.DataPagamento).Custom(paymentDate)
	return v.Validate()
}

func paymentDate(value interface{}) *errors.AppError {
	s, _ := value.(*string)
	t, err := format.ParseISODate(s)
	if err != nil {
		return errors.NewValidationFieldError("data_pagamento", "Data inválida, use AAAA-MM-DD", errors.ErrCodeInvalidDate)
	}
	if t != nil && t.After(time.Now()) {
		return errors.NewValidationFieldError("data_pagamento", "data_pagamento não pode ser no futuro", errors.ErrCodeInvalidDate)
	}
	return nil
}

type GenerateDTO struct {
	Ano int `json:"ano"`
	Mes int `json:"mes"`
}

type GenerateRangeDTO struct {
	AnoInicio int `json:"ano_inicio"`
	MesInicio int `json:"mes_inicio"`
	AnoFim    int `json:"ano_fim"`
	MesFim    int `json:"mes_fim"`
}

// Filter selects records for one period. A zero Ano or Mes leaves that part
// of the period open; Limit zero returns every row.
type Filter struct {
	FuncionarioID string
	Ano           int
	Mes           int
	Status        PaymentStatus
	ValorMin      *decimal.Decimal
	ValorMax      *decimal.Decimal
	Limit         int
	Offset        int
}

// Totals summarises a filtered list.
type Totals struct {
	Total         int             `json:"total"`
	Pagas         int             `json:"pagas"`
	Pendentes     int             `json:"pendentes"`
	ValorTotal    decimal.Decimal `json:"valor_total"`
	ValorRecebido decimal.Decimal `json:"valor_recebido"`
	ValorPendente decimal.Decimal `json:"valor_pendente"`
}

// PercentPaid is the received share of the total amount, 0 when nothing is due.
func (t Totals) PercentPaid() decimal.Decimal {
	if t.ValorTotal.IsZero() {
		return decimal.Zero
	}
	return t.ValorRecebido.Div(t.ValorTotal).Mul(decimal.NewFromInt(100))
}

func ComputeTotals(records []*DuesRecord) Totals {
	t := Totals{ValorTotal: decimal.Zero, ValorRecebido: decimal.Zero, ValorPendente: decimal.Zero}
	for _, r := range records {
		t.Total++
		t.ValorTotal = t.ValorTotal.Add(r.ValorMensalidade)
		if r.Pago {
			t.Pagas++
			t.ValorRecebido = t.ValorRecebido.Add(r.ValorMensalidade)
		} else {
			t.Pendentes++
			t.ValorPendente = t.ValorPendente.Add(r.ValorMensalidade)
		}
	}
	return t
}

type ListResponse struct {
	Associacoes []*DuesRecord `json:"associacoes"`
	Total       int64         `json:"total"`
	Totais      Totals        `json:"totais"`
}

type HistoryResponse struct {
	Associacoes []*DuesRecord `json:"associacoes"`
	Totais      Totals        `json:"totais"`
}

type ExistsResponse struct {
	Existe bool `json:"existe"`
}
