package setting

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	errors "github.com/frahmantamala/association-management/internal"
	settingDatamodel "github.com/frahmantamala/association-management/internal/core/datamodel/setting"
)

type Type string

const (
	TypeText    Type = "text"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
	TypeJSON    Type = "json"
)

// Keys read by the rest of the application.
const (
	KeyDefaultDuesAmount       = "valor_mensalidade_padrao"
	KeyDueDay                  = "dia_vencimento"
	KeyAssociationName         = "nome_associacao"
	KeyReportHeader            = "cabeçalho_relatorios"
	KeySendPaymentConfirmation = "enviar_confirmacao_pagamento"
	KeyReminderDays            = "dias_lembrete_vencimento"
	KeyOverdueDays             = "dias_aviso_inadimplencia"
	KeyAutomaticDuesGeneration = "geracao_automatica_associacoes"
)

type Setting struct {
	ID           string    `json:"id"`
	Chave        string    `json:"chave"`
	Valor        string    `json:"valor"`
	Tipo         Type      `json:"tipo"`
	Categoria    string    `json:"categoria"`
	Descricao    *string   `json:"descricao"`
	SomenteAdmin bool      `json:"somente_admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ValidateValue checks that value parses as the setting's declared type.
func (s *Setting) ValidateValue(value string) *errors.AppError {
	ok := true
	switch s.Tipo {
	case TypeNumber:
		_, err := strconv.ParseFloat(value, 64)
		ok = err == nil
	case TypeBoolean:
		ok = value == "true" || value == "false"
	case TypeJSON:
		ok = json.Valid([]byte(value))
	}
	if !ok {
		return errors.NewValidationFieldError("valor",
			fmt.Sprintf("Valor inválido para %s (tipo %s)", s.Chave, s.Tipo),
			errors.ErrCodeInvalidValue)
	}
	return nil
}

func ToDataModel(s *Setting) *settingDatamodel.Setting {
	return &settingDatamodel.Setting{
		ID:           s.ID,
		Chave:        s.Chave,
		Valor:        s.Valor,
		Tipo:         string(s.Tipo),
		Categoria:    s.Categoria,
		Descricao:    s.Descricao,
		SomenteAdmin: s.SomenteAdmin,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func FromDataModel(s *settingDatamodel.Setting) *Setting {
	return &Setting{
		ID:           s.ID,
		Chave:        s.Chave,
		Valor:        s.Valor,
		Tipo:         Type(s.Tipo),
		Categoria:    s.Categoria,
		Descricao:    s.Descricao,
		SomenteAdmin: s.SomenteAdmin,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func describe(text string) *string {
	return &text
}

// Defaults are inserted by the seed command when missing.
var Defaults = []*Setting{
	{Chave: KeyAssociationName, Valor: "Associação dos Funcionários", Tipo: TypeText, Categoria: "geral", Descricao: describe("Nome exibido em relatórios e emails")},
	{Chave: KeyDefaultDuesAmount, Valor: "50.00", Tipo: TypeNumber, Categoria: "financeiro", Descricao: describe("Valor padrão da mensalidade"), SomenteAdmin: true},
	{Chave: KeyDueDay, Valor: "10", Tipo: TypeNumber, Categoria: "financeiro", Descricao: describe("Dia de vencimento da mensalidade")},
	{Chave: KeySendPaymentConfirmation, Valor: "true", Tipo: TypeBoolean, Categoria: "notificacoes", Descricao: describe("Enviar email ao confirmar pagamento")},
	{Chave: KeyReminderDays, Valor: "5", Tipo: TypeNumber, Categoria: "notificacoes", Descricao: describe("Dias antes do vencimento para lembrete")},
	{Chave: KeyOverdueDays, Valor: "10", Tipo: TypeNumber, Categoria: "notificacoes", Descricao: describe("Dias de atraso informados no aviso de inadimplência")},
	{Chave: KeyAutomaticDuesGeneration, Valor: "false", Tipo: TypeBoolean, Categoria: "automatizacao", Descricao: describe("Gerar associações automaticamente todo mês"), SomenteAdmin: true},
	{Chave: KeyReportHeader, Valor: "", Tipo: TypeText, Categoria: "visual", Descricao: describe("Texto de cabeçalho dos relatórios")},
}
