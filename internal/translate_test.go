package internal_test

import (
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/association-management/internal"
)

var _ = Describe("TranslateError", func() {
	DescribeTable("maps known backend messages",
		func(msg, expected string) {
			Expect(internal.TranslateError(errors.New(msg))).To(Equal(expected))
		},
		Entry("bad login", "Invalid login credentials", "Email ou senha incorretos"),
		Entry("unconfirmed email", "Email not confirmed", "Por favor, confirme seu email antes de fazer login"),
		Entry("existing user", "User already registered", "Este email já está cadastrado"),
		Entry("short password", "Password should be at least 6 characters", "A senha deve ter pelo menos 6 caracteres"),
		Entry("postgres unique", `ERROR: duplicate key value violates unique constraint "funcionarios_cpf_key"`, "Este CPF já está cadastrado"),
		Entry("sqlite unique", "UNIQUE constraint failed: funcionarios.cpf", "Este CPF já está cadastrado"),
	)

	It("returns a fixed message for nil", func() {
		Expect(internal.TranslateError(nil)).To(Equal("Erro desconhecido"))
	})

	It("passes unknown messages through", func() {
		Expect(internal.TranslateError(errors.New("connection refused"))).To(Equal("connection refused"))
	})

	It("falls back to the generic message when the error text is empty", func() {
		Expect(internal.TranslateError(errors.New(""))).To(Equal("Ocorreu um erro. Tente novamente."))
	})

	It("uses the message of an application error", func() {
		Expect(internal.TranslateError(internal.ErrEmployeeNotFound)).To(Equal("Funcionário não encontrado"))
	})

	It("unwraps wrapped application errors", func() {
		wrapped := fmt.Errorf("loading: %w", internal.ErrDuplicateCPF)
		appErr, ok := internal.IsAppError(wrapped)
		Expect(ok).To(BeTrue())
		Expect(appErr.Code).To(Equal(internal.ErrCodeDuplicateCPF))
	})
})

var _ = Describe("IsUniqueViolation", func() {
	It("detects postgres and sqlite violations", func() {
		Expect(internal.IsUniqueViolation(errors.New("duplicate key value violates unique constraint"))).To(BeTrue())
		Expect(internal.IsUniqueViolation(errors.New("UNIQUE constraint failed: associacoes.funcionario_id"))).To(BeTrue())
		Expect(internal.IsUniqueViolation(errors.New("timeout"))).To(BeFalse())
		Expect(internal.IsUniqueViolation(nil)).To(BeFalse())
	})
})
