package validation_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	errors "github.com/frahmantamala/association-management/internal"
	"github.com/frahmantamala/association-management/internal/core/common/validation"
)

func TestValidation(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Validation Suite")
}

var _ = Describe("CPF", func() {
	DescribeTable("IsValidCPF",
		func(cpf string, valid bool) {
			Expect(validation.IsValidCPF(cpf)).To(Equal(valid))
		},
		Entry("valid digits", "52998224725", true),
		Entry("valid masked", "529.982.247-25", true),
		Entry("another valid", "11144477735", true),
		Entry("wrong first check digit", "52998224715", false),
		Entry("wrong second check digit", "52998224724", false),
		Entry("repeated digits", "11111111111", false),
		Entry("too short", "5299822472", false),
		Entry("empty", "", false),
	)
})

var _ = Describe("ValidationBuilder", func() {
	It("collects one error per failing field", func() {
		v := validation.NewValidator()
		v.Field("nome", "").Required().MinLength(3)
		v.Field("email", "not-an-email").Required().Email()
		v.Field("status", "ativo").OneOf(errors.ErrCodeInvalidStatus, "ativo", "inativo")

		err := v.Validate()
		Expect(err).NotTo(BeNil())
		details := err.Details.(errors.ValidationErrors)
		Expect(details.Errors).To(HaveLen(2))
		Expect(details.Errors[0].Field).To(Equal("nome"))
		Expect(details.Errors[1].Code).To(Equal(string(errors.ErrCodeInvalidEmail)))
	})

	It("rejects negative amounts", func() {
		v := validation.NewValidator()
		v.Field("valor_mensalidade", decimal.NewFromInt(-1)).NonNegativeAmount()
		Expect(v.Validate()).NotTo(BeNil())
	})

	It("validates periods", func() {
		Expect(validation.ValidatePeriod(2024, 12)).To(BeNil())
		Expect(validation.ValidatePeriod(2024, 13)).NotTo(BeNil())
		Expect(validation.ValidatePeriod(2024, 0)).NotTo(BeNil())
	})
})

type sampleDTO struct {
	Nome   string `json:"nome" validate:"required"`
	CPF    string `json:"cpf" validate:"required,cpf"`
	Status string `json:"status" validate:"omitempty,oneof=ativo inativo suspenso"`
}

var _ = Describe("Struct", func() {
	It("passes a valid DTO", func() {
		Expect(validation.Struct(sampleDTO{Nome: "Ana", CPF: "52998224725", Status: "ativo"})).To(BeNil())
	})

	It("reports json field names and translated messages", func() {
		err := validation.Struct(sampleDTO{CPF: "123", Status: "demitido"})
		Expect(err).NotTo(BeNil())
		details := err.Details.(errors.ValidationErrors)
		fields := []string{}
		for _, d := range details.Errors {
			fields = append(fields, d.Field)
		}
		Expect(fields).To(ConsistOf("nome", "cpf", "status"))
		Expect(err.GetDetailedMessage()).To(ContainSubstring("CPF inválido"))
	})
})
