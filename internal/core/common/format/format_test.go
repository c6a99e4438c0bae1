package format_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/frahmantamala/association-management/internal/core/common/format"
)

func TestFormat(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Format Suite")
}

var _ = Describe("Format", func() {
	DescribeTable("CPF",
		func(in, out string) { Expect(format.CPF(in)).To(Equal(out)) },
		Entry("full", "12345678909", "123.456.789-09"),
		Entry("already masked", "123.456.789-09", "123.456.789-09"),
		Entry("partial", "12345", "123.45"),
		Entry("too long", "123456789012", "123456789012"),
	)

	DescribeTable("Phone",
		func(in, out string) { Expect(format.Phone(in)).To(Equal(out)) },
		Entry("mobile", "11987654321", "(11) 98765-4321"),
		Entry("landline", "1133334444", "(11) 3333-4444"),
		Entry("masked input", "(11) 98765-4321", "(11) 98765-4321"),
	)

	DescribeTable("FileSize",
		func(in int64, out string) { Expect(format.FileSize(in)).To(Equal(out)) },
		Entry("zero", int64(0), "0 Bytes"),
		Entry("bytes", int64(500), "500 Bytes"),
		Entry("one kilobyte", int64(1024), "1 KB"),
		Entry("fractional", int64(1536), "1.5 KB"),
		Entry("megabytes", int64(5*1024*1024), "5 MB"),
	)

	It("formats money with a comma", func() {
		Expect(format.Money(decimal.NewFromInt(10))).To(Equal("R$ 10,00"))
		Expect(format.Money(decimal.RequireFromString("1234.5"))).To(Equal("R$ 1234,50"))
	})

	It("names months in Portuguese", func() {
		Expect(format.MonthName(3)).To(Equal("Março"))
		Expect(format.MonthShortName(12)).To(Equal("Dez"))
		Expect(format.MonthName(13)).To(BeEmpty())
		Expect(format.Period(2024, 1)).To(Equal("Janeiro/2024"))
	})

	It("title-cases status values", func() {
		Expect(format.Title("ativo")).To(Equal("Ativo"))
		Expect(format.Title("suspenso")).To(Equal("Suspenso"))
	})

	It("renders optional values", func() {
		Expect(format.Date(nil)).To(Equal("-"))
		d := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
		Expect(format.Date(&d)).To(Equal("05/03/2024"))
		empty := " "
		Expect(format.OrDash(&empty)).To(Equal("-"))
		Expect(format.Slug("Maria  da Silva")).To(Equal("maria-da-silva"))
	})
})
