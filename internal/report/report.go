package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/frahmantamala/association-management/internal/core/common/format"
)

type Kind string

const (
	KindEmployees   Kind = "funcionarios"
	KindDues        Kind = "associacoes"
	KindDelinquency Kind = "inadimplencia"
	KindFinancial   Kind = "financeiro"
	KindReceipt     Kind = "recibo"
	KindProof       Kind = "comprovante"
	KindStatement   Kind = "extrato"
)

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

const (
	ContentTypePDF  = "application/pdf"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// PeriodKinds are the listing reports generated for one month.
var PeriodKinds = []string{
	string(KindDues),
	string(KindDelinquency),
	string(KindFinancial),
}

// File is a rendered download.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// ReceiptNumber is "REC-" followed by the first eight characters of the
// record id, upper-cased.
func ReceiptNumber(duesID string) string {
	prefix := duesID
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	return "REC-" + strings.ToUpper(prefix)
}

func datedName(base string, now time.Time, f Format) string {
	return fmt.Sprintf("%s-%s.%s", base, now.Format(format.ISODateLayout), f)
}

func periodName(base string, year, month int, f Format) string {
	return fmt.Sprintf("%s-%d-%d.%s", base, month, year, f)
}

const generatedLayout = "02/01/2006 15:04"
