package dashboard

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

var shortMonths = [12]string{"Jan", "Fev", "Mar", "Abr", "Mai", "Jun", "Jul", "Ago", "Set", "Out", "Nov", "Dez"}

// EvolutionMonths is how many months the evolution series covers, current month included.
const EvolutionMonths = 6

// ComparisonYears is how many years the yearly comparison covers, current year included.
const ComparisonYears = 3

type Stats struct {
	TotalFuncionarios    int64 `json:"totalFuncionarios"`
	FuncionariosAtivos   int64 `json:"funcionariosAtivos"`
	AssociacoesPagas     int64 `json:"associacoesPagas"`
	AssociacoesPendentes int64 `json:"associacoesPendentes"`
}

type MonthPoint struct {
	Mes       string          `json:"mes"`
	Ano       int             `json:"ano"`
	Pagas     int64           `json:"pagas"`
	Pendentes int64           `json:"pendentes"`
	Recebido  decimal.Decimal `json:"recebido"`
	Pendente  decimal.Decimal `json:"pendente"`
}

type YearPoint struct {
	Ano      string          `json:"ano"`
	Total    decimal.Decimal `json:"total"`
	Recebido decimal.Decimal `json:"recebido"`
}

// Slice is one segment of a distribution chart.
type Slice struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

type Overview struct {
	Stats              Stats        `json:"stats"`
	EvolucaoMensal     []MonthPoint `json:"evolucaoMensal"`
	StatusDistribuicao []Slice      `json:"statusDistribuicao"`
	ComparativoAnual   []YearPoint  `json:"comparativoAnual"`
	FuncionariosStatus []Slice      `json:"funcionariosStatus"`
}

// PeriodRow aggregates the dues of one month for one payment state.
type PeriodRow struct {
	Ano        int             `db:"ano"`
	Mes        int             `db:"mes"`
	Pago       bool            `db:"pago"`
	Quantidade int64           `db:"quantidade"`
	Valor      decimal.Decimal `db:"valor"`
}

type YearRow struct {
	Ano      int             `db:"ano"`
	Total    decimal.Decimal `db:"total"`
	Recebido decimal.Decimal `db:"recebido"`
}

type StatusRow struct {
	Status     string `db:"status"`
	Quantidade int64  `db:"quantidade"`
}

type RepositoryAPI interface {
	EmployeesByStatus(ctx context.Context) ([]StatusRow, error)
	// PeriodTotals covers every month between from and to, both inclusive.
	PeriodTotals(ctx context.Context, from, to Month) ([]PeriodRow, error)
	YearTotals(ctx context.Context, fromYear int) ([]YearRow, error)
}

type Month struct {
	Year  int
	Month int
}

// Key orders months chronologically as year*100+month.
func (m Month) Key() int {
	return m.Year*100 + m.Month
}

func (m Month) Label() string {
	return shortMonths[m.Month-1]
}

// LastMonths returns n months ending at now's month, oldest first, wrapping
// into the previous year when needed.
func LastMonths(now time.Time, n int) []Month {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	months := make([]Month, 0, n)
	for i := n - 1; i >= 0; i-- {
		t := first.AddDate(0, -i, 0)
		months = append(months, Month{Year: t.Year(), Month: int(t.Month())})
	}
	return months
}

func nonZero(slices []Slice) []Slice {
	out := make([]Slice, 0, len(slices))
	for _, s := range slices {
		if s.Value > 0 {
			out = append(out, s)
		}
	}
	return out
}
