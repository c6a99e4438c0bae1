package dashboard

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

type Service struct {
	repo   RepositoryAPI
	now    func() time.Time
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, now: time.Now, logger: logger}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Overview gathers the counters and chart series shown on the dashboard.
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	now := s.now()

	statuses, err := s.repo.EmployeesByStatus(ctx)
	if err != nil {
		s.logger.Error("failed to count employees by status", "error", err)
		return nil, err
	}

	months := LastMonths(now, EvolutionMonths)
	periods, err := s.repo.PeriodTotals(ctx, months[0], months[len(months)-1])
	if err != nil {
		s.logger.Error("failed to aggregate dues by month", "error", err)
		return nil, err
	}

	years, err := s.repo.YearTotals(ctx, now.Year()-(ComparisonYears-1))
	if err != nil {
		s.logger.Error("failed to aggregate dues by year", "error", err)
		return nil, err
	}

	out := &Overview{
		EvolucaoMensal:   evolution(months, periods),
		ComparativoAnual: comparison(years),
	}

	byStatus := map[string]int64{}
	for _, row := range statuses {
		byStatus[row.Status] = row.Quantidade
		out.Stats.TotalFuncionarios += row.Quantidade
	}
	out.Stats.FuncionariosAtivos = byStatus["ativo"]

	// the last evolution point is the current month
	current := out.EvolucaoMensal[len(out.EvolucaoMensal)-1]
	out.Stats.AssociacoesPagas = current.Pagas
	out.Stats.AssociacoesPendentes = current.Pendentes

	out.StatusDistribuicao = nonZero([]Slice{
		{Name: "Pagas", Value: out.Stats.AssociacoesPagas},
		{Name: "Pendentes", Value: out.Stats.AssociacoesPendentes},
	})
	out.FuncionariosStatus = nonZero([]Slice{
		{Name: "Ativos", Value: byStatus["ativo"]},
		{Name: "Inativos", Value: byStatus["inativo"]},
		{Name: "Suspensos", Value: byStatus["suspenso"]},
	})

	return out, nil
}

func evolution(months []Month, rows []PeriodRow) []MonthPoint {
	index := make(map[int]int, len(months))
	points := make([]MonthPoint, len(months))
	for i, m := range months {
		index[m.Key()] = i
		points[i] = MonthPoint{Mes: m.Label(), Ano: m.Year, Recebido: decimal.Zero, Pendente: decimal.Zero}
	}

	for _, row := range rows {
		i, ok := index[Month{Year: row.Ano, Month: row.Mes}.Key()]
		if !ok {
			continue
		}
		p := &points[i]
		if row.Pago {
			p.Pagas += row.Quantidade
			p.Recebido = p.Recebido.Add(row.Valor)
		} else {
			p.Pendentes += row.Quantidade
			p.Pendente = p.Pendente.Add(row.Valor)
		}
	}
	return points
}

func comparison(rows []YearRow) []YearPoint {
	points := make([]YearPoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, YearPoint{
			Ano:      strconv.Itoa(row.Ano),
			Total:    row.Total,
			Recebido: row.Recebido,
		})
	}
	return points
}
