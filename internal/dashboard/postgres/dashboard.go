package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/frahmantamala/association-management/internal/dashboard"
)

type DashboardRepository struct {
	db *sqlx.DB
}

func NewDashboardRepository(db *sqlx.DB) dashboard.RepositoryAPI {
	return &DashboardRepository{db: db}
}

const employeesByStatusQuery = `
	SELECT status, COUNT(*) AS quantidade
	FROM funcionarios
	GROUP BY status`

func (r *DashboardRepository) EmployeesByStatus(ctx context.Context) ([]dashboard.StatusRow, error) {
	var rows []dashboard.StatusRow
	err := r.db.SelectContext(ctx, &rows, employeesByStatusQuery)
	return rows, err
}

const periodTotalsQuery = `
	SELECT ano, mes, pago, COUNT(*) AS quantidade, COALESCE(SUM(valor_mensalidade), 0) AS valor
	FROM associacoes
	WHERE ano * 100 + mes BETWEEN ? AND ?
	GROUP BY ano, mes, pago
	ORDER BY ano, mes`

func (r *DashboardRepository) PeriodTotals(ctx context.Context, from, to dashboard.Month) ([]dashboard.PeriodRow, error) {
	var rows []dashboard.PeriodRow
	err := r.db.SelectContext(ctx, &rows, r.db.Rebind(periodTotalsQuery), from.Key(), to.Key())
	return rows, err
}

const yearTotalsQuery = `
	SELECT ano,
		COALESCE(SUM(valor_mensalidade), 0) AS total,
		COALESCE(SUM(CASE WHEN pago THEN valor_mensalidade ELSE 0 END), 0) AS recebido
	FROM associacoes
	WHERE ano >= ?
	GROUP BY ano
	ORDER BY ano`

func (r *DashboardRepository) YearTotals(ctx context.Context, fromYear int) ([]dashboard.YearRow, error) {
	var rows []dashboard.YearRow
	err := r.db.SelectContext(ctx, &rows, r.db.Rebind(yearTotalsQuery), fromYear)
	return rows, err
}
