package postgres

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	errors "github.com/frahmantamala/association-management/internal"
	duesDatamodel "github.com/frahmantamala/association-management/internal/core/datamodel/dues"
	employeeDatamodel "github.com/frahmantamala/association-management/internal/core/datamodel/employee"
	"github.com/frahmantamala/association-management/internal/dues"
)

// DuesRepository implements the dues.RepositoryAPI interface using GORM
type DuesRepository struct {
	db *gorm.DB
}

func NewDuesRepository(db *gorm.DB) dues.RepositoryAPI {
	return &DuesRepository{db: db}
}

func (r *DuesRepository) filtered(ctx context.Context, filter dues.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&duesDatamodel.DuesRecord{})

	if filter.FuncionarioID != "" {
		query = query.Where("funcionario_id = ?", filter.FuncionarioID)
	}
	if filter.Ano != 0 {
		query = query.Where("ano = ?", filter.Ano)
	}
	if filter.Mes != 0 {
		query = query.Where("mes = ?", filter.Mes)
	}
	switch filter.Status {
	case dues.StatusPaid:
		query = query.Where("pago = ?", true)
	case dues.StatusPending:
		query = query.Where("pago = ?", false)
	}
	if filter.ValorMin != nil {
		query = query.Where("valor_mensalidade >= ?", *filter.ValorMin)
	}
	if filter.ValorMax != nil {
		query = query.Where("valor_mensalidade <= ?", *filter.ValorMax)
	}

	return query.Session(&gorm.Session{})
}

// List returns the newest records first with their employee loaded.
func (r *DuesRepository) List(ctx context.Context, filter dues.Filter) ([]*duesDatamodel.DuesRecord, int64, error) {
	query := r.filtered(ctx, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*duesDatamodel.DuesRecord
	q := query.Preload("Funcionario").Order("created_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}
	err := q.Find(&rows).Error
	return rows, total, err
}

type totalsRow struct {
	Total         int
	Pagas         int
	ValorTotal    decimal.Decimal
	ValorRecebido decimal.Decimal
}

func (r *DuesRepository) Totals(ctx context.Context, filter dues.Filter) (dues.Totals, error) {
	var row totalsRow
	err := r.filtered(ctx, filter).Select(
		"COUNT(*) AS total, " +
			"COALESCE(SUM(CASE WHEN pago THEN 1 ELSE 0 END), 0) AS pagas, " +
			"COALESCE(SUM(valor_mensalidade), 0) AS valor_total, " +
			"COALESCE(SUM(CASE WHEN pago THEN valor_mensalidade ELSE 0 END), 0) AS valor_recebido",
	).Scan(&row).Error
	if err != nil {
		return dues.Totals{}, err
	}

	return dues.Totals{
		Total:         row.Total,
		Pagas:         row.Pagas,
		Pendentes:     row.Total - row.Pagas,
		ValorTotal:    row.ValorTotal.Round(2),
		ValorRecebido: row.ValorRecebido.Round(2),
		ValorPendente: row.ValorTotal.Sub(row.ValorRecebido).Round(2),
	}, nil
}

func (r *DuesRepository) History(ctx context.Context, employeeID string) ([]*duesDatamodel.DuesRecord, error) {
	var rows []*duesDatamodel.DuesRecord
	err := r.db.WithContext(ctx).
		Where("funcionario_id = ?", employeeID).
		Order("ano DESC").Order("mes DESC").
		Find(&rows).Error
	return rows, err
}

func (r *DuesRepository) GetByID(ctx context.Context, id string) (*duesDatamodel.DuesRecord, error) {
	var d duesDatamodel.DuesRecord
	err := r.db.WithContext(ctx).Preload("Funcionario").Where("id = ?", id).First(&d).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrDuesNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *DuesRepository) Exists(ctx context.Context, employeeID string, year, month int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&duesDatamodel.DuesRecord{}).
		Where("funcionario_id = ? AND ano = ? AND mes = ?", employeeID, year, month).
		Count(&count).Error
	return count > 0, err
}

func (r *DuesRepository) Create(ctx context.Context, d *duesDatamodel.DuesRecord) error {
	return r.db.WithContext(ctx).Omit("Funcionario").Create(d).Error
}

func (r *DuesRepository) Update(ctx context.Context, d *duesDatamodel.DuesRecord) error {
	result := r.db.WithContext(ctx).Model(&duesDatamodel.DuesRecord{}).
		Where("id = ?", d.ID).
		Updates(map[string]interface{}{
			"valor_mensalidade": d.ValorMensalidade,
			"pago":              d.Pago,
			"data_pagamento":    d.DataPagamento,
			"updated_at":        time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.ErrDuesNotFound
	}
	return nil
}

func (r *DuesRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&duesDatamodel.DuesRecord{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.ErrDuesNotFound
	}
	return nil
}

func (r *DuesRepository) ActiveEmployeeIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&employeeDatamodel.Employee{}).
		Where("status = ?", "ativo").
		Order("nome ASC").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *DuesRepository) EmployeeIDsForPeriod(ctx context.Context, year, month int) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&duesDatamodel.DuesRecord{}).
		Where("ano = ? AND mes = ?", year, month).
		Pluck("funcionario_id", &ids).Error
	return ids, err
}

// InsertMissing relies on the unique (funcionario_id, ano, mes) index so a
// concurrent run cannot insert the same period twice.
func (r *DuesRepository) InsertMissing(ctx context.Context, rows []*duesDatamodel.DuesRecord) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Omit("Funcionario").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "funcionario_id"}, {Name: "ano"}, {Name: "mes"}},
			DoNothing: true,
		}).
		Create(&rows)
	return result.RowsAffected, result.Error
}
