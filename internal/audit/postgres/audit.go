package postgres

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/frahmantamala/association-management/internal/audit"
	auditDatamodel "github.com/frahmantamala/association-management/internal/core/datamodel/audit"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) audit.RepositoryAPI {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Create(ctx context.Context, log *auditDatamodel.Log) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// List returns the newest entries first along with the unpaginated total.
func (r *AuditRepository) List(ctx context.Context, filter audit.Filter) ([]*auditDatamodel.Log, int64, error) {
	query := r.db.WithContext(ctx).Model(&auditDatamodel.Log{})

	if filter.Acao != "" {
		query = query.Where("acao = ?", filter.Acao)
	}
	if filter.Tabela != "" {
		query = query.Where("tabela = ?", filter.Tabela)
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		query = query.Where(
			"LOWER(COALESCE(usuario_email, '')) LIKE ? OR LOWER(tabela) LIKE ? OR LOWER(acao) LIKE ? OR LOWER(COALESCE(registro_id, '')) LIKE ?",
			like, like, like, like,
		)
	}

	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []*auditDatamodel.Log
	q := query.Order("created_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}
	err := q.Find(&logs).Error
	return logs, total, err
}

func (r *AuditRepository) DistinctActions(ctx context.Context) ([]string, error) {
	var actions []string
	err := r.db.WithContext(ctx).Model(&auditDatamodel.Log{}).
		Distinct("acao").
		Order("acao ASC").
		Pluck("acao", &actions).Error
	return actions, err
}

func (r *AuditRepository) DistinctTables(ctx context.Context) ([]string, error) {
	var tables []string
	err := r.db.WithContext(ctx).Model(&auditDatamodel.Log{}).
		Distinct("tabela").
		Order("tabela ASC").
		Pluck("tabela", &tables).Error
	return tables, err
}
