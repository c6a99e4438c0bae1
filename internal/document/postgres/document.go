package postgres

import (
	"context"
	stderrors "errors"
	"strings"

	"gorm.io/gorm"

	errors "github.com/frahmantamala/association-management/internal"
	documentDatamodel "github.com/frahmantamala/association-management/internal/core/datamodel/document"
	employeeDatamodel "github.com/frahmantamala/association-management/internal/core/datamodel/employee"
	"github.com/frahmantamala/association-management/internal/document"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) document.RepositoryAPI {
	return &DocumentRepository{db: db}
}

// List searches the document name, description and employee name, newest first.
func (r *DocumentRepository) List(ctx context.Context, filter document.Filter) ([]*documentDatamodel.Document, int64, error) {
	query := r.db.WithContext(ctx).Model(&documentDatamodel.Document{}).
		Joins("LEFT JOIN funcionarios ON funcionarios.id = documentos.funcionario_id")

	if term := strings.TrimSpace(filter.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		query = query.Where(
			"LOWER(documentos.nome) LIKE ? OR LOWER(COALESCE(documentos.descricao, '')) LIKE ? OR LOWER(COALESCE(funcionarios.nome, '')) LIKE ?",
			like, like, like,
		)
	}
	if filter.Tipo != "" && filter.Tipo != "todos" {
		query = query.Where("documentos.tipo = ?", filter.Tipo)
	}
	if filter.FuncionarioID != "" {
		query = query.Where("documentos.funcionario_id = ?", filter.FuncionarioID)
	}

	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*documentDatamodel.Document
	q := query.Select("documentos.*").Preload("Funcionario").Order("documentos.created_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}
	err := q.Find(&rows).Error
	return rows, total, err
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*documentDatamodel.Document, error) {
	var d documentDatamodel.Document
	err := r.db.WithContext(ctx).Preload("Funcionario").Where("id = ?", id).First(&d).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrDocumentNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *DocumentRepository) Create(ctx context.Context, d *documentDatamodel.Document) error {
	return r.db.WithContext(ctx).Omit("Funcionario").Create(d).Error
}

func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&documentDatamodel.Document{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.ErrDocumentNotFound
	}
	return nil
}

func (r *DocumentRepository) EmployeeExists(ctx context.Context, employeeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&employeeDatamodel.Employee{}).Where("id = ?", employeeID).Count(&count).Error
	return count > 0, err
}
