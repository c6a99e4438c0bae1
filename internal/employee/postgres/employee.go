package postgres

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"gorm.io/gorm"

	errors "github.com/frahmantamala/association-management/internal"
	"github.com/frahmantamala/association-management/internal/core/common/format"
	employeeDatamodel "github.com/frahmantamala/association-management/internal/core/datamodel/employee"
	"github.com/frahmantamala/association-management/internal/employee"
)

// EmployeeRepository implements the employee.RepositoryAPI interface using GORM
type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) employee.RepositoryAPI {
	return &EmployeeRepository{db: db}
}

// List orders by nome and returns the unpaginated total alongside the page.
func (r *EmployeeRepository) List(ctx context.Context, filter employee.Filter) ([]*employeeDatamodel.Employee, int64, error) {
	query := r.db.WithContext(ctx).Model(&employeeDatamodel.Employee{})

	if term := strings.TrimSpace(filter.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		if digits := format.Digits(term); digits != "" {
			query = query.Where("LOWER(nome) LIKE ? OR LOWER(email) LIKE ? OR cpf LIKE ?", like, like, "%"+digits+"%")
		} else {
			query = query.Where("LOWER(nome) LIKE ? OR LOWER(email) LIKE ?", like, like)
		}
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Cargo != "" {
		query = query.Where("cargo = ?", filter.Cargo)
	}
	if filter.AdmissaoInicio != nil {
		query = query.Where("data_admissao >= ?", *filter.AdmissaoInicio)
	}
	if filter.AdmissaoFim != nil {
		query = query.Where("data_admissao <= ?", *filter.AdmissaoFim)
	}

	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var employees []*employeeDatamodel.Employee
	q := query.Order("nome ASC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}
	err := q.Find(&employees).Error
	return employees, total, err
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (*employeeDatamodel.Employee, error) {
	var e employeeDatamodel.Employee
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrEmployeeNotFound
		}
		return nil, err
	}
	return &e, nil
}

// GetByCPF returns nil without error when no employee has the CPF.
func (r *EmployeeRepository) GetByCPF(ctx context.Context, cpf string) (*employeeDatamodel.Employee, error) {
	var e employeeDatamodel.Employee
	err := r.db.WithContext(ctx).Where("cpf = ?", cpf).First(&e).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *EmployeeRepository) Create(ctx context.Context, e *employeeDatamodel.Employee) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *EmployeeRepository) Update(ctx context.Context, e *employeeDatamodel.Employee) error {
	e.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&employeeDatamodel.Employee{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.ErrEmployeeNotFound
	}
	return nil
}

func (r *EmployeeRepository) DistinctCargos(ctx context.Context) ([]string, error) {
	var cargos []string
	err := r.db.WithContext(ctx).Model(&employeeDatamodel.Employee{}).
		Where("cargo IS NOT NULL AND cargo <> ''").
		Distinct("cargo").
		Order("cargo ASC").
		Pluck("cargo", &cargos).Error
	return cargos, err
}
