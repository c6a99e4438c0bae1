package employee

import (
	"context"
	"log/slog"

	errors "github.com/frahmantamala/association-management/internal"
	"github.com/frahmantamala/association-management/internal/audit"
	employeeDatamodel "github.com/frahmantamala/association-management/internal/core/datamodel/employee"
)

type RepositoryAPI interface {
	List(ctx context.Context, filter Filter) ([]*employeeDatamodel.Employee, int64, error)
	GetByID(ctx context.Context, id string) (*employeeDatamodel.Employee, error)
	GetByCPF(ctx context.Context, cpf string) (*employeeDatamodel.Employee, error)
	Create(ctx context.Context, e *employeeDatamodel.Employee) error
	Update(ctx context.Context, e *employeeDatamodel.Employee) error
	Delete(ctx context.Context, id string) error
	DistinctCargos(ctx context.Context) ([]string, error)
}

type AuditRecorder interface {
	Record(ctx context.Context, action audit.Action, table, recordID string, before, after interface{})
}

type Service struct {
	repo   RepositoryAPI
	audit  AuditRecorder
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, auditRecorder AuditRecorder, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		audit:  auditRecorder,
		logger: logger,
	}
}

func (s *Service) List(ctx context.Context, filter Filter) (*ListResponse, error) {
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list employees", "error", err)
		return nil, err
	}

	employees := make([]*Employee, 0, len(rows))
	for _, row := range rows {
		employees = append(employees, FromDataModel(row))
	}

	return &ListResponse{
		Funcionarios: employees,
		Total:        total,
		Limit:        filter.Limit,
		Offset:       filter.Offset,
	}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Employee, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if !isNotFound(err) {
			s.logger.Error("failed to get employee", "error", err, "employee_id", id)
		}
		return nil, err
	}
	return FromDataModel(row), nil
}

func (s *Service) Create(ctx context.Context, dto EmployeeDTO) (*Employee, error) {
	dto.Normalize()
	if verr := dto.Validate(); verr != nil {
		s.logger.Warn("employee validation failed", "error", verr)
		return nil, verr
	}

	if err := s.ensureUniqueCPF(ctx, dto.CPF, ""); err != nil {
		return nil, err
	}

	row := ToDataModel(dto.ToEmployee())
	if err := s.repo.Create(ctx, row); err != nil {
		if errors.IsUniqueViolation(err) {
			return nil, errors.ErrDuplicateCPF
		}
		s.logger.Error("failed to create employee", "error", err)
		return nil, err
	}

	created := FromDataModel(row)
	s.audit.Record(ctx, audit.ActionCreate, audit.TableEmployees, created.ID, nil, created)

	s.logger.Info("employee created", "employee_id", created.ID)
	return created, nil
}

func (s *Service) Update(ctx context.Context, id string, dto EmployeeDTO) (*Employee, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	dto.Normalize()
	if verr := dto.Validate(); verr != nil {
		return nil, verr
	}

	if err := s.ensureUniqueCPF(ctx, dto.CPF, id); err != nil {
		return nil, err
	}

	next := dto.ToEmployee()
	next.ID = current.ID
	next.CreatedAt = current.CreatedAt

	row := ToDataModel(next)
	if err := s.repo.Update(ctx, row); err != nil {
		if errors.IsUniqueViolation(err) {
			return nil, errors.ErrDuplicateCPF
		}
		s.logger.Error("failed to update employee", "error", err, "employee_id", id)
		return nil, err
	}

	updated := FromDataModel(row)
	s.audit.Record(ctx, audit.ActionUpdate, audit.TableEmployees, id, current, updated)

	s.logger.Info("employee updated", "employee_id", id)
	return updated, nil
}

// Delete removes the employee; dues records and documents go with it
// through the foreign keys.
func (s *Service) Delete(ctx context.Context, id string) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete employee", "error", err, "employee_id", id)
		return err
	}

	s.audit.Record(ctx, audit.ActionDelete, audit.TableEmployees, id, current, nil)
	s.logger.Info("employee deleted", "employee_id", id)
	return nil
}

func (s *Service) Cargos(ctx context.Context) ([]string, error) {
	return s.repo.DistinctCargos(ctx)
}

func (s *Service) ensureUniqueCPF(ctx context.Context, cpf, exceptID string) error {
	existing, err := s.repo.GetByCPF(ctx, cpf)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != exceptID {
		return errors.ErrDuplicateCPF
	}
	return nil
}

func isNotFound(err error) bool {
	appErr, ok := errors.IsAppError(err)
	return ok && appErr.Type == errors.ErrorTypeNotFound
}
