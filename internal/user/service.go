package user

import (
	"context"
	"log/slog"

	errors "github.com/frahmantamala/association-management/internal"
	"github.com/frahmantamala/association-management/internal/audit"
	"github.com/frahmantamala/association-management/internal/auth"
	userDatamodel "github.com/frahmantamala/association-management/internal/core/datamodel/user"
)

const (
	MsgPasswordMismatch = "As senhas não coincidem"
	MsgWrongPassword    = "Senha atual incorreta"
	MsgSelfDelete       = "Você não pode excluir seu próprio perfil"
	MsgSelfLockout      = "Você não pode alterar seu próprio perfil de acesso ou desativar sua conta"
)

var (
	ErrWrongPassword = errors.NewValidationFieldError("senha_atual", MsgWrongPassword, errors.ErrCodeInvalidCredentials)
	ErrSelfDelete    = errors.NewForbiddenError(MsgSelfDelete, errors.ErrCodeInsufficientRole)
	ErrSelfLockout   = errors.NewForbiddenError(MsgSelfLockout, errors.ErrCodeInsufficientRole)
)

type RepositoryAPI interface {
	List(ctx context.Context, filter Filter) ([]*userDatamodel.Profile, int64, error)
	GetByID(ctx context.Context, id string) (*userDatamodel.Profile, error)
	GetByEmail(ctx context.Context, email string) (*userDatamodel.Profile, error)
	Create(ctx context.Context, p *userDatamodel.Profile) error
	Update(ctx context.Context, p *userDatamodel.Profile) error
	Delete(ctx context.Context, id string) error
}

type AuditRecorder interface {
	Record(ctx context.Context, action audit.Action, table, recordID string, before, after interface{})
}

type Service struct {
	repo        RepositoryAPI
	permissions auth.PermissionChecker
	audit       AuditRecorder
	bcryptCost  int
	logger      *slog.Logger
}

func NewService(repo RepositoryAPI, permissions auth.PermissionChecker, auditRecorder AuditRecorder, bcryptCost int, logger *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		permissions: permissions,
		audit:       auditRecorder,
		bcryptCost:  bcryptCost,
		logger:      logger,
	}
}

func currentUser(ctx context.Context) (*auth.User, error) {
	u, ok := auth.UserFromContext(ctx)
	if !ok {
		return nil, errors.ErrInvalidToken
	}
	return u, nil
}

// Me reloads the caller's profile so role changes show up without a new login.
func (s *Service) Me(ctx context.Context) (*MeResponse, error) {
	u, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.Get(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return &MeResponse{Profile: p, Permissoes: auth.PermissionsFor(s.permissions, p.identity())}, nil
}

func (s *Service) UpdateName(ctx context.Context, dto UpdateNameDTO) (*Profile, error) {
	u, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if verr := dto.Validate(); verr != nil {
		return nil, verr
	}

	row, err := s.repo.GetByID(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	before := FromDataModel(row)

	row.Nome = &dto.Nome
	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.Error("failed to update profile name", "error", err, "user_id", u.ID)
		return nil, err
	}

	after := FromDataModel(row)
	s.audit.Record(ctx, audit.ActionUpdate, audit.TableUsers, u.ID, before, after)
	return after, nil
}

// ChangePassword checks the current password before storing the new hash.
func (s *Service) ChangePassword(ctx context.Context, dto ChangePasswordDTO) error {
	u, err := currentUser(ctx)
	if err != nil {
		return err
	}
	if verr := dto.Validate(); verr != nil {
		return verr
	}

	row, err := s.repo.GetByID(ctx, u.ID)
	if err != nil {
		return err
	}
	if auth.VerifyPassword(row.PasswordHash, dto.SenhaAtual) != nil {
		s.logger.Warn("password change with wrong current password", "user_id", u.ID)
		return ErrWrongPassword
	}

	hash, err := auth.HashPassword(dto.NovaSenha, s.bcryptCost)
	if err != nil {
		return errors.NewInternalError("failed to hash password", err)
	}
	row.PasswordHash = hash
	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.Error("failed to store new password", "error", err, "user_id", u.ID)
		return err
	}

	s.audit.Record(ctx, audit.ActionUpdate, audit.TableUsers, u.ID, nil, map[string]interface{}{"senha_alterada": true})
	s.logger.Info("password changed", "user_id", u.ID)
	return nil
}

func (s *Service) List(ctx context.Context, filter Filter) (*ListResponse, error) {
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list profiles", "error", err)
		return nil, err
	}

	profiles := make([]*Profile, 0, len(rows))
	for _, row := range rows {
		profiles = append(profiles, FromDataModel(row))
	}
	return &ListResponse{Usuarios: profiles, Total: total, Limit: filter.Limit, Offset: filter.Offset}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Profile, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(row), nil
}

func (s *Service) Create(ctx context.Context, dto CreateDTO) (*Profile, error) {
	if verr := dto.Validate(); verr != nil {
		return nil, verr
	}

	if _, err := s.repo.GetByEmail(ctx, dto.Email); err == nil {
		return nil, errors.ErrDuplicateEmail
	}

	hash, err := auth.HashPassword(dto.Senha, s.bcryptCost)
	if err != nil {
		return nil, errors.NewInternalError("failed to hash password", err)
	}

	active := true
	if dto.Ativo != nil {
		active = *dto.Ativo
	}
	row := &userDatamodel.Profile{
		Email:        dto.Email,
		Nome:         dto.Nome,
		Perfil:       dto.Perfil,
		Ativo:        active,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		if errors.IsUniqueViolation(err) {
			return nil, errors.ErrDuplicateEmail
		}
		s.logger.Error("failed to create profile", "error", err)
		return nil, err
	}

	created := FromDataModel(row)
	s.audit.Record(ctx, audit.ActionCreate, audit.TableUsers, created.ID, nil, created)
	s.logger.Info("profile created", "user_id", created.ID, "perfil", created.Perfil)
	return created, nil
}

// Update applies an admin's changes. Admins cannot demote or deactivate
// themselves.
func (s *Service) Update(ctx context.Context, id string, dto UpdateDTO) (*Profile, error) {
	if verr := dto.Validate(); verr != nil {
		return nil, verr
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := FromDataModel(row)

	if actor, ok := auth.UserFromContext(ctx); ok && actor.ID == id {
		if (dto.Perfil != nil && *dto.Perfil != row.Perfil) || (dto.Ativo != nil && !*dto.Ativo) {
			return nil, ErrSelfLockout
		}
	}

	if dto.Nome != nil {
		row.Nome = dto.Nome
	}
	if dto.Perfil != nil {
		row.Perfil = *dto.Perfil
	}
	if dto.Ativo != nil {
		row.Ativo = *dto.Ativo
	}

	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.Error("failed to update profile", "error", err, "user_id", id)
		return nil, err
	}

	after := FromDataModel(row)
	s.audit.Record(ctx, audit.ActionUpdate, audit.TableUsers, id, before, after)
	s.logger.Info("profile updated", "user_id", id)
	return after, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if actor, ok := auth.UserFromContext(ctx); ok && actor.ID == id {
		return ErrSelfDelete
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete profile", "error", err, "user_id", id)
		return err
	}

	s.audit.Record(ctx, audit.ActionDelete, audit.TableUsers, id, current, nil)
	s.logger.Info("profile deleted", "user_id", id)
	return nil
}
