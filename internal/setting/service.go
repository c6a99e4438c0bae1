package setting

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	errors "github.com/frahmantamala/association-management/internal"
	"github.com/frahmantamala/association-management/internal/audit"
	"github.com/frahmantamala/association-management/internal/auth"
	settingDatamodel "github.com/frahmantamala/association-management/internal/core/datamodel/setting"
)

type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*settingDatamodel.Setting, error)
	GetByKey(ctx context.Context, key string) (*settingDatamodel.Setting, error)
	UpdateValue(ctx context.Context, key, value string) error
	CreateIfMissing(ctx context.Context, setting *settingDatamodel.Setting) (bool, error)
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

func (s *Service) List(ctx context.Context) ([]*Setting, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to get settings from repository", "error", err)
		return nil, err
	}

	settings := make([]*Setting, 0, len(rows))
	for _, row := range rows {
		settings = append(settings, FromDataModel(row))
	}
	return settings, nil
}

func (s *Service) Grouped(ctx context.Context) (map[string][]*Setting, error) {
	settings, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]*Setting)
	for _, st := range settings {
		grouped[st.Categoria] = append(grouped[st.Categoria], st)
	}
	return grouped, nil
}

func (s *Service) GetSetting(ctx context.Context, key string) (*Setting, error) {
	row, err := s.repo.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	return FromDataModel(row), nil
}

// Get returns the raw value, or "" when the key is missing or unreadable.
func (s *Service) Get(ctx context.Context, key string) string {
	row, err := s.repo.GetByKey(ctx, key)
	if err != nil {
		s.logger.Warn("failed to load setting", "chave", key, "error", err)
		return ""
	}
	return row.Valor
}

// GetNumber is 0 for missing or non-numeric values.
func (s *Service) GetNumber(ctx context.Context, key string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s.Get(ctx, key)), 64)
	if err != nil {
		return 0
	}
	return v
}

// GetDecimal is GetNumber for money values.
func (s *Service) GetDecimal(ctx context.Context, key string) decimal.Decimal {
	v, err := decimal.NewFromString(strings.TrimSpace(s.Get(ctx, key)))
	if err != nil {
		return decimal.Zero
	}
	return v
}

// GetInt falls back to def when the setting is missing or not positive.
func (s *Service) GetInt(ctx context.Context, key string, def int) int {
	v := int(s.GetNumber(ctx, key))
	if v <= 0 {
		return def
	}
	return v
}

func (s *Service) GetBool(ctx context.Context, key string) bool {
	return s.Get(ctx, key) == "true"
}

// Update changes one value. Rows flagged somente_admin require an admin.
func (s *Service) Update(ctx context.Context, key, value string) (*Setting, error) {
	current, err := s.GetSetting(ctx, key)
	if err != nil {
		return nil, err
	}

	if current.SomenteAdmin {
		user, ok := auth.UserFromContext(ctx)
		if !ok || !user.Role.AtLeast(auth.RoleAdmin) {
			s.logger.Warn("admin-only setting update denied", "chave", key)
			return nil, errors.ErrAdminOnlySetting
		}
	}

	if verr := current.ValidateValue(value); verr != nil {
		return nil, verr
	}

	if err := s.repo.UpdateValue(ctx, key, value); err != nil {
		s.logger.Error("failed to update setting", "error", err, "chave", key)
		return nil, err
	}

	updated := *current
	updated.Valor = value
	s.audit.Record(ctx, audit.ActionUpdate, audit.TableSettings, current.ID,
		map[string]string{"chave": key, "valor": current.Valor},
		map[string]string{"chave": key, "valor": value})

	s.logger.Info("setting updated", "chave", key)
	return &updated, nil
}

// UpdateMany applies updates in order and stops at the first failure;
// earlier updates are kept.
func (s *Service) UpdateMany(ctx context.Context, updates []KeyValue) error {
	for _, u := range updates {
		if _, err := s.Update(ctx, u.Chave, u.Valor); err != nil {
			return err
		}
	}
	return nil
}

// EnsureDefaults inserts every default setting that does not exist yet and
// returns how many were created.
func (s *Service) EnsureDefaults(ctx context.Context) (int, error) {
	created := 0
	for _, def := range Defaults {
		ok, err := s.repo.CreateIfMissing(ctx, ToDataModel(def))
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}
	return created, nil
}
