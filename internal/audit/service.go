package audit

import (
	"context"
	"encoding/json"
	"log/slog"

	"gorm.io/datatypes"

	"github.com/frahmantamala/association-management/internal"
	auditDatamodel "github.com/frahmantamala/association-management/internal/core/datamodel/audit"
	"github.com/frahmantamala/association-management/pkg/logger"
)

type RepositoryAPI interface {
	Create(ctx context.Context, log *auditDatamodel.Log) error
	List(ctx context.Context, filter Filter) ([]*auditDatamodel.Log, int64, error)
	DistinctActions(ctx context.Context) ([]string, error)
	DistinctTables(ctx context.Context) ([]string, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Record appends an entry for the actor and client found in ctx. Audit
// failures are logged and never reach the caller.
func (s *Service) Record(ctx context.Context, action Action, table, recordID string, before, after interface{}) {
	entry := &auditDatamodel.Log{
		Acao:            string(action),
		Tabela:          table,
		RegistroID:      optional(recordID),
		DadosAnteriores: s.snapshot(before),
		DadosNovos:      s.snapshot(after),
	}

	if actor, ok := internal.ActorFromContext(ctx); ok {
		entry.UsuarioID = optional(actor.ID)
		entry.UsuarioEmail = optional(actor.Email)
	}

	client := internal.ClientInfoFromContext(ctx)
	entry.IPAddress = optional(client.IP)
	entry.UserAgent = optional(client.UserAgent)

	if err := s.repo.Create(context.WithoutCancel(ctx), entry); err != nil {
		logger.FromOr(ctx, s.logger).Error("failed to record audit entry",
			"error", err,
			"acao", action,
			"tabela", table,
			"registro_id", recordID)
	}
}

func (s *Service) List(ctx context.Context, filter Filter) (*ListResponse, error) {
	logs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list audit entries", "error", err)
		return nil, err
	}

	entries := make([]*Entry, 0, len(logs))
	for _, l := range logs {
		entries = append(entries, FromDataModel(l))
	}

	return &ListResponse{
		Logs:   entries,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}, nil
}

func (s *Service) Filters(ctx context.Context) (*FiltersResponse, error) {
	actions, err := s.repo.DistinctActions(ctx)
	if err != nil {
		return nil, err
	}
	tables, err := s.repo.DistinctTables(ctx)
	if err != nil {
		return nil, err
	}
	return &FiltersResponse{Acoes: actions, Tabelas: tables}, nil
}

func (s *Service) snapshot(v interface{}) datatypes.JSON {
	if v == nil {
		return nil
	}
	if raw, ok := v.(json.RawMessage); ok {
		return datatypes.JSON(raw)
	}
	b, err := json.Marshal(v)
	if err != nil {
		s.logger.Warn("audit snapshot not serializable", "error", err)
		return nil
	}
	if string(b) == "null" {
		return nil
	}
	return datatypes.JSON(b)
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
