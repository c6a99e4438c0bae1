package setting

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/association-management/internal/core/common/validation"
	"github.com/frahmantamala/association-management/internal/transport"
	"github.com/frahmantamala/association-management/pkg/logger"
)

type ServiceAPI interface {
	List(ctx context.Context) ([]*Setting, error)
	Grouped(ctx context.Context) (map[string][]*Setting, error)
	GetSetting(ctx context.Context, key string) (*Setting, error)
	Update(ctx context.Context, key, value string) (*Setting, error)
	UpdateMany(ctx context.Context, updates []KeyValue) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

// GetSettings lists every setting, or groups them by categoria when
// ?agrupado=true.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("agrupado") == "true" {
		grouped, err := h.Service.Grouped(r.Context())
		if err != nil {
			h.Logger.Error("GetSettings: failed to group settings", "error", err)
			h.HandleServiceError(w, err)
			return
		}
		h.WriteJSON(w, http.StatusOK, GroupedResponse{Categorias: grouped})
		return
	}

	settings, err := h.Service.List(r.Context())
	if err != nil {
		h.Logger.Error("GetSettings: failed to get settings", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, SettingsResponse{Configuracoes: settings})
}

func (h *Handler) GetSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "chave")

	st, err := h.Service.GetSetting(r.Context(), key)
	if err != nil {
		h.Logger.Error("GetSetting: service error", "error", err, "chave", key)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, st)
}

func (h *Handler) UpdateSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "chave")

	var dto UpdateSettingDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateSetting: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	st, err := h.Service.Update(r.Context(), key, dto.Valor)
	if err != nil {
		h.Logger.Error("UpdateSetting: service error", "error", err, "chave", key)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, st)
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var dto UpdateManyDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateSettings: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if verr := validation.Struct(dto); verr != nil {
		h.HandleServiceError(w, verr)
		return
	}

	if err := h.Service.UpdateMany(r.Context(), dto.Updates); err != nil {
		h.Logger.Error("UpdateSettings: service error", "error", err, "count", len(dto.Updates))
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Configurações salvas com sucesso!",
	})
}
