package dashboard

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/association-management/internal/transport"
	"github.com/frahmantamala/association-management/pkg/logger"
)

type ServiceAPI interface {
	Overview(ctx context.Context) (*Overview, error)
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

func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Service.Overview(r.Context())
	if err != nil {
		h.Logger.Error("GetOverview: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}
