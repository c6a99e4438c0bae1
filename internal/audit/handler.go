package audit

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/association-management/internal/transport"
	"github.com/frahmantamala/association-management/pkg/logger"
)

type ServiceAPI interface {
	List(ctx context.Context, filter Filter) (*ListResponse, error)
	Filters(ctx context.Context) (*FiltersResponse, error)
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

func (h *Handler) ListLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, offset := transport.Pagination(q)

	filter := Filter{
		Acao:   q.Get("acao"),
		Tabela: q.Get("tabela"),
		Search: q.Get("search"),
		Limit:  limit,
		Offset: offset,
	}

	resp, err := h.Service.List(r.Context(), filter)
	if err != nil {
		h.Logger.Error("ListLogs: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetFilters(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Service.Filters(r.Context())
	if err != nil {
		h.Logger.Error("GetFilters: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}
