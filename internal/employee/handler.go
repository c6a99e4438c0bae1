package employee

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	errors "github.com/frahmantamala/association-management/internal"
	"github.com/frahmantamala/association-management/internal/core/common/format"
	"github.com/frahmantamala/association-management/internal/transport"
	"github.com/frahmantamala/association-management/pkg/logger"
)

type ServiceAPI interface {
	List(ctx context.Context, filter Filter) (*ListResponse, error)
	Get(ctx context.Context, id string) (*Employee, error)
	Create(ctx context.Context, dto EmployeeDTO) (*Employee, error)
	Update(ctx context.Context, id string, dto EmployeeDTO) (*Employee, error)
	Delete(ctx context.Context, id string) error
	Cargos(ctx context.Context) ([]string, error)
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

// FilterFromRequest reads search, status, cargo and the admission date
// range (data_inicio, data_fim) from the query string.
func FilterFromRequest(r *http.Request) (Filter, *errors.AppError) {
	q := r.URL.Query()
	limit, offset := transport.Pagination(q)

	filter := Filter{
		Search: q.Get("search"),
		Status: q.Get("status"),
		Cargo:  q.Get("cargo"),
		Limit:  limit,
		Offset: offset,
	}

	var err error
	if filter.AdmissaoInicio, err = parseDateParam(q.Get("data_inicio")); err != nil {
		return Filter{}, errors.NewValidationFieldError("data_inicio", "Data inválida, use AAAA-MM-DD", errors.ErrCodeInvalidDate)
	}
	if filter.AdmissaoFim, err = parseDateParam(q.Get("data_fim")); err != nil {
		return Filter{}, errors.NewValidationFieldError("data_fim", "Data inválida, use AAAA-MM-DD", errors.ErrCodeInvalidDate)
	}

	return filter, nil
}

func parseDateParam(raw string) (*time.Time, error) {
	return format.ParseISODate(&raw)
}

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	filter, verr := FilterFromRequest(r)
	if verr != nil {
		h.HandleServiceError(w, verr)
		return
	}

	resp, err := h.Service.List(r.Context(), filter)
	if err != nil {
		h.Logger.Error("ListEmployees: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	e, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.Logger.Error("GetEmployee: service error", "error", err, "employee_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var dto EmployeeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateEmployee: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.Logger.Error("CreateEmployee: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, e)
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var dto EmployeeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateEmployee: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		h.Logger.Error("UpdateEmployee: service error", "error", err, "employee_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.Logger.Error("DeleteEmployee: service error", "error", err, "employee_id", id)
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListCargos(w http.ResponseWriter, r *http.Request) {
	cargos, err := h.Service.Cargos(r.Context())
	if err != nil {
		h.Logger.Error("ListCargos: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	if cargos == nil {
		cargos = []string{}
	}
	h.WriteJSON(w, http.StatusOK, CargosResponse{Cargos: cargos})
}
