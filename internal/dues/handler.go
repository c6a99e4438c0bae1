package dues

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"

	errors "github.com/frahmantamala/association-management/internal"
	"github.com/frahmantamala/association-management/internal/transport"
	"github.com/frahmantamala/association-management/pkg/logger"
)

type ServiceAPI interface {
	List(ctx context.Context, filter Filter) (*ListResponse, error)
	History(ctx context.Context, employeeID string) (*HistoryResponse, error)
	Get(ctx context.Context, id string) (*DuesRecord, error)
	Exists(ctx context.Context, employeeID string, year, month int) (bool, error)
	Create(ctx context.Context, dto CreateDuesDTO) (*DuesRecord, error)
	Update(ctx context.Context, id string, dto UpdateDuesDTO) (*DuesRecord, error)
	Delete(ctx context.Context, id string) error
	MarkPaid(ctx context.Context, id string) (*DuesRecord, error)
	MarkUnpaid(ctx context.Context, id string) (*DuesRecord, error)
	GenerateForMonth(ctx context.Context, year, month int) GenerationResult
	GenerateForRange(ctx context.Context, yearStart, monthStart, yearEnd, monthEnd int) (GenerationResult, error)
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

// FilterFromRequest reads ano, mes, status (pago|pendente), valor_min,
// valor_max and funcionario_id. The list is unpaginated unless limit is set.
func FilterFromRequest(r *http.Request) (Filter, *errors.AppError) {
	q := r.URL.Query()

	filter := Filter{FuncionarioID: q.Get("funcionario_id")}
	filter.Ano, _ = transport.QueryInt(q, "ano")
	filter.Mes, _ = transport.QueryInt(q, "mes")

	switch status := PaymentStatus(q.Get("status")); status {
	case "", "todos":
	case StatusPaid, StatusPending:
		filter.Status = status
	default:
		return Filter{}, errors.NewValidationFieldError("status", "status deve ser um de: pago, pendente", errors.ErrCodeInvalidStatus)
	}

	var verr *errors.AppError
	if filter.ValorMin, verr = decimalParam(q.Get("valor_min"), "valor_min"); verr != nil {
		return Filter{}, verr
	}
	if filter.ValorMax, verr = decimalParam(q.Get("valor_max"), "valor_max"); verr != nil {
		return Filter{}, verr
	}

	if q.Get("limit") != "" {
		filter.Limit, filter.Offset = transport.Pagination(q)
	}
	return filter, nil
}

func decimalParam(raw, field string) (*decimal.Decimal, *errors.AppError) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, errors.NewValidationFieldError(field, field+" deve ser um número", errors.ErrCodeInvalidAmount)
	}
	return &d, nil
}

func (h *Handler) ListDues(w http.ResponseWriter, r *http.Request) {
	filter, verr := FilterFromRequest(r)
	if verr != nil {
		h.HandleServiceError(w, verr)
		return
	}

	resp, err := h.Service.List(r.Context(), filter)
	if err != nil {
		h.Logger.Error("ListDues: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

// EmployeeHistory serves GET /funcionarios/{id}/associacoes.
func (h *Handler) EmployeeHistory(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")

	resp, err := h.Service.History(r.Context(), employeeID)
	if err != nil {
		h.Logger.Error("EmployeeHistory: service error", "error", err, "employee_id", employeeID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetDues(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	d, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.Logger.Error("GetDues: service error", "error", err, "dues_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) CheckExists(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	year, okYear := transport.QueryInt(q, "ano")
	month, okMonth := transport.QueryInt(q, "mes")
	employeeID := q.Get("funcionario_id")
	if employeeID == "" || !okYear || !okMonth {
		h.WriteError(w, http.StatusBadRequest, "funcionario_id, ano e mes são obrigatórios")
		return
	}

	exists, err := h.Service.Exists(r.Context(), employeeID, year, month)
	if err != nil {
		h.Logger.Error("CheckExists: service error", "error", err, "employee_id", employeeID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ExistsResponse{Existe: exists})
}

func (h *Handler) CreateDues(w http.ResponseWriter, r *http.Request) {
	var dto CreateDuesDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateDues: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	d, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.Logger.Error("CreateDues: service error", "error", err, "employee_id", dto.FuncionarioID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, d)
}

func (h *Handler) UpdateDues(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var dto UpdateDuesDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateDues: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	d, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		h.Logger.Error("UpdateDues: service error", "error", err, "dues_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) DeleteDues(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.Logger.Error("DeleteDues: service error", "error", err, "dues_id", id)
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	d, err := h.Service.MarkPaid(r.Context(), id)
	if err != nil {
		h.Logger.Error("MarkPaid: service error", "error", err, "dues_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) MarkUnpaid(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	d, err := h.Service.MarkUnpaid(r.Context(), id)
	if err != nil {
		h.Logger.Error("MarkUnpaid: service error", "error", err, "dues_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, d)
}

// Generate runs the generator for one month. An empty body means the
// current month.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var dto GenerateDTO
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			h.Logger.Error("Generate: invalid request body", "error", err)
			h.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	result := h.Service.GenerateForMonth(r.Context(), dto.Ano, dto.Mes)
	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) GenerateRange(w http.ResponseWriter, r *http.Request) {
	var dto GenerateRangeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("GenerateRange: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.GenerateForRange(r.Context(), dto.AnoInicio, dto.MesInicio, dto.AnoFim, dto.MesFim)
	if err != nil {
		h.Logger.Error("GenerateRange: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}
