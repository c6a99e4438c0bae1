package report

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	errors "github.com/frahmantamala/association-management/internal"
	"github.com/frahmantamala/association-management/internal/employee"
	"github.com/frahmantamala/association-management/internal/transport"
	"github.com/frahmantamala/association-management/pkg/logger"
)

type ServiceAPI interface {
	Employees(ctx context.Context, f Format, filter employee.Filter) (*File, error)
	Period(ctx context.Context, kind Kind, f Format, year, month int) (*File, error)
	Receipt(ctx context.Context, duesID string) (*File, error)
	Proof(ctx context.Context, duesID string) (*File, error)
	Statement(ctx context.Context, employeeID string) (*File, error)
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

func formatParam(r *http.Request) Format {
	if f := r.URL.Query().Get("formato"); f != "" {
		return Format(f)
	}
	return FormatPDF
}

// periodParams defaults ano and mes to the current month.
func periodParams(r *http.Request) (int, int, *errors.AppError) {
	q := r.URL.Query()
	now := time.Now()
	year, month := now.Year(), int(now.Month())

	if q.Get("ano") != "" {
		v, ok := transport.QueryInt(q, "ano")
		if !ok {
			return 0, 0, errors.NewValidationFieldError("ano", "Ano inválido", errors.ErrCodeInvalidPeriod)
		}
		year = v
	}
	if q.Get("mes") != "" {
		v, ok := transport.QueryInt(q, "mes")
		if !ok {
			return 0, 0, errors.NewValidationFieldError("mes", "Mês inválido", errors.ErrCodeInvalidPeriod)
		}
		month = v
	}
	return year, month, nil
}

func (h *Handler) EmployeesReport(w http.ResponseWriter, r *http.Request) {
	filter, verr := employee.FilterFromRequest(r)
	if verr != nil {
		h.HandleServiceError(w, verr)
		return
	}

	file, err := h.Service.Employees(r.Context(), formatParam(r), filter)
	if err != nil {
		h.Logger.Error("EmployeesReport: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteFile(w, file.ContentType, file.Name, file.Data)
}

func (h *Handler) PeriodReport(w http.ResponseWriter, r *http.Request) {
	kind := Kind(chi.URLParam(r, "tipo"))

	year, month, verr := periodParams(r)
	if verr != nil {
		h.HandleServiceError(w, verr)
		return
	}

	file, err := h.Service.Period(r.Context(), kind, formatParam(r), year, month)
	if err != nil {
		h.Logger.Error("PeriodReport: service error", "error", err, "tipo", kind, "ano", year, "mes", month)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteFile(w, file.ContentType, file.Name, file.Data)
}

func (h *Handler) Receipt(w http.ResponseWriter, r *http.Request) {
	h.serveFile(w, r, "Receipt", h.Service.Receipt)
}

func (h *Handler) Proof(w http.ResponseWriter, r *http.Request) {
	h.serveFile(w, r, "Proof", h.Service.Proof)
}

func (h *Handler) Statement(w http.ResponseWriter, r *http.Request) {
	h.serveFile(w, r, "Statement", h.Service.Statement)
}

func (h *Handler) serveFile(w http.ResponseWriter, r *http.Request, op string, render func(context.Context, string) (*File, error)) {
	id := chi.URLParam(r, "id")

	file, err := render(r.Context(), id)
	if err != nil {
		h.Logger.Error(op+": service error", "error", err, "id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteFile(w, file.ContentType, file.Name, file.Data)
}
