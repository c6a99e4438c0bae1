package notification

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/association-management/internal/transport"
	"github.com/frahmantamala/association-management/pkg/logger"
)

type ServiceAPI interface {
	Send(ctx context.Context, msg *Message) error
	SendForDues(ctx context.Context, duesID string, dto SendDuesDTO) (*SendResult, error)
	SendBatch(ctx context.Context, dto BatchDTO) (*BatchResult, error)
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

// SendEmail relays a rendered message. Its response bodies are flat
// {"error": ...} / {"success", "message"} objects, not the AppError envelope.
func (h *Handler) SendEmail(w http.ResponseWriter, r *http.Request) {
	var msg Message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil || !msg.Complete() {
		h.WriteJSON(w, http.StatusBadRequest, sendEmailError{Error: MsgIncompleteParams})
		return
	}

	if err := h.Service.Send(r.Context(), &msg); err != nil {
		h.Logger.Error("SendEmail: service error", "error", err, "to", msg.To)
		h.WriteJSON(w, http.StatusInternalServerError, sendEmailError{Error: MsgDeliveryFailed})
		return
	}

	h.WriteJSON(w, http.StatusOK, sendEmailResponse{Success: true, Message: MsgEmailSent})
}

func (h *Handler) SendDuesEmail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var dto SendDuesDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("SendDuesEmail: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.SendForDues(r.Context(), id, dto)
	if err != nil {
		h.Logger.Error("SendDuesEmail: service error", "error", err, "associacao_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) SendBatch(w http.ResponseWriter, r *http.Request) {
	var dto BatchDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("SendBatch: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.SendBatch(r.Context(), dto)
	if err != nil && result == nil {
		h.Logger.Error("SendBatch: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	if err != nil {
		h.Logger.Warn("SendBatch: interrupted", "error", err, "enviados", result.Enviados)
	}

	h.WriteJSON(w, http.StatusOK, result)
}
