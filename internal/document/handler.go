package document

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	errors "github.com/frahmantamala/association-management/internal"
	"github.com/frahmantamala/association-management/internal/storage"
	"github.com/frahmantamala/association-management/internal/transport"
	"github.com/frahmantamala/association-management/pkg/logger"
)

type ServiceAPI interface {
	List(ctx context.Context, filter Filter) (*ListResponse, error)
	Get(ctx context.Context, id string) (*Document, error)
	Upload(ctx context.Context, dto UploadDTO, body io.Reader) (*Document, error)
	Download(ctx context.Context, id string) (*Document, *storage.Object, error)
	Delete(ctx context.Context, id string) error
	MaxUploadBytes() int64
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

// multipart overhead allowed on top of the file limit
const formOverhead = 1 << 20

func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, offset := transport.Pagination(q)

	resp, err := h.Service.List(r.Context(), Filter{
		Search:        q.Get("search"),
		Tipo:          q.Get("tipo"),
		FuncionarioID: q.Get("funcionario_id"),
		Limit:         limit,
		Offset:        offset,
	})
	if err != nil {
		h.Logger.Error("ListDocuments: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

// ListEmployeeDocuments serves GET /funcionarios/{id}/documentos.
func (h *Handler) ListEmployeeDocuments(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")

	resp, err := h.Service.List(r.Context(), Filter{FuncionarioID: employeeID})
	if err != nil {
		h.Logger.Error("ListEmployeeDocuments: service error", "error", err, "employee_id", employeeID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	doc, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.Logger.Error("GetDocument: service error", "error", err, "document_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, doc)
}

// UploadDocument expects multipart fields funcionario_id, nome, tipo,
// descricao and the file under "arquivo".
func (h *Handler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	maxBytes := h.Service.MaxUploadBytes()
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+formOverhead)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		h.Logger.Warn("UploadDocument: invalid multipart form", "error", err)
		h.HandleServiceError(w, errors.NewValidationFieldError("arquivo", "Arquivo inválido ou muito grande", errors.ErrCodeFileTooLarge))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("arquivo")
	if err != nil {
		h.HandleServiceError(w, errors.NewValidationFieldError("arquivo", "Selecione um arquivo", errors.ErrCodeValidationFailed))
		return
	}
	defer file.Close()

	dto := UploadDTO{
		FuncionarioID: r.FormValue("funcionario_id"),
		Nome:          r.FormValue("nome"),
		Tipo:          r.FormValue("tipo"),
		FileName:      header.Filename,
		ContentType:   header.Header.Get("Content-Type"),
		Size:          header.Size,
	}
	if desc := r.FormValue("descricao"); desc != "" {
		dto.Descricao = &desc
	}

	doc, err := h.Service.Upload(r.Context(), dto, file)
	if err != nil {
		h.Logger.Error("UploadDocument: service error", "error", err, "employee_id", dto.FuncionarioID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, doc)
}

func (h *Handler) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	doc, obj, err := h.Service.Download(r.Context(), id)
	if err != nil {
		h.Logger.Error("DownloadDocument: service error", "error", err, "document_id", id)
		h.HandleServiceError(w, err)
		return
	}
	defer obj.Body.Close()

	contentType := obj.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.ArquivoNome))
	if obj.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.ContentLength, 10))
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, obj.Body); err != nil {
		h.Logger.Error("DownloadDocument: stream interrupted", "error", err, "document_id", id)
	}
}

func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.Logger.Error("DeleteDocument: service error", "error", err, "document_id", id)
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
