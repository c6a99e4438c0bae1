package document

import (
	"context"
	"io"
	"log/slog"
	"time"

	errors "github.com/frahmantamala/association-management/internal"
	"github.com/frahmantamala/association-management/internal/audit"
	documentDatamodel "github.com/frahmantamala/association-management/internal/core/datamodel/document"
	"github.com/frahmantamala/association-management/internal/storage"
)

type RepositoryAPI interface {
	List(ctx context.Context, filter Filter) ([]*documentDatamodel.Document, int64, error)
	GetByID(ctx context.Context, id string) (*documentDatamodel.Document, error)
	Create(ctx context.Context, d *documentDatamodel.Document) error
	Delete(ctx context.Context, id string) error
	EmployeeExists(ctx context.Context, employeeID string) (bool, error)
}

// ObjectStorage is satisfied by *storage.S3Storage.
type ObjectStorage interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (*storage.Object, error)
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

type AuditRecorder interface {
	Record(ctx context.Context, action audit.Action, table, recordID string, before, after interface{})
}

type Service struct {
	repo     RepositoryAPI
	storage  ObjectStorage
	audit    AuditRecorder
	maxBytes int64
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, objects ObjectStorage, auditRecorder AuditRecorder, maxBytes int64, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		storage:  objects,
		audit:    auditRecorder,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

func (s *Service) MaxUploadBytes() int64 {
	return s.maxBytes
}

func (s *Service) List(ctx context.Context, filter Filter) (*ListResponse, error) {
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list documents", "error", err)
		return nil, err
	}

	docs := make([]*Document, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, FromDataModel(row))
	}

	return &ListResponse{Documentos: docs, Total: total, Limit: filter.Limit, Offset: filter.Offset}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Document, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(row), nil
}

// Upload stores the file first and then its metadata; the object is removed
// again if the row cannot be written.
func (s *Service) Upload(ctx context.Context, dto UploadDTO, body io.Reader) (*Document, error) {
	dto.Normalize()
	if verr := dto.Validate(s.maxBytes); verr != nil {
		return nil, verr
	}

	exists, err := s.repo.EmployeeExists(ctx, dto.FuncionarioID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errors.ErrEmployeeNotFound
	}

	key := ObjectKey(dto.FuncionarioID, dto.FileName, time.Now())
	if err := s.storage.Put(ctx, key, body, dto.Size, dto.ContentType); err != nil {
		s.logger.Error("failed to upload document", "error", err, "key", key)
		return nil, errors.NewInternalError("Erro ao fazer upload do arquivo", err)
	}

	size := dto.Size
	doc := &Document{
		FuncionarioID:  dto.FuncionarioID,
		Nome:           dto.Nome,
		Tipo:           Type(dto.Tipo),
		Descricao:      dto.Descricao,
		ArquivoURL:     s.storage.PublicURL(key),
		ArquivoNome:    dto.FileName,
		ArquivoCaminho: key,
		ArquivoTamanho: &size,
	}
	if userID := errors.UserIDFromContext(ctx); userID != "" {
		doc.CreatedBy = &userID
	}

	row := ToDataModel(doc)
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to save document metadata", "error", err, "key", key)
		if derr := s.storage.Delete(ctx, key); derr != nil {
			s.logger.Warn("failed to remove orphaned object", "error", derr, "key", key)
		}
		return nil, err
	}

	created := FromDataModel(row)
	s.audit.Record(ctx, audit.ActionCreate, audit.TableDocuments, created.ID, nil, created)
	s.logger.Info("document uploaded", "document_id", created.ID, "employee_id", created.FuncionarioID, "size", size)
	return created, nil
}

// Download returns the metadata and an open object; the caller closes Body.
func (s *Service) Download(ctx context.Context, id string) (*Document, *storage.Object, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	obj, err := s.storage.Get(ctx, doc.ArquivoCaminho)
	if err != nil {
		s.logger.Error("failed to download document", "error", err, "document_id", id)
		return nil, nil, err
	}

	s.audit.Record(ctx, audit.ActionView, audit.TableDocuments, id, nil, nil)
	return doc, obj, nil
}

// Delete removes the stored object and then the row. A storage failure is
// logged and does not keep the row.
func (s *Service) Delete(ctx context.Context, id string) error {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, doc.ArquivoCaminho); err != nil {
		s.logger.Warn("failed to delete stored object", "error", err, "document_id", id, "key", doc.ArquivoCaminho)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete document", "error", err, "document_id", id)
		return err
	}

	s.audit.Record(ctx, audit.ActionDelete, audit.TableDocuments, id, doc, nil)
	s.logger.Info("document deleted", "document_id", id)
	return nil
}
