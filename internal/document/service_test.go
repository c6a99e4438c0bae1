package document_test

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	errors "github.com/frahmantamala/association-management/internal"
	"github.com/frahmantamala/association-management/internal/audit"
	documentDatamodel "github.com/frahmantamala/association-management/internal/core/datamodel/document"
	employeeDatamodel "github.com/frahmantamala/association-management/internal/core/datamodel/employee"
	"github.com/frahmantamala/association-management/internal/document"
	documentPostgres "github.com/frahmantamala/association-management/internal/document/postgres"
	"github.com/frahmantamala/association-management/internal/storage"
)

func TestDocument(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Document Suite")
}

type memoryStorage struct {
	mu        sync.Mutex
	objects   map[string][]byte
	putErr    error
	deleteErr error
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: make(map[string][]byte)}
}

func (m *memoryStorage) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) error {
	if m.putErr != nil {
		return m.putErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *memoryStorage) Get(_ context.Context, key string) (*storage.Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return &storage.Object{Body: io.NopCloser(bytes.NewReader(data)), ContentType: "application/pdf", ContentLength: int64(len(data))}, nil
}

func (m *memoryStorage) Delete(_ context.Context, key string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memoryStorage) PublicURL(key string) string {
	return "https://files.example.com/documentos/" + key
}

func (m *memoryStorage) keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []string{}
	for k := range m.objects {
		out = append(out, k)
	}
	return out
}

type fakeAudit struct {
	actions []audit.Action
}

func (f *fakeAudit) Record(_ context.Context, action audit.Action, _ string, _ string, _, _ interface{}) {
	f.actions = append(f.actions, action)
}

var _ = Describe("Documents", func() {
	var (
		db         *gorm.DB
		objects    *memoryStorage
		audits     *fakeAudit
		service    *document.Service
		ctx        context.Context
		employeeID string
	)

	upload := func(nome, fileName, content string) (*document.Document, error) {
		return service.Upload(ctx, document.UploadDTO{
			FuncionarioID: employeeID,
			Nome:          nome,
			Tipo:          "identidade",
			FileName:      fileName,
			ContentType:   "application/pdf",
			Size:          int64(len(content)),
		}, strings.NewReader(content))
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.AutoMigrate(&employeeDatamodel.Employee{}, &documentDatamodel.Document{})).To(Succeed())

		emp := &employeeDatamodel.Employee{Nome: "Maria Souza", CPF: "52998224725", Email: "maria@empresa.com.br", Status: "ativo"}
		Expect(db.Create(emp).Error).To(Succeed())
		employeeID = emp.ID

		objects = newMemoryStorage()
		audits = &fakeAudit{}
		service = document.NewService(documentPostgres.NewDocumentRepository(db), objects, audits, 1024, slog.New(slog.NewTextHandler(io.Discard, nil)))
		ctx = errors.ContextWithUserID(context.Background(), "user-1")
	})

	Describe("keys", func() {
		It("sanitizes file names", func() {
			Expect(document.SanitizeFileName("RG frente (1).pdf")).To(Equal("RG_frente__1_.pdf"))
			Expect(document.SanitizeFileName("ção.png")).To(Equal("__o.png"))
		})

		It("prefixes the employee folder and the upload time in milliseconds", func() {
			at := time.UnixMilli(1700000000123)
			Expect(document.ObjectKey("abc", "rg frente.pdf", at)).To(Equal("funcionario-abc/1700000000123_rg_frente.pdf"))
		})
	})

	Describe("Upload", func() {
		It("stores the object and the metadata", func() {
			doc, err := upload("", "rg frente.pdf", "conteudo")
			Expect(err).NotTo(HaveOccurred())

			Expect(doc.Nome).To(Equal("rg frente.pdf"))
			Expect(doc.ArquivoCaminho).To(HavePrefix("funcionario-" + employeeID + "/"))
			Expect(doc.ArquivoCaminho).To(HaveSuffix("_rg_frente.pdf"))
			Expect(doc.ArquivoURL).To(Equal("https://files.example.com/documentos/" + doc.ArquivoCaminho))
			Expect(*doc.ArquivoTamanho).To(Equal(int64(8)))
			Expect(doc.TamanhoFormatado).To(Equal("8 Bytes"))
			Expect(*doc.CreatedBy).To(Equal("user-1"))
			Expect(objects.keys()).To(ConsistOf(doc.ArquivoCaminho))
			Expect(audits.actions).To(Equal([]audit.Action{audit.ActionCreate}))
		})

		It("rejects files over the limit and unknown types", func() {
			_, err := service.Upload(ctx, document.UploadDTO{
				FuncionarioID: employeeID, Tipo: "passaporte", FileName: "a.pdf", Size: 4096,
			}, strings.NewReader(""))
			appErr, ok := errors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Details.(errors.ValidationErrors).Errors).To(HaveLen(2))
			Expect(objects.keys()).To(BeEmpty())
		})

		It("refuses unknown employees", func() {
			employeeID = "missing"
			_, err := upload("x", "a.pdf", "data")
			Expect(err).To(Equal(errors.ErrEmployeeNotFound))
		})

		It("surfaces storage failures without writing a row", func() {
			objects.putErr = stderrors.New("bucket offline")
			_, err := upload("x", "a.pdf", "data")
			Expect(err).To(HaveOccurred())

			list, err := service.List(ctx, document.Filter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(list.Total).To(Equal(int64(0)))
		})
	})

	Describe("List, Download and Delete", func() {
		It("searches by document or employee name and filters by type", func() {
			_, err := upload("Carteira de identidade", "rg.pdf", "a")
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Upload(ctx, document.UploadDTO{FuncionarioID: employeeID, Nome: "Recibo", Tipo: "comprovante", FileName: "r.pdf", Size: 1}, strings.NewReader("b"))
			Expect(err).NotTo(HaveOccurred())

			byEmployee, err := service.List(ctx, document.Filter{Search: "maria"})
			Expect(err).NotTo(HaveOccurred())
			Expect(byEmployee.Total).To(Equal(int64(2)))
			Expect(byEmployee.Documentos[0].Funcionario).NotTo(BeNil())

			byType, err := service.List(ctx, document.Filter{Tipo: "comprovante"})
			Expect(err).NotTo(HaveOccurred())
			Expect(byType.Documentos).To(HaveLen(1))
			Expect(byType.Documentos[0].Nome).To(Equal("Recibo"))
		})

		It("streams the stored bytes back", func() {
			doc, err := upload("rg", "rg.pdf", "pdf-bytes")
			Expect(err).NotTo(HaveOccurred())

			_, obj, err := service.Download(ctx, doc.ID)
			Expect(err).NotTo(HaveOccurred())
			data, _ := io.ReadAll(obj.Body)
			Expect(string(data)).To(Equal("pdf-bytes"))
		})

		It("deletes the row even when the object is already gone", func() {
			doc, err := upload("rg", "rg.pdf", "x")
			Expect(err).NotTo(HaveOccurred())
			objects.deleteErr = stderrors.New("not found")

			Expect(service.Delete(ctx, doc.ID)).To(Succeed())
			_, err = service.Get(ctx, doc.ID)
			Expect(err).To(Equal(errors.ErrDocumentNotFound))
		})
	})

	Describe("Handler", func() {
		var router *chi.Mux

		BeforeEach(func() {
			h := document.NewHandler(service)
			router = chi.NewRouter()
			router.Post("/documentos", h.UploadDocument)
			router.Get("/documentos/{id}/download", h.DownloadDocument)
		})

		It("accepts a multipart upload and serves the download", func() {
			body := &bytes.Buffer{}
			mw := multipart.NewWriter(body)
			Expect(mw.WriteField("funcionario_id", employeeID)).To(Succeed())
			Expect(mw.WriteField("tipo", "cpf")).To(Succeed())
			part, err := mw.CreateFormFile("arquivo", "cpf.pdf")
			Expect(err).NotTo(HaveOccurred())
			_, _ = part.Write([]byte("cpf-data"))
			Expect(mw.Close()).To(Succeed())

			req := httptest.NewRequest(http.MethodPost, "/documentos", body)
			req = req.WithContext(ctx)
			req.Header.Set("Content-Type", mw.FormDataContentType())
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusCreated))

			list, err := service.List(ctx, document.Filter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(list.Documentos).To(HaveLen(1))

			w = httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/documentos/"+list.Documentos[0].ID+"/download", nil))
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Header().Get("Content-Disposition")).To(ContainSubstring(`filename="cpf.pdf"`))
			Expect(w.Body.String()).To(Equal("cpf-data"))
		})

		It("rejects a form without a file", func() {
			body := &bytes.Buffer{}
			mw := multipart.NewWriter(body)
			Expect(mw.WriteField("funcionario_id", employeeID)).To(Succeed())
			Expect(mw.Close()).To(Succeed())

			req := httptest.NewRequest(http.MethodPost, "/documentos", body)
			req.Header.Set("Content-Type", mw.FormDataContentType())
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})
})
