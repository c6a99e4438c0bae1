package dues_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/association-management/internal/dues"
)

type stubService struct {
	dues.ServiceAPI
	lastFilter dues.Filter
	year       int
	month      int
}

func (s *stubService) List(_ context.Context, filter dues.Filter) (*dues.ListResponse, error) {
	s.lastFilter = filter
	return &dues.ListResponse{Associacoes: []*dues.DuesRecord{}}, nil
}

func (s *stubService) GenerateForMonth(_ context.Context, year, month int) dues.GenerationResult {
	s.year, s.month = year, month
	return dues.GenerationResult{Success: true, Created: 3, Errors: []string{}}
}

var _ = Describe("Dues Handler", func() {
	var (
		stub   *stubService
		router *chi.Mux
	)

	BeforeEach(func() {
		stub = &stubService{}
		h := dues.NewHandler(stub)
		router = chi.NewRouter()
		router.Get("/associacoes", h.ListDues)
		router.Post("/associacoes/gerar", h.Generate)
		router.Get("/associacoes/existe", h.CheckExists)
	})

	It("parses the period, status and amount filters", func() {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/associacoes?ano=2024&mes=3&status=pendente&valor_min=10.5", nil))
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(stub.lastFilter.Ano).To(Equal(2024))
		Expect(stub.lastFilter.Mes).To(Equal(3))
		Expect(stub.lastFilter.Status).To(Equal(dues.StatusPending))
		Expect(stub.lastFilter.ValorMin.String()).To(Equal("10.5"))
		Expect(stub.lastFilter.Limit).To(Equal(0))
	})

	It("rejects unknown statuses and malformed amounts", func() {
		for _, url := range []string{"/associacoes?status=atrasado", "/associacoes?valor_max=abc"} {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		}
	})

	It("generates the current month when the body is empty", func() {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/associacoes/gerar", nil))
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(stub.year).To(Equal(0))

		var result map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &result)).To(Succeed())
		Expect(result).To(HaveKeyWithValue("criadas", BeNumerically("==", 3)))
	})

	It("passes an explicit period through", func() {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/associacoes/gerar", bytes.NewBufferString(`{"ano":2025,"mes":7}`)))
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(stub.year).To(Equal(2025))
		Expect(stub.month).To(Equal(7))
	})

	It("requires all parameters to check for an existing record", func() {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/associacoes/existe?ano=2024", nil))
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})
})
