package api_test

import (
	"context"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/association-management/api"
)

func TestAPI(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "API Suite")
}

var _ = Describe("OpenAPI document", func() {
	var doc *openapi3.T

	BeforeEach(func() {
		loader := openapi3.NewLoader()
		var err error
		doc, err = loader.LoadFromData(api.OpenAPI)
		Expect(err).NotTo(HaveOccurred())
	})

	It("is a valid OpenAPI 3 document", func() {
		Expect(doc.Validate(context.Background())).To(Succeed())
	})

	It("documents the main resources", func() {
		for _, path := range []string{
			"/auth/login",
			"/me",
			"/funcionarios",
			"/funcionarios/{id}/extrato",
			"/associacoes/gerar",
			"/associacoes/gerar-periodo",
			"/associacoes/{id}/pagar",
			"/documentos",
			"/comunicacoes/lote",
			"/send-email",
			"/relatorios/{tipo}",
			"/configuracoes/{chave}",
			"/auditoria",
			"/dashboard",
			"/usuarios/{id}",
		} {
			Expect(doc.Paths.Find(path)).NotTo(BeNil(), path)
		}
	})

	It("requires a bearer token except for login, refresh and health", func() {
		Expect(doc.Components.SecuritySchemes).To(HaveKey("bearerAuth"))
		login := doc.Paths.Find("/auth/login").Post
		Expect(login.Security).NotTo(BeNil())
		Expect(*login.Security).To(BeEmpty())
		Expect(doc.Paths.Find("/funcionarios").Get.Security).To(BeNil())
	})
})
