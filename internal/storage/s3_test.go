package storage_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/association-management/internal/storage"
)

func TestStorage(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Storage Suite")
}

var _ = Describe("ObjectURL", func() {
	key := "funcionario-1/1700000000000_rg frente.pdf"

	It("prefers the public base", func() {
		Expect(storage.ObjectURL("https://cdn.example.com/documentos/", "http://minio:9000", "documentos", key, true)).
			To(Equal("https://cdn.example.com/documentos/funcionario-1/1700000000000_rg%20frente.pdf"))
	})

	It("builds path-style addresses from the endpoint", func() {
		Expect(storage.ObjectURL("", "http://localhost:9000", "documentos", "funcionario-1/a.pdf", true)).
			To(Equal("http://localhost:9000/documentos/funcionario-1/a.pdf"))
	})

	It("builds virtual-host addresses otherwise", func() {
		Expect(storage.ObjectURL("", "https://s3.sa-east-1.amazonaws.com", "documentos", "funcionario-1/a.pdf", false)).
			To(Equal("https://documentos.s3.sa-east-1.amazonaws.com/funcionario-1/a.pdf"))
	})

	It("falls back to AWS when no endpoint is configured", func() {
		Expect(storage.ObjectURL("", "", "documentos", "k.pdf", false)).
			To(Equal("https://documentos.s3.amazonaws.com/k.pdf"))
	})
})
