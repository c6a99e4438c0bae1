package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/association-management/internal"
)

func TestMiddleware(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Middleware Suite")
}

var ok = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

var _ = Describe("CORS", func() {
	It("echoes whitelisted origins with credentials", func() {
		h := CORS("http://app.local, http://admin.local")(ok)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://admin.local")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("http://admin.local"))
		Expect(w.Header().Get("Access-Control-Allow-Credentials")).To(Equal("true"))
	})

	It("ignores unknown origins but still serves the request", func() {
		h := CORS("http://app.local")(ok)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://evil.local")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Access-Control-Allow-Origin")).To(BeEmpty())
	})

	It("answers preflight requests directly", func() {
		h := CORS("*")(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			Fail("preflight reached the handler")
		}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/v1/funcionarios", nil))
		Expect(w.Code).To(Equal(http.StatusNoContent))
		Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("*"))
		Expect(w.Header().Get("Access-Control-Allow-Methods")).To(ContainSubstring("DELETE"))
	})
})

var _ = Describe("ClientInfo", func() {
	capture := func(req *http.Request) internal.ClientInfo {
		var info internal.ClientInfo
		ClientInfo(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			info = internal.ClientInfoFromContext(r.Context())
		})).ServeHTTP(httptest.NewRecorder(), req)
		return info
	}

	It("prefers the first forwarded address", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
		req.Header.Set("User-Agent", "navegador/1.0")

		info := capture(req)
		Expect(info.IP).To(Equal("203.0.113.7"))
		Expect(info.UserAgent).To(Equal("navegador/1.0"))
	})

	It("falls back to the remote address host", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.10:51234"
		Expect(capture(req).IP).To(Equal("192.0.2.10"))
	})
})

var _ = Describe("RequestID", func() {
	It("keeps the caller's id", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		w := httptest.NewRecorder()
		RequestID(ok).ServeHTTP(w, req)
		Expect(w.Header().Get(RequestIDHeader)).To(Equal("abc-123"))
	})

	It("mints one when missing", func() {
		w := httptest.NewRecorder()
		RequestID(ok).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		Expect(w.Header().Get(RequestIDHeader)).To(HaveLen(36))
	})
})

var _ = Describe("RecoveryMiddleware", func() {
	It("writes the generic error instead of the panic value", func() {
		lg := slog.New(slog.NewTextHandler(io.Discard, nil))
		h := RecoveryMiddleware(lg)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("segredo interno")
		}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		Expect(w.Code).To(Equal(http.StatusInternalServerError))
		Expect(w.Body.String()).NotTo(ContainSubstring("segredo interno"))
		Expect(w.Body.String()).To(ContainSubstring(internal.MsgGenericError))
	})
})

var _ = Describe("log filtering", func() {
	It("masks passwords and tokens at any depth", func() {
		out := filterSensitiveBody([]byte(`{"email":"a@b.c","senha":"x","dados":{"nova_senha":"y","refresh_token":"z"}}`))
		Expect(out).To(MatchJSON(`{"email":"a@b.c","senha":"[FILTERED]","dados":{"nova_senha":"[FILTERED]","refresh_token":"[FILTERED]"}}`))
	})

	It("masks the authorization header", func() {
		h := http.Header{}
		h.Set("Authorization", "Bearer abc")
		h.Set("Accept", "application/json")
		Expect(filterSensitiveHeaders(h)).To(Equal(map[string]string{
			"Authorization": "[FILTERED]",
			"Accept":        "application/json",
		}))
	})
})
