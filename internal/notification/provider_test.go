package notification_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	errors "github.com/frahmantamala/association-management/internal"
	"github.com/frahmantamala/association-management/internal/notification"
)

var _ = Describe("Providers", func() {
	It("picks the provider from config", func() {
		p, err := notification.NewProvider(errors.MailConfig{}, discard)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Name()).To(Equal(notification.ProviderLog))

		p, err = notification.NewProvider(errors.MailConfig{Provider: "sendgrid", SendgridAPIKey: "SG.key", FromAddress: "a@x.org"}, discard)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Name()).To(Equal(notification.ProviderSendgrid))

		_, err = notification.NewProvider(errors.MailConfig{Provider: "http"}, discard)
		Expect(err).To(HaveOccurred())

		_, err = notification.NewProvider(errors.MailConfig{Provider: "pombo"}, discard)
		Expect(err).To(HaveOccurred())
	})

	Describe("HTTPProvider", func() {
		It("posts the message as JSON", func() {
			var received notification.Message
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				defer GinkgoRecover()
				Expect(r.Method).To(Equal(http.MethodPost))
				Expect(r.Header.Get("Content-Type")).To(Equal("application/json"))
				Expect(json.NewDecoder(r.Body).Decode(&received)).To(Succeed())
				w.WriteHeader(http.StatusAccepted)
			}))
			defer server.Close()

			p := notification.NewHTTPProvider(server.URL, 0, discard)
			msg := &notification.Message{To: "a@x.org", Subject: "Oi", HTML: "<p>oi</p>"}
			Expect(p.Send(context.Background(), msg)).To(Succeed())
			Expect(received).To(Equal(*msg))
		})

		It("fails on non-2xx answers", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			}))
			defer server.Close()

			p := notification.NewHTTPProvider(server.URL, 0, discard)
			err := p.Send(context.Background(), &notification.Message{To: "a@x.org", Subject: "Oi", HTML: "x"})
			Expect(err).To(MatchError(ContainSubstring("status 500")))
		})
	})

	It("only logs with the log provider", func() {
		p := notification.NewLogProvider(discard)
		Expect(p.Send(context.Background(), &notification.Message{To: "a@x.org"})).To(Succeed())
	})
})
