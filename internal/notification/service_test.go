package notification_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	errors "github.com/frahmantamala/association-management/internal"
	"github.com/frahmantamala/association-management/internal/audit"
	"github.com/frahmantamala/association-management/internal/core/events"
	"github.com/frahmantamala/association-management/internal/dues"
	"github.com/frahmantamala/association-management/internal/employee"
	"github.com/frahmantamala/association-management/internal/notification"
	"github.com/frahmantamala/association-management/internal/setting"
)

func TestNotification(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Notification Suite")
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeDues struct {
	records []*dues.DuesRecord
}

func (f *fakeDues) Get(_ context.Context, id string) (*dues.DuesRecord, error) {
	for _, r := range f.records {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, errors.ErrDuesNotFound
}

func (f *fakeDues) List(_ context.Context, filter dues.Filter) (*dues.ListResponse, error) {
	out := []*dues.DuesRecord{}
	for _, r := range f.records {
		if r.Ano != filter.Ano || r.Mes != filter.Mes {
			continue
		}
		if filter.Status != "" && r.Status() != filter.Status {
			continue
		}
		out = append(out, r)
	}
	return &dues.ListResponse{Associacoes: out, Total: int64(len(out))}, nil
}

type fakeSettings struct {
	ints    map[string]int
	confirm bool
}

func (f *fakeSettings) GetInt(_ context.Context, key string, def int) int {
	if v, ok := f.ints[key]; ok {
		return v
	}
	return def
}

func (f *fakeSettings) GetBool(_ context.Context, key string) bool {
	return key == setting.KeySendPaymentConfirmation && f.confirm
}

type recordingProvider struct {
	mu      sync.Mutex
	sent    []notification.Message
	failFor map[string]bool
}

func (p *recordingProvider) Name() string { return "recording" }

func (p *recordingProvider) Send(_ context.Context, msg *notification.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failFor[msg.To] {
		return io.ErrUnexpectedEOF
	}
	p.sent = append(p.sent, *msg)
	return nil
}

func (p *recordingProvider) messages() []notification.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]notification.Message(nil), p.sent...)
}

type fakeAudit struct {
	mu      sync.Mutex
	actions []audit.Action
	tables  []string
}

func (f *fakeAudit) Record(_ context.Context, action audit.Action, table, _ string, _, _ interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, action)
	f.tables = append(f.tables, table)
}

type countingMetrics struct {
	sent, failed int
}

func (m *countingMetrics) EmailSent(_ string, ok bool) {
	if ok {
		m.sent++
	} else {
		m.failed++
	}
}

func record(id, nome, email string, pago bool) *dues.DuesRecord {
	r := &dues.DuesRecord{
		ID:               id,
		FuncionarioID:    "f-" + id,
		Ano:              2024,
		Mes:              3,
		ValorMensalidade: decimal.RequireFromString("50"),
		Pago:             pago,
		Funcionario: &employee.Employee{
			ID:    "f-" + id,
			Nome:  nome,
			CPF:   "52998224725",
			Email: email,
		},
	}
	if pago {
		paidAt := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
		r.DataPagamento = &paidAt
	}
	return r
}

var _ = Describe("Templates", func() {
	It("renders a charge with formatted CPF, period, amount and due date", func() {
		msg, err := notification.Compose(notification.KindCharge, record("a", "Maria", "maria@x.org", false), notification.Options{DueDate: "10/03/2024"})
		Expect(err).NotTo(HaveOccurred())

		Expect(msg.To).To(Equal("maria@x.org"))
		Expect(msg.Subject).To(Equal("Cobrança de Mensalidade - Março/2024"))
		Expect(msg.HTML).To(ContainSubstring("529.982.247-25"))
		Expect(msg.HTML).To(ContainSubstring("R$ 50,00"))
		Expect(msg.HTML).To(ContainSubstring("<strong>Vencimento:</strong> 10/03/2024"))
		Expect(msg.HTML).To(ContainSubstring("background-color: #2563eb"))
		Expect(msg.HTML).To(ContainSubstring("Gestão de Associação de Funcionários"))
	})

	It("omits the due date line when none is known", func() {
		msg, err := notification.Compose(notification.KindCharge, record("a", "Maria", "maria@x.org", false), notification.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(msg.HTML).NotTo(ContainSubstring("Vencimento:"))
	})

	It("uses the default day counts", func() {
		r := record("a", "Maria", "maria@x.org", false)

		reminder, err := notification.Compose(notification.KindReminder, r, notification.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(reminder.Subject).To(Equal("Lembrete: Mensalidade Março/2024 vence em 5 dia(s)"))

		overdue, err := notification.Compose(notification.KindOverdue, r, notification.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(overdue.Subject).To(Equal("Aviso de Inadimplência - Março/2024"))
		Expect(overdue.HTML).To(ContainSubstring("<strong>Dias de Atraso:</strong> 10 dia(s)"))
	})

	It("prints the payment date on confirmations", func() {
		msg, err := notification.Compose(notification.KindConfirmation, record("a", "Maria", "maria@x.org", true), notification.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(msg.Subject).To(Equal("Pagamento Confirmado - Março/2024"))
		Expect(msg.HTML).To(ContainSubstring("<strong>Data do Pagamento:</strong> 15/03/2024"))
	})

	It("escapes employee names", func() {
		msg, err := notification.Compose(notification.KindCharge, record("a", "<script>x</script>", "m@x.org", false), notification.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(msg.HTML).NotTo(ContainSubstring("<script>"))
		Expect(msg.HTML).To(ContainSubstring("&lt;script&gt;"))
	})

	It("clamps the due day to the end of the month", func() {
		Expect(notification.DueDate(2024, 2, 31)).To(Equal("29/02/2024"))
		Expect(notification.DueDate(2024, 3, 10)).To(Equal("10/03/2024"))
		Expect(notification.DueDate(2024, 3, 0)).To(BeEmpty())
	})
})

var _ = Describe("Notification Service", func() {
	var (
		store    *fakeDues
		settings *fakeSettings
		provider *recordingProvider
		audits   *fakeAudit
		metrics  *countingMetrics
		service  *notification.Service
		ctx      context.Context
	)

	BeforeEach(func() {
		store = &fakeDues{records: []*dues.DuesRecord{
			record("pending", "Ana", "ana@x.org", false),
			record("paid", "Bruno", "bruno@x.org", true),
			record("no-email", "Carla", "", false),
		}}
		settings = &fakeSettings{ints: map[string]int{}}
		provider = &recordingProvider{failFor: map[string]bool{}}
		audits = &fakeAudit{}
		metrics = &countingMetrics{}
		service = notification.NewService(store, settings, provider, audits, metrics, notification.Config{}, discard)
		ctx = context.Background()
	})

	Describe("SendForDues", func() {
		It("sends and records an EMAIL entry", func() {
			result, err := service.SendForDues(ctx, "pending", notification.SendDuesDTO{Tipo: "cobranca"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.To).To(Equal("ana@x.org"))
			Expect(provider.messages()).To(HaveLen(1))
			Expect(audits.actions).To(Equal([]audit.Action{audit.ActionEmail}))
			Expect(audits.tables).To(Equal([]string{audit.TableDues}))
			Expect(metrics.sent).To(Equal(1))
		})

		It("fills the due date from the dia_vencimento setting", func() {
			settings.ints[setting.KeyDueDay] = 10
			_, err := service.SendForDues(ctx, "pending", notification.SendDuesDTO{Tipo: "cobranca"})
			Expect(err).NotTo(HaveOccurred())
			Expect(provider.messages()[0].HTML).To(ContainSubstring("10/03/2024"))
		})

		It("reads the reminder days from settings unless given", func() {
			settings.ints[setting.KeyReminderDays] = 3
			_, err := service.SendForDues(ctx, "pending", notification.SendDuesDTO{Tipo: "lembrete"})
			Expect(err).NotTo(HaveOccurred())
			Expect(provider.messages()[0].Subject).To(HaveSuffix("vence em 3 dia(s)"))

			dto := notification.SendDuesDTO{Tipo: "lembrete"}
			dto.DaysRemaining = 2
			_, err = service.SendForDues(ctx, "pending", dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(provider.messages()[1].Subject).To(HaveSuffix("vence em 2 dia(s)"))
		})

		It("refuses records that cannot receive the template", func() {
			_, err := service.SendForDues(ctx, "no-email", notification.SendDuesDTO{Tipo: "cobranca"})
			Expect(err).To(MatchError(notification.MsgNoEmail))

			_, err = service.SendForDues(ctx, "pending", notification.SendDuesDTO{Tipo: "confirmacao"})
			Expect(err).To(MatchError(notification.MsgNotPaidYet))

			_, err = service.SendForDues(ctx, "paid", notification.SendDuesDTO{Tipo: "inadimplencia"})
			Expect(err).To(MatchError(notification.MsgAlreadyPaid))

			Expect(provider.messages()).To(BeEmpty())
			Expect(audits.actions).To(BeEmpty())
		})

		It("validates the template name", func() {
			_, err := service.SendForDues(ctx, "pending", notification.SendDuesDTO{Tipo: "spam"})
			appErr, ok := errors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(http.StatusBadRequest))
		})

		It("reports provider failures and still audits the attempt", func() {
			provider.failFor["ana@x.org"] = true
			_, err := service.SendForDues(ctx, "pending", notification.SendDuesDTO{Tipo: "cobranca"})
			appErr, ok := errors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(errors.ErrCodeEmailDeliveryFail))
			Expect(audits.actions).To(HaveLen(1))
			Expect(metrics.failed).To(Equal(1))
		})
	})

	Describe("SendBatch", func() {
		It("skips records without email and counts sends", func() {
			result, err := service.SendBatch(ctx, notification.BatchDTO{Tipo: "cobranca", Ano: 2024, Mes: 3})
			Expect(err).NotTo(HaveOccurred())
			Expect(*result).To(Equal(notification.BatchResult{Total: 3, Enviados: 2, Erros: 0, Ignorados: 1}))
		})

		It("only targets unpaid records for overdue notices", func() {
			result, err := service.SendBatch(ctx, notification.BatchDTO{Tipo: "inadimplencia", Ano: 2024, Mes: 3})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Enviados).To(Equal(1))
			Expect(provider.messages()[0].To).To(Equal("ana@x.org"))
		})

		It("counts failures without stopping", func() {
			provider.failFor["ana@x.org"] = true
			result, err := service.SendBatch(ctx, notification.BatchDTO{Tipo: "lembrete", Ano: 2024, Mes: 3})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Enviados).To(Equal(1))
			Expect(result.Erros).To(Equal(1))
			Expect(audits.actions).To(HaveLen(2))
		})

		It("stops when the context ends during the pause", func() {
			service = notification.NewService(store, settings, provider, audits, metrics, notification.Config{BatchDelay: time.Hour}, discard)
			short, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
			defer cancel()

			result, err := service.SendBatch(short, notification.BatchDTO{Tipo: "cobranca", Ano: 2024, Mes: 3})
			Expect(err).To(MatchError(context.DeadlineExceeded))
			Expect(result.Enviados).To(Equal(1))
		})

		It("rejects confirmation batches and bad periods", func() {
			_, err := service.SendBatch(ctx, notification.BatchDTO{Tipo: "confirmacao", Ano: 2024, Mes: 3})
			Expect(err).To(HaveOccurred())

			_, err = service.SendBatch(ctx, notification.BatchDTO{Tipo: "cobranca", Ano: 2024, Mes: 13})
			appErr, _ := errors.IsAppError(err)
			Expect(appErr.Details.(errors.ValidationErrors).Errors[0].Field).To(Equal("mes"))
		})
	})

	Describe("EventHandler", func() {
		var bus *events.EventBus

		BeforeEach(func() {
			bus = events.NewEventBus(discard)
			notification.NewEventHandler(service, discard).RegisterEventHandlers(bus)
		})

		paidEvent := func(id string) events.Event {
			return events.NewDuesPaidEvent(id, "f-"+id, 2024, 3, decimal.RequireFromString("50"), time.Now())
		}

		It("sends a confirmation when enabled", func() {
			settings.confirm = true
			Expect(bus.PublishSync(ctx, paidEvent("paid"))).To(Succeed())
			Expect(provider.messages()).To(HaveLen(1))
			Expect(provider.messages()[0].Subject).To(Equal("Pagamento Confirmado - Março/2024"))
		})

		It("does nothing when disabled", func() {
			Expect(bus.PublishSync(ctx, paidEvent("paid"))).To(Succeed())
			Expect(provider.messages()).To(BeEmpty())
		})

		It("ignores employees without email", func() {
			settings.confirm = true
			store.records[2].Pago = true
			paidAt := time.Now()
			store.records[2].DataPagamento = &paidAt
			Expect(bus.PublishSync(ctx, paidEvent("no-email"))).To(Succeed())
		})
	})

	Describe("Handler", func() {
		var router *chi.Mux

		BeforeEach(func() {
			h := notification.NewHandler(service)
			router = chi.NewRouter()
			router.Post("/send-email", h.SendEmail)
			router.Post("/associacoes/{id}/email", h.SendDuesEmail)
			router.Post("/comunicacoes/lote", h.SendBatch)
		})

		post := func(path, body string) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body)))
			return w
		}

		It("answers 400 with the flat error body when a field is missing", func() {
			w := post("/send-email", `{"to":"a@x.org","subject":"Oi"}`)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(MatchJSON(`{"error":"Parâmetros incompletos"}`))
		})

		It("confirms a relayed email", func() {
			w := post("/send-email", `{"to":"a@x.org","subject":"Oi","html":"<p>oi</p>"}`)
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(MatchJSON(`{"success":true,"message":"Email enviado com sucesso"}`))
			Expect(audits.tables).To(Equal([]string{audit.TableEmails}))
		})

		It("sends for a single record", func() {
			w := post("/associacoes/pending/email", `{"tipo":"cobranca"}`)
			Expect(w.Code).To(Equal(http.StatusOK))

			var result notification.SendResult
			Expect(json.Unmarshal(w.Body.Bytes(), &result)).To(Succeed())
			Expect(result.Subject).To(Equal("Cobrança de Mensalidade - Março/2024"))
		})

		It("maps unknown records to 404", func() {
			w := post("/associacoes/missing/email", `{"tipo":"cobranca"}`)
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("returns batch counts", func() {
			w := post("/comunicacoes/lote", `{"tipo":"cobranca","ano":2024,"mes":3}`)
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(MatchJSON(`{"total":3,"enviados":2,"erros":0,"ignorados":1}`))
		})
	})
})
