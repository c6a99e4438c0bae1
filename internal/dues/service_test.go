package dues_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	errors "github.com/frahmantamala/association-management/internal"
	"github.com/frahmantamala/association-management/internal/audit"
	duesDatamodel "github.com/frahmantamala/association-management/internal/core/datamodel/dues"
	employeeDatamodel "github.com/frahmantamala/association-management/internal/core/datamodel/employee"
	"github.com/frahmantamala/association-management/internal/core/events"
	"github.com/frahmantamala/association-management/internal/dues"
	duesPostgres "github.com/frahmantamala/association-management/internal/dues/postgres"
)

func TestDues(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Dues Suite")
}

type fakeSettings struct {
	amount decimal.Decimal
}

func (f *fakeSettings) GetDecimal(context.Context, string) decimal.Decimal {
	return f.amount
}

type fakeAudit struct {
	actions []audit.Action
}

func (f *fakeAudit) Record(_ context.Context, action audit.Action, _ string, _ string, _, _ interface{}) {
	f.actions = append(f.actions, action)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

type countingMetrics struct {
	generated int
}

func (m *countingMetrics) DuesGenerated(n int) {
	m.generated += n
}

var _ = Describe("Dues Service", func() {
	var (
		db        *gorm.DB
		repo      dues.RepositoryAPI
		settings  *fakeSettings
		audits    *fakeAudit
		publisher *recordingPublisher
		metrics   *countingMetrics
		service   *dues.Service
		ctx       context.Context
	)

	addEmployee := func(nome, cpf, status string) string {
		e := &employeeDatamodel.Employee{Nome: nome, CPF: cpf, Email: nome + "@empresa.com.br", Status: status}
		Expect(db.Create(e).Error).NotTo(HaveOccurred())
		return e.ID
	}

	countFor := func(year, month int) int64 {
		var n int64
		Expect(db.Model(&duesDatamodel.DuesRecord{}).Where("ano = ? AND mes = ?", year, month).Count(&n).Error).To(Succeed())
		return n
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.AutoMigrate(&employeeDatamodel.Employee{}, &duesDatamodel.DuesRecord{})).To(Succeed())

		repo = duesPostgres.NewDuesRepository(db)
		settings = &fakeSettings{amount: decimal.RequireFromString("50.00")}
		audits = &fakeAudit{}
		publisher = &recordingPublisher{}
		metrics = &countingMetrics{}
		service = dues.NewService(repo, audits, settings, publisher, metrics, slog.New(slog.NewTextHandler(io.Discard, nil)))
		ctx = context.Background()
	})

	Describe("GenerateForMonth", func() {
		It("succeeds with nothing created when there are no active employees", func() {
			addEmployee("inativo", "52998224725", "inativo")

			result := service.GenerateForMonth(ctx, 2024, 3)
			Expect(result.Success).To(BeTrue())
			Expect(result.Created).To(Equal(0))
			Expect(result.Errors).To(BeEmpty())
		})

		It("creates one unpaid record per active employee at the default amount", func() {
			addEmployee("ana", "52998224725", "ativo")
			addEmployee("bruno", "11144477735", "ativo")
			addEmployee("carla", "39053344705", "suspenso")

			result := service.GenerateForMonth(ctx, 2024, 3)
			Expect(result.Success).To(BeTrue())
			Expect(result.Created).To(Equal(2))
			Expect(result.Errors).To(BeEmpty())
			Expect(countFor(2024, 3)).To(Equal(int64(2)))

			list, err := service.List(ctx, dues.Filter{Ano: 2024, Mes: 3})
			Expect(err).NotTo(HaveOccurred())
			for _, d := range list.Associacoes {
				Expect(d.Pago).To(BeFalse())
				Expect(d.DataPagamento).To(BeNil())
				Expect(d.ValorMensalidade.Equal(decimal.NewFromInt(50))).To(BeTrue())
				Expect(d.Funcionario).NotTo(BeNil())
			}

			Expect(metrics.generated).To(Equal(2))
			Expect(publisher.types()).To(ConsistOf(events.EventTypeDuesGenerated))
		})

		It("only fills the gaps and reports when everything already exists", func() {
			ana := addEmployee("ana", "52998224725", "ativo")
			addEmployee("bruno", "11144477735", "ativo")
			_, err := service.Create(ctx, dues.CreateDuesDTO{FuncionarioID: ana, Ano: 2024, Mes: 3, ValorMensalidade: decimal.NewFromInt(30)})
			Expect(err).NotTo(HaveOccurred())

			first := service.GenerateForMonth(ctx, 2024, 3)
			Expect(first.Created).To(Equal(1))

			again := service.GenerateForMonth(ctx, 2024, 3)
			Expect(again.Success).To(BeTrue())
			Expect(again.Created).To(Equal(0))
			Expect(again.Errors).To(Equal([]string{dues.MsgAllGenerated}))
			Expect(countFor(2024, 3)).To(Equal(int64(2)))
		})

		It("defaults to the current month", func() {
			addEmployee("ana", "52998224725", "ativo")
			now := time.Now()

			result := service.GenerateForMonth(ctx, 0, 0)
			Expect(result.Created).To(Equal(1))
			Expect(countFor(now.Year(), int(now.Month()))).To(Equal(int64(1)))
		})

		It("reports failures in the result", func() {
			addEmployee("ana", "52998224725", "ativo")
			Expect(db.Migrator().DropTable(&duesDatamodel.DuesRecord{})).To(Succeed())

			result := service.GenerateForMonth(ctx, 2024, 3)
			Expect(result.Success).To(BeFalse())
			Expect(result.Created).To(Equal(0))
			Expect(result.Errors).To(HaveLen(1))
		})

		It("never duplicates a period even when the pre-check is bypassed", func() {
			id := addEmployee("ana", "52998224725", "ativo")
			row := func() []*duesDatamodel.DuesRecord {
				return []*duesDatamodel.DuesRecord{{FuncionarioID: id, Ano: 2024, Mes: 5, ValorMensalidade: decimal.NewFromInt(50)}}
			}

			n, err := repo.InsertMissing(ctx, row())
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(int64(1)))

			n, err = repo.InsertMissing(ctx, row())
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(int64(0)))
			Expect(countFor(2024, 5)).To(Equal(int64(1)))
		})
	})

	Describe("GenerateForRange", func() {
		It("walks months across the year boundary", func() {
			addEmployee("ana", "52998224725", "ativo")

			result, err := service.GenerateForRange(ctx, 2023, 11, 2024, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Success).To(BeTrue())
			Expect(result.Created).To(Equal(4))
			Expect(countFor(2023, 12)).To(Equal(int64(1)))
			Expect(countFor(2024, 1)).To(Equal(int64(1)))
		})

		It("counts the all-created note as an error on a re-run", func() {
			addEmployee("ana", "52998224725", "ativo")
			_, err := service.GenerateForRange(ctx, 2024, 1, 2024, 2)
			Expect(err).NotTo(HaveOccurred())

			result, err := service.GenerateForRange(ctx, 2024, 1, 2024, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Success).To(BeFalse())
			Expect(result.Created).To(Equal(0))
			Expect(result.Errors).To(HaveLen(2))
		})

		It("rejects a start after the end and months outside 1..12", func() {
			_, err := service.GenerateForRange(ctx, 2024, 5, 2024, 4)
			Expect(err).To(HaveOccurred())

			_, err = service.GenerateForRange(ctx, 2024, 0, 2024, 13)
			appErr, ok := errors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})
	})

	Describe("records", func() {
		var employeeID string

		BeforeEach(func() {
			employeeID = addEmployee("ana", "52998224725", "ativo")
		})

		It("refuses a second record for the same period", func() {
			dto := dues.CreateDuesDTO{FuncionarioID: employeeID, Ano: 2024, Mes: 1, ValorMensalidade: decimal.NewFromInt(50)}
			_, err := service.Create(ctx, dto)
			Expect(err).NotTo(HaveOccurred())

			exists, err := service.Exists(ctx, employeeID, 2024, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeTrue())

			_, err = service.Create(ctx, dto)
			Expect(err).To(Equal(errors.ErrDuplicateDues))
		})

		It("marks paid with today's date and publishes dues.paid once", func() {
			d, err := service.Create(ctx, dues.CreateDuesDTO{FuncionarioID: employeeID, Ano: 2024, Mes: 2, ValorMensalidade: decimal.NewFromInt(50)})
			Expect(err).NotTo(HaveOccurred())

			paid, err := service.MarkPaid(ctx, d.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(paid.Pago).To(BeTrue())
			Expect(paid.DataPagamento).NotTo(BeNil())
			Expect(paid.DataPagamento.Format("2006-01-02")).To(Equal(time.Now().Format("2006-01-02")))

			_, err = service.MarkPaid(ctx, d.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(publisher.types()).To(Equal([]string{events.EventTypeDuesPaid}))

			unpaid, err := service.MarkUnpaid(ctx, d.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(unpaid.Pago).To(BeFalse())
			Expect(unpaid.DataPagamento).To(BeNil())

			Expect(audits.actions).To(Equal([]audit.Action{audit.ActionCreate, audit.ActionUpdate, audit.ActionUpdate}))
		})

		It("rejects negative amounts and future payment dates", func() {
			future := time.Now().AddDate(0, 1, 0).Format("2006-01-02")
			_, err := service.Create(ctx, dues.CreateDuesDTO{
				FuncionarioID:    employeeID,
				Ano:              2024,
				Mes:              3,
				ValorMensalidade: decimal.NewFromInt(-1),
				Pago:             true,
				DataPagamento:    &future,
			})
			appErr, ok := errors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Details.(errors.ValidationErrors).Errors).To(HaveLen(2))
		})

		It("filters by status and amount and totals the whole period", func() {
			other := addEmployee("bruno", "11144477735", "ativo")
			a, _ := service.Create(ctx, dues.CreateDuesDTO{FuncionarioID: employeeID, Ano: 2024, Mes: 4, ValorMensalidade: decimal.NewFromInt(50)})
			_, _ = service.Create(ctx, dues.CreateDuesDTO{FuncionarioID: other, Ano: 2024, Mes: 4, ValorMensalidade: decimal.NewFromInt(80)})
			_, err := service.MarkPaid(ctx, a.ID)
			Expect(err).NotTo(HaveOccurred())

			all, err := service.List(ctx, dues.Filter{Ano: 2024, Mes: 4})
			Expect(err).NotTo(HaveOccurred())
			Expect(all.Total).To(Equal(int64(2)))
			Expect(all.Totais.Pagas).To(Equal(1))
			Expect(all.Totais.Pendentes).To(Equal(1))
			Expect(all.Totais.ValorRecebido.Equal(decimal.NewFromInt(50))).To(BeTrue())
			Expect(all.Totais.ValorPendente.Equal(decimal.NewFromInt(80))).To(BeTrue())

			pending, err := service.List(ctx, dues.Filter{Ano: 2024, Mes: 4, Status: dues.StatusPending})
			Expect(err).NotTo(HaveOccurred())
			Expect(pending.Associacoes).To(HaveLen(1))
			Expect(pending.Associacoes[0].FuncionarioID).To(Equal(other))

			min := decimal.NewFromInt(60)
			expensive, err := service.List(ctx, dues.Filter{Ano: 2024, Mes: 4, ValorMin: &min})
			Expect(err).NotTo(HaveOccurred())
			Expect(expensive.Associacoes).To(HaveLen(1))
		})

		It("orders history by year then month, newest first", func() {
			for _, p := range [][2]int{{2023, 12}, {2024, 2}, {2024, 1}} {
				_, err := service.Create(ctx, dues.CreateDuesDTO{FuncionarioID: employeeID, Ano: p[0], Mes: p[1], ValorMensalidade: decimal.NewFromInt(50)})
				Expect(err).NotTo(HaveOccurred())
			}

			history, err := service.History(ctx, employeeID)
			Expect(err).NotTo(HaveOccurred())
			Expect(history.Associacoes).To(HaveLen(3))
			Expect(history.Associacoes[0].Period()).To(Equal("Fevereiro/2024"))
			Expect(history.Associacoes[2].Period()).To(Equal("Dezembro/2023"))
			Expect(history.Totais.Total).To(Equal(3))
		})

		It("returns not found for unknown records", func() {
			_, err := service.MarkPaid(ctx, "missing")
			Expect(err).To(Equal(errors.ErrDuesNotFound))
			Expect(service.Delete(ctx, "missing")).To(Equal(errors.ErrDuesNotFound))
		})
	})
})
