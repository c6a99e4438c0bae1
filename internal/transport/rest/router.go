package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/association-management/internal/audit"
	"github.com/frahmantamala/association-management/internal/auth"
	"github.com/frahmantamala/association-management/internal/dashboard"
	"github.com/frahmantamala/association-management/internal/document"
	"github.com/frahmantamala/association-management/internal/dues"
	"github.com/frahmantamala/association-management/internal/employee"
	"github.com/frahmantamala/association-management/internal/notification"
	"github.com/frahmantamala/association-management/internal/report"
	"github.com/frahmantamala/association-management/internal/setting"
	"github.com/frahmantamala/association-management/internal/transport/middleware"
	"github.com/frahmantamala/association-management/internal/transport/swagger"
	"github.com/frahmantamala/association-management/internal/user"
	"github.com/frahmantamala/association-management/pkg/metrics"
	"github.com/go-chi/chi"
)

// Handlers groups the feature handlers mounted under /api/v1.
type Handlers struct {
	Auth         *auth.Handler
	User         *user.Handler
	Employee     *employee.Handler
	Dues         *dues.Handler
	Document     *document.Handler
	Setting      *setting.Handler
	Audit        *audit.Handler
	Notification *notification.Handler
	Report       *report.Handler
	Dashboard    *dashboard.Handler
}

type Options struct {
	AllowedOrigins string
	OpenAPI        []byte
	Metrics        *metrics.Metrics
	MetricsPath    string
	Logger         *slog.Logger
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, rbac *auth.RBACAuthorization, health *HealthHandler, opts Options) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// Apply global middleware
	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.ClientInfo)
	router.Use(opts.Metrics.Middleware)

	if len(opts.OpenAPI) > 0 {
		router.Get(swagger.SpecPath, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/yaml")
			_, _ = w.Write(opts.OpenAPI)
		})
		router.Handle("/swagger/*", swagger.Handler())
	}

	if opts.Metrics != nil {
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		router.Handle(path, opts.Metrics.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", health.healthCheckHandler)
		r.Get("/ping", health.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.Post("/logout", h.Auth.Logout)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			viewer := pr.With(rbac.RequireViewer())
			operator := pr.With(rbac.RequireOperator())
			admin := pr.With(rbac.RequireAdmin())

			// Own profile
			pr.Get("/me", h.User.GetCurrentUser)
			pr.Patch("/me", h.User.UpdateCurrentUser)
			pr.Post("/me/senha", h.User.ChangePassword)

			viewer.Get("/dashboard", h.Dashboard.GetOverview)

			// Employees
			viewer.Get("/funcionarios", h.Employee.ListEmployees)
			viewer.Get("/funcionarios/cargos", h.Employee.ListCargos)
			viewer.Get("/funcionarios/{id}", h.Employee.GetEmployee)
			viewer.Get("/funcionarios/{id}/associacoes", h.Dues.EmployeeHistory)
			viewer.Get("/funcionarios/{id}/documentos", h.Document.ListEmployeeDocuments)
			operator.Get("/funcionarios/{id}/extrato", h.Report.Statement)
			operator.Post("/funcionarios", h.Employee.CreateEmployee)
			operator.Put("/funcionarios/{id}", h.Employee.UpdateEmployee)
			admin.Delete("/funcionarios/{id}", h.Employee.DeleteEmployee)

			// Dues records
			viewer.Get("/associacoes", h.Dues.ListDues)
			viewer.Get("/associacoes/existe", h.Dues.CheckExists)
			viewer.Get("/associacoes/{id}", h.Dues.GetDues)
			operator.Post("/associacoes", h.Dues.CreateDues)
			operator.Put("/associacoes/{id}", h.Dues.UpdateDues)
			operator.Post("/associacoes/{id}/pagar", h.Dues.MarkPaid)
			operator.Post("/associacoes/{id}/estornar", h.Dues.MarkUnpaid)
			operator.Post("/associacoes/gerar", h.Dues.Generate)
			operator.Post("/associacoes/gerar-periodo", h.Dues.GenerateRange)
			operator.Post("/associacoes/{id}/email", h.Notification.SendDuesEmail)
			operator.Get("/associacoes/{id}/recibo", h.Report.Receipt)
			operator.Get("/associacoes/{id}/comprovante", h.Report.Proof)
			admin.Delete("/associacoes/{id}", h.Dues.DeleteDues)

			// Documents
			viewer.Get("/documentos", h.Document.ListDocuments)
			viewer.Get("/documentos/{id}", h.Document.GetDocument)
			viewer.Get("/documentos/{id}/download", h.Document.DownloadDocument)
			operator.Post("/documentos", h.Document.UploadDocument)
			admin.Delete("/documentos/{id}", h.Document.DeleteDocument)

			// Email
			operator.Post("/comunicacoes/lote", h.Notification.SendBatch)
			operator.Post("/send-email", h.Notification.SendEmail)

			// Reports
			operator.Get("/relatorios/funcionarios", h.Report.EmployeesReport)
			operator.Get("/relatorios/{tipo}", h.Report.PeriodReport)

			// Settings: somente_admin rows are also enforced by the service
			viewer.Get("/configuracoes", h.Setting.GetSettings)
			viewer.Get("/configuracoes/{chave}", h.Setting.GetSetting)
			admin.Put("/configuracoes", h.Setting.UpdateSettings)
			admin.Put("/configuracoes/{chave}", h.Setting.UpdateSetting)

			// Audit trail
			admin.Get("/auditoria", h.Audit.ListLogs)
			admin.Get("/auditoria/filtros", h.Audit.GetFilters)

			// User management
			admin.Get("/usuarios", h.User.ListUsers)
			admin.Post("/usuarios", h.User.CreateUser)
			admin.Get("/usuarios/{id}", h.User.GetUser)
			admin.Put("/usuarios/{id}", h.User.UpdateUser)
			admin.Delete("/usuarios/{id}", h.User.DeleteUser)
		})
	})
}
