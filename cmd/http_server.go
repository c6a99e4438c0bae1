package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"

	"github.com/frahmantamala/association-management/api"
	"github.com/frahmantamala/association-management/internal"
	"github.com/frahmantamala/association-management/internal/audit"
	"github.com/frahmantamala/association-management/internal/auth"
	authPostgres "github.com/frahmantamala/association-management/internal/auth/postgres"
	"github.com/frahmantamala/association-management/internal/dashboard"
	dashboardPostgres "github.com/frahmantamala/association-management/internal/dashboard/postgres"
	"github.com/frahmantamala/association-management/internal/document"
	documentPostgres "github.com/frahmantamala/association-management/internal/document/postgres"
	"github.com/frahmantamala/association-management/internal/dues"
	"github.com/frahmantamala/association-management/internal/employee"
	"github.com/frahmantamala/association-management/internal/notification"
	"github.com/frahmantamala/association-management/internal/report"
	"github.com/frahmantamala/association-management/internal/setting"
	"github.com/frahmantamala/association-management/internal/storage"
	"github.com/frahmantamala/association-management/internal/transport/rest"
	"github.com/frahmantamala/association-management/internal/user"
	userPostgres "github.com/frahmantamala/association-management/internal/user/postgres"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	App      *application
	Router   *chi.Mux
	Handlers rest.Handlers
	RBAC     *auth.RBACAuthorization
	Health   *rest.HealthHandler
}

func startHTTPServer() {
	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	deps, err := initializeDependencies(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		deps.App.Close()
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) {
	cfg := deps.App.Config
	metricsPath := ""
	if cfg.Observability.Metrics.Enabled {
		metricsPath = cfg.Observability.Metrics.Path
	}

	rest.RegisterAllRoutes(deps.Router, deps.Handlers, deps.RBAC, deps.Health, rest.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		OpenAPI:        api.OpenAPI,
		Metrics:        deps.App.Metrics,
		MetricsPath:    metricsPath,
		Logger:         deps.App.Logger,
	})
}

func initializeDependencies(cfg *internal.Config) (*Dependencies, error) {
	app, err := newApplication(cfg)
	if err != nil {
		return nil, err
	}
	lg := app.Logger

	store, err := storage.NewS3Storage(cfg.Storage, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.EnsureBucket(ctx); err != nil {
		lg.Warn("storage bucket not ready; uploads will fail until it is reachable", "error", err)
	}

	provider, err := notification.NewProvider(cfg.Mail, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize mail provider: %w", err)
	}

	documentService := document.NewService(documentPostgres.NewDocumentRepository(app.Gorm), store, app.Audit, cfg.Server.MaxUploadBytes(), lg)
	notificationService := notification.NewService(app.Dues, app.Settings, provider, app.Audit, app.Metrics, notification.Config{
		BatchDelay: cfg.Mail.BatchDelay,
	}, lg)
	reportService := report.NewService(app.Employees, app.Dues, app.Settings, app.Audit, app.Metrics, lg)
	dashboardService := dashboard.NewService(dashboardPostgres.NewDashboardRepository(app.SQL), lg)

	// payment confirmations are sent from the event bus
	notification.NewEventHandler(notificationService, lg).RegisterEventHandlers(app.Bus)

	tokenGen := auth.NewJWTTokenGenerator(
		cfg.Security.AccessTokenSecret,
		cfg.Security.RefreshTokenSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authPostgres.NewRepository(app.Gorm), tokenGen, lg)
	permissions := auth.NewPermissionChecker()
	userService := user.NewService(userPostgres.NewUserRepository(app.Gorm), permissions, app.Audit, cfg.Security.BCryptCost, lg)

	health := rest.NewHealthHandler(map[string]rest.CheckFunc{
		"postgres": app.SQL.PingContext,
		"storage":  store.Ping,
	})

	return &Dependencies{
		App:    app,
		Router: chi.NewRouter(),
		Handlers: rest.Handlers{
			Auth:         auth.NewHandler(authService),
			User:         user.NewHandler(userService),
			Employee:     employee.NewHandler(app.Employees),
			Dues:         dues.NewHandler(app.Dues),
			Document:     document.NewHandler(documentService),
			Setting:      setting.NewHandler(app.Settings),
			Audit:        audit.NewHandler(app.Audit),
			Notification: notification.NewHandler(notificationService),
			Report:       report.NewHandler(reportService),
			Dashboard:    dashboard.NewHandler(dashboardService),
		},
		RBAC:   auth.NewRBACAuthorization(permissions, lg),
		Health: health,
	}, nil
}
