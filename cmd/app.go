package cmd

import (
	"context"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/association-management/internal"
	"github.com/frahmantamala/association-management/internal/audit"
	auditPostgres "github.com/frahmantamala/association-management/internal/audit/postgres"
	"github.com/frahmantamala/association-management/internal/core/events"
	"github.com/frahmantamala/association-management/internal/dues"
	duesPostgres "github.com/frahmantamala/association-management/internal/dues/postgres"
	"github.com/frahmantamala/association-management/internal/employee"
	employeePostgres "github.com/frahmantamala/association-management/internal/employee/postgres"
	"github.com/frahmantamala/association-management/internal/setting"
	settingPostgres "github.com/frahmantamala/association-management/internal/setting/postgres"
	"github.com/frahmantamala/association-management/pkg/logger"
	"github.com/frahmantamala/association-management/pkg/metrics"
)

// application holds what every command needs: both database handles, the
// event bus and the services that only depend on the database.
type application struct {
	Config  *internal.Config
	SQL     *sqlx.DB
	Gorm    *gorm.DB
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	Bus     *events.EventBus

	Audit     *audit.Service
	Settings  *setting.Service
	Employees *employee.Service
	Dues      *dues.Service
}

func newApplication(cfg *internal.Config) (*application, error) {
	lg := logger.LoggerWrapper()

	sqlDB, gormDB, err := initDB(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	var m *metrics.Metrics
	if cfg.Observability.Metrics.Enabled {
		m = metrics.New()
	}

	bus := events.NewEventBus(lg)
	auditService := audit.NewService(auditPostgres.NewAuditRepository(gormDB), lg)
	settingService := setting.NewService(settingPostgres.NewSettingRepository(gormDB), auditService, lg)
	employeeService := employee.NewService(employeePostgres.NewEmployeeRepository(gormDB), auditService, lg)
	duesService := dues.NewService(duesPostgres.NewDuesRepository(gormDB), auditService, settingService, bus, m, lg)

	return &application{
		Config:    cfg,
		SQL:       sqlDB,
		Gorm:      gormDB,
		Logger:    lg,
		Metrics:   m,
		Bus:       bus,
		Audit:     auditService,
		Settings:  settingService,
		Employees: employeeService,
		Dues:      duesService,
	}, nil
}

// Close drains pending event handlers before closing the pool.
func (a *application) Close() {
	a.Bus.Wait()
	if err := a.SQL.Close(); err != nil {
		a.Logger.Error("database close error", "error", err)
	}
}

// initDB opens one pgx pool and shares it between sqlx (aggregates, health)
// and gorm (repositories).
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, *gorm.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.PingContext(context.Background()); err != nil {
		_ = dbConn.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: dbConn.DB}), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Warn),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		_ = dbConn.Close()
		return nil, nil, fmt.Errorf("failed to open gorm session: %w", err)
	}

	return dbConn, gormDB, nil
}
