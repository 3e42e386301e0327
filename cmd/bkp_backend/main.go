package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bookkeeping_app/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_app/internal/core/services"
	"github.com/SscSPs/bookkeeping_app/internal/handlers"
	"github.com/SscSPs/bookkeeping_app/internal/middleware"
	"github.com/SscSPs/bookkeeping_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/bookkeeping_app/internal/repositories/memory"
	"github.com/SscSPs/bookkeeping_app/internal/repositories/snapshot"
	"github.com/SscSPs/bookkeeping_app/pkg/config"
	"github.com/SscSPs/bookkeeping_app/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	limitermem "github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// The ledger itself is an in-memory arena; the configured store only
	// carries snapshots across restarts.
	snapshotStore := buildSnapshotStore(cfg, logger)

	ledger := memory.NewLedger()
	locks := services.NewAccountLockManager()

	balanceService := services.NewBalanceService(ledger, ledger)
	container := &portssvc.ServiceContainer{
		Account:        services.NewAccountService(ledger, balanceService),
		Transaction:    services.NewTransactionService(ledger, ledger, locks),
		Journal:        services.NewJournalService(ledger, ledger, ledger, locks),
		Balance:        balanceService,
		Reconciliation: services.NewReconciliationService(ledger, ledger, ledger, balanceService, locks),
		Snapshot:       services.NewSnapshotService(ledger, snapshotStore),
	}

	// Rehydrate from the latest snapshot; a fresh install has none.
	if _, err := container.Snapshot.RestoreLatest(context.Background()); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Info("No ledger snapshot found; starting empty")
		} else {
			logger.Error("Failed to restore ledger snapshot", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	// Restored in-progress sessions must hold their account sections again
	// before any request can race them.
	if err := container.Reconciliation.ResumeSessions(context.Background()); err != nil {
		logger.Error("Failed to resume reconciliation sessions", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "X-Company-ID", "X-Actor")
	r.Use(cors.New(corsConfig))

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid rate limit format", slog.String("rate", cfg.RateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}
	r.Use(middleware.RateLimit(limiter.New(limitermem.NewStore(), rate)))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, container)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", slog.String("error", err.Error()))
	}

	if cfg.SnapshotOnShutdown {
		meta, err := container.Snapshot.Persist(shutdownCtx)
		if err != nil {
			logger.Error("Failed to persist ledger snapshot on shutdown", slog.String("error", err.Error()))
		} else {
			logger.Info("Ledger snapshot persisted",
				slog.String("storage", meta.Storage),
				slog.Time("taken_at", meta.Timestamp),
			)
		}
	}

	logger.Info("Server stopped")
}

// buildSnapshotStore picks the snapshot medium: PostgreSQL when a database
// URL is configured (running migrations first), a local JSON file otherwise.
func buildSnapshotStore(cfg *config.Config, logger *slog.Logger) portsrepo.SnapshotStore {
	if cfg.DatabaseURL == "" {
		logger.Info("Using file snapshot store", slog.String("path", cfg.SnapshotPath))
		return snapshot.NewFileStore(cfg.SnapshotPath)
	}

	pool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Using PostgreSQL snapshot store")
	return pgsql.NewSnapshotRepository(pool)
}

// runMigrations applies pending schema migrations over a short-lived
// database/sql connection, compatible with the pgx pool used at runtime.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
