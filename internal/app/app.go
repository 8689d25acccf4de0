package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/macrolog/macrolog/internal/alert"
	"github.com/macrolog/macrolog/internal/backup"
	"github.com/macrolog/macrolog/internal/config"
	"github.com/macrolog/macrolog/internal/db"
	"github.com/macrolog/macrolog/internal/service"
	"github.com/macrolog/macrolog/internal/storage"
	"github.com/macrolog/macrolog/internal/store"
	"github.com/macrolog/macrolog/internal/store/memory"
	"github.com/macrolog/macrolog/internal/store/scriptdb"
	"github.com/macrolog/macrolog/internal/store/sqldb"
	daysync "github.com/macrolog/macrolog/internal/sync"
)

type App struct {
	Cfg   *config.Config
	DB    *sqlx.DB
	Store store.Store

	Alerts         *alert.Center
	LogService     *service.LogService
	CatalogService *service.CatalogService
	GoalsService   *service.GoalsService
	HistoryService *service.HistoryService
	BackupService  *backup.Service

	dispatcher *daysync.Dispatcher
}

func New(cfg *config.Config) (*App, error) {
	a := &App{Cfg: cfg, Alerts: alert.NewCenter()}

	// Storage backend
	switch cfg.StoreBackend {
	case "sql":
		database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		err = db.RunMigrations(database.DB, cfg.DBDriver)
		if err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		a.DB = database
		a.Store = sqldb.New(database)
	case "script":
		a.Store = scriptdb.New(cfg.ScriptURL, cfg.ScriptToken)
	case "memory":
		a.Store = memory.New()
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	loc := cfg.Location()

	// Services
	a.CatalogService = service.NewCatalogService(a.Store)
	a.GoalsService = service.NewGoalsService(a.Store)
	a.HistoryService = service.NewHistoryService(a.Store, loc)

	a.dispatcher = daysync.NewDispatcher(a.Store, cfg.DebounceWindow, a.Alerts)
	loader := daysync.NewLoader(a.Store)
	a.LogService = service.NewLogService(a.CatalogService, a.GoalsService, a.dispatcher, loader, loc, a.Alerts)

	// Startup loads are best-effort; the app works against defaults
	// and re-syncs on the next mutation.
	ctx := context.Background()
	if err := a.CatalogService.Load(ctx); err != nil {
		slog.Warn("starting with empty catalog", "error", err)
	}
	if err := a.GoalsService.Load(ctx); err != nil {
		slog.Warn("starting with default goals", "error", err)
	}

	// Optional backup target
	if cfg.BackupEnabled() {
		target, err := storage.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize backup storage: %w", err)
		}
		a.BackupService = backup.New(a.Store, a.HistoryService, target, loc)
	}

	return a, nil
}

// Close drains in-flight syncs, then releases the database.
func (a *App) Close() error {
	if a.dispatcher != nil {
		a.dispatcher.Wait()
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
