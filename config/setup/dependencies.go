package setup

import (
	"context"
	"log/slog"

	"user-directory/app"
	"user-directory/config"
	"user-directory/database"
	"user-directory/events"
	"user-directory/netmon"
	"user-directory/remote"
	"user-directory/services"
	"user-directory/sync"

	"golang.org/x/text/language"
)

// InitDatabase initializes the SQLite database and runs migrations
func InitDatabase(dbPath string, logger *slog.Logger) (*database.DB, error) {
	db, err := database.New(dbPath)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("database initialized", "path", dbPath)
	return db, nil
}

// InitApp wires the application without starting background work
func InitApp(db *database.DB, cfg *config.Config, logger *slog.Logger) (*app.App, error) {
	errs := events.NewSubject[error]()

	repo := database.NewRepository(db, errs, logger)
	client := remote.NewClient(cfg.UsersURL, cfg.FetchTimeout)

	locale, err := language.Parse(cfg.Locale)
	if err != nil {
		logger.Warn("invalid locale, using default", "locale", cfg.Locale, "error", err)
		locale = language.English
	}

	userService := services.NewUserService(repo, client, errs, locale, logger)

	probe, err := netmon.DialProber(cfg.UsersURL, cfg.FetchTimeout)
	if err != nil {
		return nil, err
	}
	monitor := netmon.NewMonitor(probe, cfg.ProbeInterval, logger)

	syncWorker := sync.NewWorker(userService, monitor, cfg.SyncInterval, cfg.SyncMaxInterval, logger)

	errorLog := app.NewErrorLog(50)
	errorLog.Follow(errs.Subscribe())

	userService.ReloadLocal(context.Background())

	application := app.New(repo, userService, monitor, syncWorker, errorLog, logger)
	logger.Info("application initialized", "users_url", cfg.UsersURL, "locale", locale.String())

	return application, nil
}

// StartBackground starts connectivity probing and the sync worker
func StartBackground(a *app.App, logger *slog.Logger) {
	a.Monitor.Start()
	logger.Info("network monitor started")

	a.SyncWorker.Start()
	logger.Info("sync worker started")
}

// Shutdown performs graceful shutdown of all services
func Shutdown(a *app.App, db *database.DB, logger *slog.Logger) {
	logger.Info("shutting down services...")

	if a != nil {
		a.SyncWorker.Stop()
		logger.Info("sync worker stopped")

		a.Monitor.Stop()
		logger.Info("network monitor stopped")

		a.Errors.Stop()
		logger.Info("error log stopped")
	}

	if db != nil {
		db.Close()
		logger.Info("database closed")
	}
}
