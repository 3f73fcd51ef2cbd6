package app

import (
	"log/slog"

	"user-directory/database"
	"user-directory/netmon"
	"user-directory/services"
	"user-directory/sync"
)

// App holds all application dependencies
type App struct {
	Repo        *database.Repository
	UserService *services.UserService
	Monitor     *netmon.Monitor
	SyncWorker  *sync.Worker
	Errors      *ErrorLog
	Logger      *slog.Logger
}

// New creates a new App instance with all dependencies
func New(repo *database.Repository, userService *services.UserService, monitor *netmon.Monitor, syncWorker *sync.Worker, errorLog *ErrorLog, logger *slog.Logger) *App {
	return &App{
		Repo:        repo,
		UserService: userService,
		Monitor:     monitor,
		SyncWorker:  syncWorker,
		Errors:      errorLog,
		Logger:      logger,
	}
}
