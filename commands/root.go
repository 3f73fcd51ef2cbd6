package commands

import (
	"log/slog"

	"user-directory/app"
	"user-directory/config"
	"user-directory/config/setup"
	"user-directory/database"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the user-directory command tree
func NewRootCommand(cfg *config.Config, logger *slog.Logger) *cobra.Command {
	var dbPath string

	root := &cobra.Command{
		Use:           "user-directory",
		Short:         "Reconcile a remote user list with a local SQLite store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&dbPath, "db", cfg.DBPath, "path to the SQLite database")

	root.AddCommand(
		newServeCommand(cfg, &dbPath, logger),
		newListCommand(cfg, &dbPath, logger),
		newAddCommand(cfg, &dbPath, logger),
		newDeleteCommand(cfg, &dbPath, logger),
		newSyncCommand(cfg, &dbPath, logger),
	)

	return root
}

// Execute runs the root command
func Execute(cfg *config.Config, logger *slog.Logger) error {
	return NewRootCommand(cfg, logger).Execute()
}

// openApp opens the database at dbPath and wires the app. The returned func releases both.
func openApp(cfg *config.Config, dbPath string, logger *slog.Logger) (*app.App, func(), error) {
	db, err := setup.InitDatabase(dbPath, logger)
	if err != nil {
		return nil, nil, err
	}

	application, err := setup.InitApp(db, cfg, logger)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	return application, func() {
		application.Errors.Stop()
		closeDB(db, logger)
	}, nil
}

func closeDB(db *database.DB, logger *slog.Logger) {
	if err := db.Close(); err != nil {
		logger.Warn("failed to close database", "error", err)
	}
}
