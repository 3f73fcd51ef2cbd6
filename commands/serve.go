package commands

import (
	"context"
	"errors"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"user-directory/config"
	"user-directory/config/setup"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCommand(cfg *config.Config, dbPath *string, logger *slog.Logger) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API with background sync",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := setup.InitDatabase(*dbPath, logger)
			if err != nil {
				return err
			}

			application, err := setup.InitApp(db, cfg, logger)
			if err != nil {
				db.Close()
				return err
			}
			defer setup.Shutdown(application, db, logger)

			setup.StartBackground(application, logger)
			fiberApp := setup.NewServer(application, cfg, logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			g, ctx := errgroup.WithContext(ctx)

			g.Go(func() error {
				logger.Info("starting server", "port", port, "env", cfg.Env)
				return fiberApp.Listen(":" + port)
			})

			g.Go(func() error {
				<-ctx.Done()
				logger.Info("shutting down server gracefully")

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := fiberApp.ShutdownWithContext(shutdownCtx); err != nil {
					logger.Error("server forced to shutdown", "error", err)
					return err
				}
				logger.Info("server stopped")
				return nil
			})

			if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&port, "port", cfg.Port, "port to listen on")
	return cmd
}
