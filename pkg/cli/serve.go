package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/deskops-lab/ticketboard/pkg/cli/config"
	controller "github.com/deskops-lab/ticketboard/pkg/controller/http"
	"github.com/deskops-lab/ticketboard/pkg/usecase"
)

func cmdServe() *cli.Command {
	var (
		serverCfg    config.Server
		firestoreCfg config.Firestore
		datasetCfg   config.Dataset
		boardCfg     config.Board
	)

	flags := joinFlags(
		serverCfg.Flags(),
		firestoreCfg.Flags(),
		datasetCfg.Flags(),
		boardCfg.Flags(),
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Start the board HTTP server",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting ticketboard server",
				slog.String("addr", serverCfg.Addr),
				slog.Any("firestore", firestoreCfg),
				slog.Any("dataset", datasetCfg),
				slog.Any("board", boardCfg),
			)

			// Create repository using config
			repo, err := firestoreCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			cfg, err := boardCfg.Configure(c)
			if err != nil {
				return err
			}

			board := usecase.NewBoard(repo, cfg)

			// Seed the snapshot from the dataset and keep a reload hook for
			// the API. Without a dataset the repository contents stand as-is.
			var reload controller.ReloadFunc
			if datasetCfg.IsConfigured() {
				reload = func(ctx context.Context) error {
					records, skipped, err := datasetCfg.Load(ctx)
					if err != nil {
						return err
					}
					if skipped > 0 {
						ctxlog.From(ctx).Warn("Skipped malformed dataset rows",
							slog.Int("skipped", skipped),
							slog.String("path", datasetCfg.Path()),
						)
					}
					return board.Reload(ctx, records)
				}

				if err := reload(ctx); err != nil {
					return goerr.Wrap(err, "failed to load initial dataset")
				}
			}

			// Create HTTP server
			server, err := controller.NewServer(ctx, serverCfg.Addr, board, reload)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			// Start server in goroutine
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			// Graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
