package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/transducer/internal/cli"
	"github.com/aretw0/transducer/internal/config"
	"github.com/aretw0/transducer/internal/logging"
	"github.com/aretw0/transducer/internal/presentation/tui"
	httpAdapter "github.com/aretw0/transducer/pkg/adapters/http"
	"github.com/aretw0/transducer/pkg/observability"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Exposes machines over a JSON API. Settings come from the environment
(FST_ADDR, FST_LOG_LEVEL, FST_METRICS, FST_LOCK_TTL, FST_REDIS_ADDR, FST_REDIS_PASSWORD,
FST_REDIS_DB, FST_REDIS_PREFIX); --addr overrides FST_ADDR. A table given with --file
or --dir is registered at startup.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			cfg.Addr, _ = cmd.Flags().GetString("addr")
		}
		level, _ := cfg.Level()
		if cmd.Flags().Changed("log-level") {
			raw, _ := cmd.Flags().GetString("log-level")
			if level, err = logging.ParseLevel(raw); err != nil {
				return err
			}
		}
		log := logging.New(level)

		src, err := source(cmd, nil)
		if err != nil {
			return err
		}

		var metrics *observability.Metrics
		if cfg.Metrics {
			metrics = observability.NewMetrics()
		}

		ctx := cmd.Context()
		mgr, closeFn, err := cli.NewManager(ctx, cfg, src, metrics, log)
		if err != nil {
			return err
		}
		defer func() {
			if err := closeFn(); err != nil {
				log.Warn("failed to close locker", "err", err)
			}
		}()

		handler := httpAdapter.NewHandler(mgr,
			httpAdapter.WithMetrics(metrics),
			httpAdapter.WithLogger(log),
		)
		srv := &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			tui.PrintBanner(cmd.ErrOrStderr())
			log.Info("server listening", "addr", srv.Addr, "machines", mgr.Names())
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case <-ctx.Done():
			log.Info("shutdown started")

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Warn("graceful shutdown did not complete", "err", err)
				return srv.Close()
			}
			log.Info("server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
}
