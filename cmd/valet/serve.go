package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/valet"
	"github.com/aretw0/valet/pkg/adapters/httpapi"
	"github.com/aretw0/valet/pkg/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Starts the valet assistant in server mode, exposing a JSON API over HTTP.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}
		if cmd.Flags().Changed("addr") {
			cfg.HTTP.Addr, _ = cmd.Flags().GetString("addr")
		}

		logger := newLogger(cmd, cfg)

		var extra []valet.Option
		var metrics *observability.Metrics
		if cfg.Metrics.Enabled {
			metrics = observability.NewMetrics(nil)
			extra = append(extra, valet.WithHooks(metrics.Hooks()))
		}

		assistant, cleanup, err := openAssistant(cmd.Context(), cfg, logger, extra...)
		if err != nil {
			fmt.Printf("Error initializing valet: %v\n", err)
			os.Exit(1)
		}
		defer cleanup()

		handlerOpts := []httpapi.Option{
			httpapi.WithLogger(logger),
			httpapi.WithDefaultSession(cfg.Session.DefaultID),
		}
		if metrics != nil {
			handlerOpts = append(handlerOpts, httpapi.WithMetrics(metrics.Handler()))
		}
		handler := httpapi.NewHandler(assistant, handlerOpts...)

		srv := &http.Server{
			Addr:    cfg.HTTP.Addr,
			Handler: handler,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			logger.Info("Starting valet server", "addr", srv.Addr, "backend", cfg.Session.Backend)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			// Error when starting HTTP server.
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			logger.Info("Start shutdown", "signal", sig.String())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			// Asking listener to shut down and shed load.
			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("Graceful shutdown did not complete", "timeout", 5*time.Second, "error", err)
				if err := srv.Close(); err != nil {
					logger.Error("Error killing server", "error", err)
				}
			}
			logger.Info("Valet server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", ":8080", "Address to listen on")
}
