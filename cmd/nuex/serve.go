package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/nuex"
	"github.com/aretw0/nuex/internal/demo"
	inspector "github.com/aretw0/nuex/pkg/adapters/http"
	"github.com/aretw0/nuex/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the inspector HTTP server",
	Long: `Builds the demo store and serves its state, module tree, journal, live commit stream
(Server-Sent Events) and Prometheus metrics over HTTP.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		script, _ := cmd.Flags().GetBool("script")

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics, err := observability.NewMetrics(reg)
		if err != nil {
			return err
		}

		s, err := openSession(cmd, nuex.WithLifecycleHooks(metrics.Hooks()))
		if err != nil {
			return err
		}
		defer s.Close()

		handler := inspector.NewHandler(s.store,
			inspector.WithJournal(s.journal),
			inspector.WithGatherer(reg),
			inspector.WithLogger(s.logger),
		)
		defer handler.Close()

		addr := s.cfg.HTTP.Addr
		if port, _ := cmd.Flags().GetString("port"); port != "" {
			addr = ":" + port
		}
		srv := &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			s.logger.Info("Starting nuex inspector", "addr", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		if script {
			go func() {
				if err := demo.Script(context.Background(), s.store); err != nil {
					s.logger.Error("Demo script failed", "error", err)
				}
			}()
		}

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			s.logger.Info("Start shutdown", "signal", sig.String())

			// Give outstanding requests a deadline for completion. Event streams end when the
			// handler closes them, so close it first.
			handler.Close()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				s.logger.Warn("Graceful shutdown did not complete", "timeout", 5*time.Second, "error", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			s.logger.Info("nuex inspector stopped gracefully")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (overrides http.addr)")
	serveCmd.Flags().Bool("script", false, "Run the demo script once the server is up")
	serveCmd.Flags().Duration("delay", 0, "Wait of the async counter actions")
}
