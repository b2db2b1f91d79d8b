package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpSrv "github.com/jmehdipour/points-claimer/internal/http"
	"github.com/jmehdipour/points-claimer/internal/metrics"
	"github.com/jmehdipour/points-claimer/internal/pipeline"
	"github.com/jmehdipour/points-claimer/internal/service/runs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run HTTP server with triggerable and scheduled runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := loadApp(ctx, pipeline.Options{})
		if err != nil {
			return err
		}
		defer a.Close()

		metrics.MustRegister(prometheus.DefaultRegisterer)

		svc := runs.New(ctx, a.runner, a.log.Named("runs"))
		server := httpSrv.NewServer(a.cfg.Server.APIKey, svc, prometheus.DefaultGatherer, a.log.Named("http"))
		if a.cfg.Server.APIKey == "" {
			a.log.Warn("server.api_key is empty: /v1 routes are disabled")
		}

		svc.StartSchedule(ctx, a.cfg.Server.Interval)

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Start(a.cfg.Server.Addr)
		}()

		var exitErr error
		select {
		case <-ctx.Done():
			a.log.Info("signal received, shutting down...")
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				exitErr = fmt.Errorf("http server exited: %w", err)
			}
		}
		// stop the schedule and in-flight runs before the deferred Close
		stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)

		svc.Wait()
		a.log.Info("server stopped", zap.String("addr", a.cfg.Server.Addr))
		return exitErr
	},
}
