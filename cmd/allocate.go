package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/kilianp07/parkalloc/app"
	"github.com/kilianp07/parkalloc/config"
	"github.com/kilianp07/parkalloc/infra/logger"
	"github.com/kilianp07/parkalloc/infra/metrics"
)

var serveMetrics bool

var allocateCmd = &cobra.Command{
	Use:   "allocate",
	Short: "Compute one allocation for the configured facilities",
	RunE:  runAllocate,
}

func init() {
	allocateCmd.Flags().BoolVar(&serveMetrics, "serve-metrics", false, "keep serving metrics.prometheus_addr after the run until interrupted")
	rootCmd.AddCommand(allocateCmd)
}

func runAllocate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if format != "" {
		cfg.Report.Format = format
		if err := cfg.Report.Validate(); err != nil {
			return err
		}
	}

	var w io.Writer = cmd.OutOrStdout()
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("open output: %w", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				logger.New("main").Errorf("close output: %v", err)
			}
		}()
		w = f
	}

	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()

	if _, err := svc.Run(ctx, w); err != nil {
		return err
	}
	if serveMetrics && cfg.Metrics.PrometheusAddr != "" {
		logger.New("main").Infof("serving metrics on %s", cfg.Metrics.PrometheusAddr)
		return metrics.StartPromServer(ctx, cfg.Metrics.PrometheusAddr, prometheus.DefaultGatherer)
	}
	return nil
}
