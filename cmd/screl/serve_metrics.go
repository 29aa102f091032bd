package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/srlab/scheme-reliability/pkg/emergency"
	"github.com/srlab/scheme-reliability/pkg/reporting"
	"github.com/srlab/scheme-reliability/pkg/schemeio"
	"github.com/srlab/scheme-reliability/pkg/telemetry"
)

var serveMetricsCmd = &cobra.Command{
	Use:   "serve-metrics",
	Args:  cobra.NoArgs,
	Short: "Compute a scheme's reliability and serve it as Prometheus metrics",
	Long: `Loads and computes a scheme document's reliability once, then serves the
result on /metrics until interrupted (SIGINT/SIGTERM).`,
	RunE: runServeMetrics,
}

func init() {
	serveMetricsCmd.Flags().String("scheme", "", "path to scheme YAML document")
	serveMetricsCmd.Flags().String("addr", "", "listen address override (default from config)")
}

func runServeMetrics(cmd *cobra.Command, args []string) error {
	schemePath, _ := cmd.Flags().GetString("scheme")
	if schemePath == "" {
		return fmt.Errorf("--scheme flag is required")
	}
	addrOverride, _ := cmd.Flags().GetString("addr")

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	listenAddr := cfg.Telemetry.ListenAddr
	if addrOverride != "" {
		listenAddr = addrOverride
	}

	logger := newLogger(cfg, verbose)

	doc, err := schemeio.NewParser().ParseFile(schemePath)
	if err != nil {
		return fmt.Errorf("failed to parse scheme document: %w", err)
	}

	v := schemeio.NewValidator()
	if err := v.Validate(doc); err != nil {
		fmt.Fprint(os.Stderr, v.GetReport())
		return fmt.Errorf("scheme document validation failed: %w", err)
	}

	s, err := schemeio.Compile(doc)
	if err != nil {
		return fmt.Errorf("failed to compile scheme: %w", err)
	}

	summary, err := computeReliability(s, cfg.Execution.Shards)
	if err != nil {
		return fmt.Errorf("reliability computation failed: %w", err)
	}

	exporter := telemetry.NewExporter()
	if err := exporter.Observe(summary, s.ElementNames()); err != nil {
		return fmt.Errorf("failed to export reliability metrics: %w", err)
	}

	logger.Info().Str("addr", listenAddr).Float64("sp", summary.SP).Float64("sq", summary.SQ).Msg("reliability computed, serving metrics")

	mux := http.NewServeMux()
	mux.Handle("/metrics", exporter.Handler())
	server := &http.Server{
		Addr:              listenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 3 * time.Second,
	}

	shutdown := emergency.New()
	shutdown.OnStop(func() {
		logger.Info().Msg("shutting down metrics server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Warn().Err(err).Msg("error during metrics server shutdown")
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	shutdown.Start(ctx)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("metrics server error: %w", err)
	}

	logger.Info().Msg("metrics server stopped")
	return nil
}
