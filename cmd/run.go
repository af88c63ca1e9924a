package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/adrockmkt/lead-scraper-maps/internal/api"
	"github.com/adrockmkt/lead-scraper-maps/internal/config"
	"github.com/adrockmkt/lead-scraper-maps/internal/crawler"
	"github.com/adrockmkt/lead-scraper-maps/internal/logging"
	"github.com/adrockmkt/lead-scraper-maps/internal/pipeline"
	"github.com/adrockmkt/lead-scraper-maps/internal/places"
	"github.com/adrockmkt/lead-scraper-maps/internal/scoring"
	"github.com/adrockmkt/lead-scraper-maps/internal/storage"
	"github.com/adrockmkt/lead-scraper-maps/internal/telemetry"
)

// newRunCmd creates the 'run' subcommand, which executes one full scraping
// run over every configured niche and locality.
func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Executes a full scraping run",
		Long: `Searches every configured niche across all Curitiba neighborhoods and
metro cities, then enriches, crawls, scores, persists and exports each new
lead. Re-running is safe: known places and already-crawled sites are skipped.`,
		RunE: runScrape,
	}
}

func runScrape(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	base, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() {
		// Sync on stderr commonly reports EINVAL; nothing actionable either way.
		_ = base.Sync()
	}()

	logger, runID := logging.ForRun(base)
	logger.Info("starting run")

	telemetry.Init()

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("open datastore: %w", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Warn("datastore close failed", zap.Error(cerr))
		}
	}()

	exporter, err := storage.NewExporter(cfg.Storage.OutputDir)
	if err != nil {
		return fmt.Errorf("init exporter: %w", err)
	}

	ctx := cmd.Context()

	if cfg.Metrics.Addr != "" {
		startMetricsServer(ctx, cfg.Metrics.Addr, store, logger)
	}

	p := pipeline.New(
		places.NewClient(cfg.Places, logger.Named("places")),
		crawler.New(cfg.Crawler, logger.Named("crawler")),
		scoring.New(),
		store,
		exporter,
		logger.Named("pipeline"),
	)

	summary, err := p.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("run %s: %w", runID, err)
	}

	logger.Info("run complete",
		zap.Int("processed", summary.Processed),
		zap.Int("qualified", summary.Qualified),
		zap.Int("no_email", summary.NoEmail),
		zap.Int("discarded", summary.Discarded),
		zap.Int("skipped_localities", summary.SkippedLocalities),
	)
	return nil
}

// startMetricsServer serves health probes and Prometheus metrics for the
// duration of the run. Shutdown is tied to the command context.
func startMetricsServer(ctx context.Context, addr string, store *storage.Store, logger *zap.Logger) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.NewServer(store.DB, logger.Named("api")).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("metrics server started", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("metrics server shutdown error", zap.Error(err))
		}
	}()
}
