package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DeafMist/review-radar/backend/internal/config"
	"github.com/DeafMist/review-radar/backend/internal/elasticsearch"
	"github.com/DeafMist/review-radar/backend/internal/logger"
)

type pruner interface {
	DeleteOlderThan(ctx context.Context, maxAge time.Duration, batchSize int) (int64, error)
}

func main() {
	log := logger.New("retention")
	if err := config.LoadDotEnv(); err != nil {
		log.Warn("load .env", slog.Any("err", err))
	}
	cfg, err := config.LoadRetention()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	esClient, err := elasticsearch.Connect(ctx, cfg.ElasticsearchAddr, cfg.ElasticsearchIndex, log, 10)
	if err != nil {
		if ctx.Err() != nil {
			log.Info("shutdown signal received during startup")
			return
		}
		log.Error("connect elasticsearch", slog.Any("err", err))
		os.Exit(1)
	}
	log.Info("connected to elasticsearch")

	log.Info("retention job running",
		slog.Duration("interval", cfg.Interval),
		slog.Duration("max_age", cfg.MaxAge),
		slog.String("index", cfg.ElasticsearchIndex),
	)
	run(ctx, log, esClient, cfg)
}

// run prunes immediately and then on every interval until ctx is done.
func run(ctx context.Context, log *slog.Logger, p pruner, cfg *config.Retention) {
	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	runOnce(ctx, log, p, cfg)
	for {
		select {
		case <-ctx.Done():
			log.Info("shutdown signal received")
			return
		case <-ticker.C:
			runOnce(ctx, log, p, cfg)
		}
	}
}

func runOnce(ctx context.Context, log *slog.Logger, p pruner, cfg *config.Retention) int64 {
	subCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	deleted, err := p.DeleteOlderThan(subCtx, cfg.MaxAge, cfg.BatchSize)
	if err != nil {
		log.Warn("retention run failed (will retry on next interval)", slog.Any("err", err))
		return 0
	}

	if deleted > 0 {
		log.Info("pruned indexed reviews", slog.Int64("deleted", deleted))
	} else {
		log.Debug("retention run completed, nothing to prune")
	}
	return deleted
}
