package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/DeafMist/review-radar/backend/internal/config"
	"github.com/DeafMist/review-radar/backend/internal/events"
	"github.com/DeafMist/review-radar/backend/internal/logger"
	"github.com/DeafMist/review-radar/backend/internal/metrics"
	"github.com/DeafMist/review-radar/backend/internal/models"
	"github.com/DeafMist/review-radar/backend/internal/reviews"
	"github.com/DeafMist/review-radar/backend/internal/sentiment"
)

func main() {
	log := logger.New("api")
	if err := config.LoadDotEnv(); err != nil {
		log.Warn("load .env", slog.Any("err", err))
	}
	cfg, err := config.LoadAPI()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	seed, err := loadSeed(log, cfg)
	if err != nil {
		log.Error("load seed dataset", slog.Any("err", err))
		os.Exit(1)
	}
	store := reviews.NewStore(seed)

	var publisher events.Publisher = events.Nop{}
	if cfg.PublishEnabled() {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		log.Info("publishing review events", slog.String("topic", cfg.KafkaTopic))
	}
	defer publisher.Close()

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m = metrics.New(reg, store.Len)
	}

	srv := &server{
		log:            log,
		store:          store,
		scorer:         sentiment.NewAnalyzer(),
		publisher:      publisher,
		metrics:        m,
		clock:          clockwork.NewRealClock(),
		newID:          uuid.NewString,
		maxBodyBytes:   cfg.MaxBodyBytes,
		publishTimeout: cfg.PublishTimeout,
	}

	httpServer := &http.Server{
		Addr:              cfg.BindAddr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	go func() {
		log.Info("api server starting",
			slog.String("addr", cfg.BindAddr),
			slog.Int("seeded_reviews", store.Len()),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", slog.Any("err", err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", slog.Any("err", err))
	}
}

// loadSeed reads the startup dataset. A missing file at the default path
// starts the service empty; an explicitly configured path must exist.
func loadSeed(log *slog.Logger, cfg *config.API) ([]models.Review, error) {
	seed, err := reviews.LoadCSVFile(cfg.ReviewsCSV)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !cfg.ReviewsCSVSet {
			log.Warn("seed dataset not found, starting empty", slog.String("path", cfg.ReviewsCSV))
			return nil, nil
		}
		return nil, err
	}
	log.Info("seed dataset loaded", slog.String("path", cfg.ReviewsCSV), slog.Int("reviews", len(seed)))
	return seed, nil
}
