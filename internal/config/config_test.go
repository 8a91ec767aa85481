package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DeafMist/review-radar/backend/internal/config"
	"github.com/stretchr/testify/require"
)

func TestLoadAPIDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("API_BIND_ADDR", "")
	t.Setenv("REVIEWS_CSV", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("KAFKA_TOPIC", "")
	t.Setenv("METRICS_ENABLED", "")

	cfg, err := config.LoadAPI()
	require.NoError(t, err)

	require.Equal(t, ":8000", cfg.BindAddr)
	require.Equal(t, config.DefaultReviewsCSV, cfg.ReviewsCSV)
	require.False(t, cfg.ReviewsCSVSet)
	require.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
	require.True(t, cfg.MetricsEnabled)
	require.False(t, cfg.PublishEnabled())
	require.Equal(t, "reviews_created", cfg.KafkaTopic)
	require.Equal(t, 2*time.Second, cfg.PublishTimeout)
}

func TestLoadAPIOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("API_BIND_ADDR", "")
	t.Setenv("REVIEWS_CSV", "/tmp/seed.csv")
	t.Setenv("KAFKA_BROKERS", "broker-a:29092, broker-b:29093")
	t.Setenv("KAFKA_TOPIC", "custom_reviews")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("API_MAX_BODY_BYTES", "2048")

	cfg, err := config.LoadAPI()
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.BindAddr)
	require.Equal(t, "/tmp/seed.csv", cfg.ReviewsCSV)
	require.True(t, cfg.ReviewsCSVSet)
	require.Equal(t, []string{"broker-a:29092", "broker-b:29093"}, cfg.KafkaBrokers)
	require.Equal(t, "custom_reviews", cfg.KafkaTopic)
	require.True(t, cfg.PublishEnabled())
	require.False(t, cfg.MetricsEnabled)
	require.Equal(t, int64(2048), cfg.MaxBodyBytes)
}

func TestLoadAPIBindAddrWinsOverPort(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("API_BIND_ADDR", "127.0.0.1:7000")

	cfg, err := config.LoadAPI()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:7000", cfg.BindAddr)
}

func TestLoadAPIRejectsBadPort(t *testing.T) {
	t.Setenv("PORT", "eighty")

	_, err := config.LoadAPI()
	require.Error(t, err)
}

func TestLoadWorkerDefaults(t *testing.T) {
	t.Setenv("ELASTICSEARCH_ADDR", "")
	t.Setenv("ELASTICSEARCH_INDEX", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("KAFKA_TOPIC", "")
	t.Setenv("KAFKA_CONSUMER_GROUP", "")

	cfg, err := config.LoadWorker()
	require.NoError(t, err)

	require.Equal(t, "http://elasticsearch:9200", cfg.ElasticsearchAddr)
	require.Equal(t, "reviews", cfg.ElasticsearchIndex)
	require.Equal(t, []string{"kafka:9092"}, cfg.KafkaBrokers)
	require.Equal(t, "reviews_created", cfg.KafkaTopic)
	require.Equal(t, "review-indexer", cfg.KafkaConsumer)
}

func TestLoadWorkerOverrides(t *testing.T) {
	t.Setenv("ELASTICSEARCH_ADDR", "http://localhost:9999")
	t.Setenv("ELASTICSEARCH_INDEX", "custom")
	t.Setenv("KAFKA_BROKERS", "broker-a:29092,broker-b:29093")
	t.Setenv("KAFKA_TOPIC", "custom_topic")
	t.Setenv("KAFKA_CONSUMER_GROUP", "custom-group")
	t.Setenv("WORKER_DEDUPE_CAPACITY", "5")
	t.Setenv("WORKER_DEDUPE_TTL", "48h")
	t.Setenv("WORKER_BATCH_SIZE", "3")

	cfg, err := config.LoadWorker()
	require.NoError(t, err)

	require.Equal(t, "http://localhost:9999", cfg.ElasticsearchAddr)
	require.Equal(t, "custom", cfg.ElasticsearchIndex)
	require.Len(t, cfg.KafkaBrokers, 2)
	require.Equal(t, "custom_topic", cfg.KafkaTopic)
	require.Equal(t, "custom-group", cfg.KafkaConsumer)
	require.Equal(t, 5, cfg.DedupeCapacity)
	require.Equal(t, 48*time.Hour, cfg.DedupeTTL)
	require.Equal(t, 3, cfg.BatchSize)
}

func TestLoadRetention(t *testing.T) {
	t.Setenv("ELASTICSEARCH_ADDR", "http://ret-es:9200")
	t.Setenv("ELASTICSEARCH_INDEX", "ret-index")
	t.Setenv("RETENTION_CRON", "12h")
	t.Setenv("RETENTION_MAX_AGE", "36h")
	t.Setenv("RETENTION_BATCH_SIZE", "123")

	cfg, err := config.LoadRetention()
	require.NoError(t, err)

	require.Equal(t, 12*time.Hour, cfg.Interval)
	require.Equal(t, 36*time.Hour, cfg.MaxAge)
	require.Equal(t, 123, cfg.BatchSize)
	require.Equal(t, "http://ret-es:9200", cfg.ElasticsearchAddr)
	require.Equal(t, "ret-index", cfg.ElasticsearchIndex)
}

func TestLoadRetentionInvalidDurationFallsBack(t *testing.T) {
	t.Setenv("RETENTION_CRON", "soon")
	t.Setenv("RETENTION_MAX_AGE", "")
	t.Setenv("RETENTION_BATCH_SIZE", "")

	cfg, err := config.LoadRetention()
	require.NoError(t, err)
	require.Equal(t, 24*time.Hour, cfg.Interval)
	require.Equal(t, 720*time.Hour, cfg.MaxAge)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("REVIEW_RADAR_DOTENV_PROBE=from-file\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("REVIEW_RADAR_DOTENV_PROBE") })

	require.NoError(t, config.LoadDotEnv(filepath.Join(dir, "missing.env"), path))
	require.Equal(t, "from-file", os.Getenv("REVIEW_RADAR_DOTENV_PROBE"))
}
