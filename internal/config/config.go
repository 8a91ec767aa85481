package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultReviewsCSV is where the API looks for its seed dataset when REVIEWS_CSV is unset.
const DefaultReviewsCSV = "data/reviews.csv"

// Common contains Elasticsearch parameters shared by the worker and the retention job.
type Common struct {
	ElasticsearchAddr  string
	ElasticsearchIndex string
}

// Kafka describes where review events are published and consumed.
type Kafka struct {
	KafkaBrokers []string
	KafkaTopic   string
}

// API describes HTTP-layer configuration.
type API struct {
	Kafka
	BindAddr       string
	ReviewsCSV     string
	ReviewsCSVSet  bool
	MaxBodyBytes   int64
	MetricsEnabled bool
	PublishTimeout time.Duration
}

// PublishEnabled reports whether review events should be sent to Kafka.
func (c *API) PublishEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Worker holds configuration for the Kafka -> Elasticsearch indexer.
type Worker struct {
	Common
	Kafka
	KafkaConsumer  string
	DedupeCapacity int
	DedupeTTL      time.Duration
	BatchSize      int
}

// Retention configures the cleanup loop.
type Retention struct {
	Common
	Interval  time.Duration
	MaxAge    time.Duration
	BatchSize int
}

// LoadDotEnv reads .env files into the process environment. Variables that
// are already set win, and missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// LoadAPI builds an API config from environment variables.
func LoadAPI() (*API, error) {
	port := getEnv("PORT", "8000")
	if n, err := strconv.Atoi(port); err != nil || n <= 0 || n > 65535 {
		return nil, fmt.Errorf("PORT must be a valid TCP port, got %q", port)
	}

	csvPath, csvSet := os.LookupEnv("REVIEWS_CSV")
	csvSet = csvSet && csvPath != ""
	if !csvSet {
		csvPath = DefaultReviewsCSV
	}

	c := &API{
		Kafka: Kafka{
			KafkaBrokers: splitAndTrim(getEnv("KAFKA_BROKERS", "")),
			KafkaTopic:   getEnv("KAFKA_TOPIC", "reviews_created"),
		},
		BindAddr:       getEnv("API_BIND_ADDR", ":"+port),
		ReviewsCSV:     csvPath,
		ReviewsCSVSet:  csvSet,
		MaxBodyBytes:   int64(getInt("API_MAX_BODY_BYTES", 1<<20)),
		MetricsEnabled: getBool("METRICS_ENABLED", true),
		PublishTimeout: getDuration("KAFKA_PUBLISH_TIMEOUT", "2s"),
	}

	if c.MaxBodyBytes <= 0 {
		return nil, fmt.Errorf("API_MAX_BODY_BYTES must be positive")
	}
	if c.PublishEnabled() && c.KafkaTopic == "" {
		return nil, fmt.Errorf("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}

	return c, nil
}

// LoadWorker builds a Worker config from environment variables.
func LoadWorker() (*Worker, error) {
	c := &Worker{
		Common: loadCommon(),
		Kafka: Kafka{
			KafkaBrokers: splitAndTrim(getEnv("KAFKA_BROKERS", "kafka:9092")),
			KafkaTopic:   getEnv("KAFKA_TOPIC", "reviews_created"),
		},
		KafkaConsumer:  getEnv("KAFKA_CONSUMER_GROUP", "review-indexer"),
		DedupeCapacity: getInt("WORKER_DEDUPE_CAPACITY", 20000),
		DedupeTTL:      getDuration("WORKER_DEDUPE_TTL", "24h"),
		BatchSize:      getInt("WORKER_BATCH_SIZE", 10),
	}

	if len(c.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("KAFKA_BROKERS must contain at least one broker")
	}
	if c.BatchSize <= 0 {
		return nil, fmt.Errorf("WORKER_BATCH_SIZE must be positive")
	}
	if c.DedupeCapacity <= 0 {
		return nil, fmt.Errorf("WORKER_DEDUPE_CAPACITY must be positive")
	}

	return c, nil
}

// LoadRetention builds a Retention config from environment variables.
func LoadRetention() (*Retention, error) {
	c := &Retention{
		Common:    loadCommon(),
		Interval:  getDuration("RETENTION_CRON", "24h"),
		MaxAge:    getDuration("RETENTION_MAX_AGE", "720h"),
		BatchSize: getInt("RETENTION_BATCH_SIZE", 500),
	}

	if c.MaxAge <= 0 {
		return nil, fmt.Errorf("RETENTION_MAX_AGE must be positive")
	}
	if c.Interval <= 0 {
		return nil, fmt.Errorf("RETENTION_CRON must be positive")
	}
	if c.BatchSize <= 0 {
		return nil, fmt.Errorf("RETENTION_BATCH_SIZE must be positive")
	}

	return c, nil
}

func loadCommon() Common {
	return Common{
		ElasticsearchAddr:  getEnv("ELASTICSEARCH_ADDR", "http://elasticsearch:9200"),
		ElasticsearchIndex: getEnv("ELASTICSEARCH_INDEX", "reviews"),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key, fallback string) time.Duration {
	if d, err := time.ParseDuration(getEnv(key, fallback)); err == nil {
		return d
	}
	fd, err := time.ParseDuration(fallback)
	if err != nil {
		panic(fmt.Sprintf("invalid fallback duration %q: %v", fallback, err))
	}
	return fd
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
