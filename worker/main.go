package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/DeafMist/review-radar/backend/internal/config"
	"github.com/DeafMist/review-radar/backend/internal/dedupe"
	"github.com/DeafMist/review-radar/backend/internal/elasticsearch"
	"github.com/DeafMist/review-radar/backend/internal/events"
	"github.com/DeafMist/review-radar/backend/internal/logger"
	"github.com/DeafMist/review-radar/backend/internal/models"
	"github.com/DeafMist/review-radar/backend/internal/processing"
)

const (
	keywordLimit     = 8
	keywordMinLength = 4
	summaryWords     = 12
)

type reviewIndexer interface {
	IndexReview(ctx context.Context, doc models.ReviewDocument) error
}

func main() {
	log := logger.New("worker")
	if err := config.LoadDotEnv(); err != nil {
		log.Warn("load .env", slog.Any("err", err))
	}
	cfg, err := config.LoadWorker()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	esClient, err := elasticsearch.Connect(ctx, cfg.ElasticsearchAddr, cfg.ElasticsearchIndex, log, 10)
	if err != nil {
		log.Error("connect elasticsearch", slog.Any("err", err))
		os.Exit(1)
	}
	if err := esClient.EnsureIndex(ctx); err != nil {
		log.Error("ensure index", slog.Any("err", err))
		os.Exit(1)
	}

	cache := dedupe.NewCache(cfg.DedupeCapacity, cfg.DedupeTTL, nil)

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.KafkaBrokers,
		Topic:          cfg.KafkaTopic,
		GroupID:        cfg.KafkaConsumer,
		QueueCapacity:  cfg.BatchSize,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0, // manual commits only
	})
	defer reader.Close()

	dlqTopic := cfg.KafkaTopic + "_dlq"
	dlqWriter := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.KafkaBrokers...),
		Topic:                  dlqTopic,
		MaxAttempts:            3,
		AllowAutoTopicCreation: true,
	}
	defer dlqWriter.Close()

	log.Info("worker started",
		slog.String("topic", cfg.KafkaTopic),
		slog.String("group", cfg.KafkaConsumer),
		slog.String("dlq_topic", dlqTopic),
		slog.String("index", cfg.ElasticsearchIndex),
	)

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				log.Info("context canceled, stopping")
				return
			}
			log.Error("fetch message", slog.Any("err", err))
			continue
		}

		if err := processMessage(ctx, log, esClient, cache, msg); err != nil {
			log.Warn("process message failed, sending to DLQ",
				slog.Any("err", err),
				slog.Int("partition", msg.Partition),
				slog.Int64("offset", msg.Offset),
			)
			if !sendToDLQ(ctx, log, dlqWriter, msg, err) {
				// Leave the offset uncommitted so the message is redelivered after restart.
				continue
			}
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit message", slog.Any("err", err))
		}
	}
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// sendToDLQ forwards msg with error context, retrying with exponential backoff.
// It reports whether the message was delivered.
func sendToDLQ(ctx context.Context, log *slog.Logger, w messageWriter, msg kafka.Message, cause error) bool {
	dlqMsg := deadLetter(msg, cause, time.Now().UTC())

	for attempt := 0; attempt < 5; attempt++ {
		err := w.WriteMessages(ctx, dlqMsg)
		if err == nil {
			log.Info("message sent to DLQ",
				slog.Int("partition", msg.Partition),
				slog.Int64("offset", msg.Offset),
				slog.Int("attempt", attempt+1),
			)
			return true
		}

		backoff := time.Duration(1<<uint(attempt)) * time.Second
		log.Warn("DLQ write failed, retrying",
			slog.Any("err", err),
			slog.Int("attempt", attempt+1),
			slog.Duration("backoff", backoff),
		)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return false
		}
	}

	log.Error("DLQ write exhausted retries",
		slog.Int("partition", msg.Partition),
		slog.Int64("offset", msg.Offset),
	)
	return false
}

func deadLetter(msg kafka.Message, cause error, at time.Time) kafka.Message {
	headers := make([]kafka.Header, 0, len(msg.Headers)+4)
	headers = append(headers, msg.Headers...)
	headers = append(headers,
		kafka.Header{Key: "original_partition", Value: []byte(fmt.Sprintf("%d", msg.Partition))},
		kafka.Header{Key: "original_offset", Value: []byte(fmt.Sprintf("%d", msg.Offset))},
		kafka.Header{Key: "error", Value: []byte(cause.Error())},
		kafka.Header{Key: "timestamp", Value: []byte(at.Format(time.RFC3339))},
	)
	return kafka.Message{Key: msg.Key, Value: msg.Value, Headers: headers}
}

func processMessage(ctx context.Context, log *slog.Logger, idx reviewIndexer, cache *dedupe.Cache, msg kafka.Message) error {
	ev, err := events.DecodeReviewEvent(msg.Value)
	if err != nil {
		return err
	}

	id := ev.Review.ReviewId
	if cache.Seen(id) {
		log.Debug("duplicate review event", slog.String("review_id", id))
		return nil
	}

	doc := buildDocument(ev)
	if err := idx.IndexReview(ctx, doc); err != nil {
		return err
	}

	cache.Mark(id)
	log.Info("indexed review",
		slog.String("review_id", id),
		slog.String("location", doc.Location),
		slog.Float64("compound", doc.Sentiment.Compound),
	)
	return nil
}

func buildDocument(ev models.ReviewEvent) models.ReviewDocument {
	r := ev.Review
	return models.ReviewDocument{
		ID:        r.ReviewId,
		Body:      r.ReviewBody,
		Location:  strings.TrimSpace(r.Location),
		Timestamp: r.Timestamp,
		CreatedAt: createdAt(r.Timestamp, ev.OccurredAt),
		Summary:   processing.Summarize(r.ReviewBody, summaryWords),
		Keywords:  processing.ExtractKeywords(r.ReviewBody, keywordLimit, keywordMinLength),
		Sentiment: r.Sentiment,
	}
}

// createdAt parses the review timestamp in the local zone it was stamped in,
// falling back to the event time.
func createdAt(raw string, fallback time.Time) time.Time {
	if ts, err := time.ParseInLocation(models.TimestampLayout, raw, time.Local); err == nil {
		return ts.UTC()
	}
	if fallback.IsZero() {
		return time.Now().UTC()
	}
	return fallback.UTC()
}
