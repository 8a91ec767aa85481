// Package events carries review lifecycle events between the API and the
// indexing worker over Kafka.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/DeafMist/review-radar/backend/internal/models"
)

// TypeReviewCreated is the value of the event-type header for new reviews.
const TypeReviewCreated = "review.created"

const headerEventType = "event_type"

// Publisher announces accepted reviews.
type Publisher interface {
	PublishReviewCreated(ctx context.Context, review models.AnnotatedReview) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes review events to a Kafka topic keyed by review ID.
type KafkaPublisher struct {
	w   messageWriter
	now func() time.Time
}

// NewKafkaPublisher creates a publisher for topic on the given brokers.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		MaxAttempts:            3,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{w: w, now: time.Now}
}

// PublishReviewCreated sends a ReviewEvent for review.
func (p *KafkaPublisher) PublishReviewCreated(ctx context.Context, review models.AnnotatedReview) error {
	msg, err := encodeReviewCreated(review, p.now().UTC())
	if err != nil {
		return err
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write review event: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}

func encodeReviewCreated(review models.AnnotatedReview, at time.Time) (kafka.Message, error) {
	payload, err := json.Marshal(models.ReviewEvent{Review: review, OccurredAt: at})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal review event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(review.ReviewId),
		Value: payload,
		Headers: []kafka.Header{
			{Key: headerEventType, Value: []byte(TypeReviewCreated)},
		},
		Time: at,
	}, nil
}

// DecodeReviewEvent parses a message value produced by KafkaPublisher.
func DecodeReviewEvent(data []byte) (models.ReviewEvent, error) {
	var ev models.ReviewEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return models.ReviewEvent{}, fmt.Errorf("decode review event: %w", err)
	}
	if ev.Review.ReviewId == "" {
		return models.ReviewEvent{}, errors.New("review event without review id")
	}
	return ev, nil
}

// Nop drops every event. It is used when no brokers are configured.
type Nop struct{}

func (Nop) PublishReviewCreated(context.Context, models.AnnotatedReview) error { return nil }

func (Nop) Close() error { return nil }
