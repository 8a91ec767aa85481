package models

import "time"

const (
	// TimestampLayout is the wire format of Review.Timestamp.
	TimestampLayout = "2006-01-02 15:04:05"
	// DateLayout parses the start_date/end_date query parameters. Month and
	// day may be written with or without a leading zero.
	DateLayout = "2006-1-2"
)

// Review is a single stored review record.
type Review struct {
	ReviewId   string `json:"ReviewId"`
	ReviewBody string `json:"ReviewBody"`
	Location   string `json:"Location"`
	Timestamp  string `json:"Timestamp"`
}

// Sentiment is the polarity breakdown of a review body.
type Sentiment struct {
	Neg      float64 `json:"neg"`
	Neu      float64 `json:"neu"`
	Pos      float64 `json:"pos"`
	Compound float64 `json:"compound"`
}

// AnnotatedReview is a review together with its sentiment computed at request time.
type AnnotatedReview struct {
	Review
	Sentiment Sentiment `json:"sentiment"`
}

// ReviewEvent is published once a review has been accepted by the API.
type ReviewEvent struct {
	Review     AnnotatedReview `json:"review"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// ReviewDocument is the shape indexed into Elasticsearch for analytics.
type ReviewDocument struct {
	ID        string    `json:"id"`
	Body      string    `json:"body"`
	Location  string    `json:"location"`
	Timestamp string    `json:"timestamp"`
	CreatedAt time.Time `json:"created_at"`
	Summary   string    `json:"summary"`
	Keywords  []string  `json:"keywords"`
	Sentiment Sentiment `json:"sentiment"`
}
