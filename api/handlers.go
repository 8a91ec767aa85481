package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jonboulle/clockwork"

	"github.com/DeafMist/review-radar/backend/internal/apperr"
	"github.com/DeafMist/review-radar/backend/internal/events"
	"github.com/DeafMist/review-radar/backend/internal/metrics"
	"github.com/DeafMist/review-radar/backend/internal/models"
	"github.com/DeafMist/review-radar/backend/internal/reviews"
	"github.com/DeafMist/review-radar/backend/internal/sentiment"
)

const (
	fieldLocation   = "Location"
	fieldReviewBody = "ReviewBody"
)

type server struct {
	log            *slog.Logger
	store          *reviews.Store
	scorer         sentiment.Scorer
	publisher      events.Publisher
	metrics        *metrics.Metrics
	clock          clockwork.Clock
	newID          func() string
	maxBodyBytes   int64
	publishTimeout time.Duration
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.metrics.Middleware)
	r.Use(middleware.Recoverer)

	r.NotFound(s.handleNotFound)
	r.MethodNotAllowed(s.handleMethodNotAllowed)

	r.Get("/health", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Get("/", s.handleList)
	r.Post("/", s.handleCreate)
	return r
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "reviews": s.store.Len()})
}

// handleList serves GET /?location=&start_date=&end_date=.
func (s *server) handleList(w http.ResponseWriter, r *http.Request) {
	q := parseForm(r.URL.RawQuery)
	criteria, err := reviews.ParseCriteria(q["location"], q["start_date"], q["end_date"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	matched := reviews.Filter(s.store.Snapshot(), criteria)
	out := make([]models.AnnotatedReview, 0, len(matched))
	for _, review := range matched {
		annotated, err := s.annotate(review)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		out = append(out, annotated)
	}

	s.metrics.Listed(len(out))
	writeJSON(w, http.StatusOK, out)
}

// handleCreate serves POST / with a JSON or form-encoded body.
func (s *server) handleCreate(w http.ResponseWriter, r *http.Request) {
	created, err := s.createReview(w, r)
	if err != nil {
		s.metrics.ReviewRejected(string(apperr.KindOf(err)))
		s.writeError(w, r, err)
		return
	}

	s.metrics.ReviewCreated()
	s.publish(r, created)
	s.log.Info("review created",
		slog.String("review_id", created.ReviewId),
		slog.String("location", created.Location),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	writeJSON(w, http.StatusCreated, created)
}

func (s *server) createReview(w http.ResponseWriter, r *http.Request) (models.AnnotatedReview, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return models.AnnotatedReview{}, apperr.Malformed(fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit), nil)
		}
		return models.AnnotatedReview{}, apperr.Malformed("read request body", err)
	}

	fields, err := decodeSubmission(body)
	if err != nil {
		return models.AnnotatedReview{}, err
	}

	review, err := s.newReview(fields)
	if err != nil {
		return models.AnnotatedReview{}, err
	}

	annotated, err := s.annotate(review)
	if err != nil {
		return models.AnnotatedReview{}, err
	}

	if err := s.store.Append(review); err != nil {
		return models.AnnotatedReview{}, apperr.InternalError("store review", err)
	}
	return annotated, nil
}

// newReview validates the decoded fields and stamps a fresh ID and timestamp.
// An empty Location is accepted as-is; only non-empty values are checked
// against the allow-list.
func (s *server) newReview(fields map[string]string) (models.Review, error) {
	location, ok := fields[fieldLocation]
	if !ok {
		return models.Review{}, apperr.MissingFieldError(fieldLocation)
	}
	if location != "" && !reviews.IsAllowedLocation(location) {
		return models.Review{}, apperr.InvalidLocationError(location, reviews.AllowedLocationsText())
	}

	body, ok := fields[fieldReviewBody]
	if !ok {
		return models.Review{}, apperr.MissingFieldError(fieldReviewBody)
	}
	if strings.TrimSpace(body) == "" {
		return models.Review{}, apperr.EmptyFieldError(fieldReviewBody)
	}

	return models.Review{
		ReviewId:   s.newID(),
		ReviewBody: body,
		Location:   location,
		Timestamp:  s.clock.Now().Format(models.TimestampLayout),
	}, nil
}

func (s *server) annotate(review models.Review) (models.AnnotatedReview, error) {
	score, err := s.scorer.Score(review.ReviewBody)
	if err != nil {
		return models.AnnotatedReview{}, apperr.InternalError("sentiment analysis failed", err)
	}
	return models.AnnotatedReview{Review: review, Sentiment: score}, nil
}

// publish announces the review. A delivery failure is logged and counted
// but never fails the request.
func (s *server) publish(r *http.Request, review models.AnnotatedReview) {
	if s.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), s.publishTimeout)
	defer cancel()

	if err := s.publisher.PublishReviewCreated(ctx, review); err != nil {
		s.metrics.PublishFailed()
		s.log.Warn("publish review event",
			slog.Any("err", err),
			slog.String("review_id", review.ReviewId),
		)
	}
}

func (s *server) handleNotFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, errorResponse{Error: "Not found"})
}

func (s *server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	allow := "GET"
	if r.URL.Path == "/" {
		allow = "GET, POST"
	}
	w.Header().Set("Allow", allow)
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: fmt.Sprintf("Method %s not allowed", r.Method)})
}

func (s *server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.Status(err)
	msg := err.Error()

	var appErr *apperr.Error
	if errors.As(err, &appErr) && appErr.Kind == apperr.Internal {
		msg = appErr.Message
	}

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	s.log.Log(r.Context(), level, "request failed",
		slog.Any("err", err),
		slog.Int("status", status),
		slog.String("method", r.Method),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	writeJSON(w, status, errorResponse{Error: msg})
}

// decodeSubmission reads a POST body as a JSON object, falling back to
// form encoding. Form decoding never fails; see parseForm.
func decodeSubmission(body []byte) (map[string]string, error) {
	fields, isJSON, err := decodeJSONFields(body)
	if isJSON {
		return fields, err
	}
	return parseForm(string(body)), nil
}

// decodeJSONFields reports isJSON=false when body is not a JSON object, in
// which case the caller should try another encoding.
func decodeJSONFields(body []byte) (map[string]string, bool, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return nil, false, nil
	}

	fields := make(map[string]string, len(raw))
	for key, value := range raw {
		if bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			fields[key] = ""
			continue
		}
		var str string
		if err := json.Unmarshal(value, &str); err != nil {
			return nil, true, apperr.Malformed(fmt.Sprintf("field %s must be a string", key), nil)
		}
		fields[key] = str
	}
	return fields, true, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		status = http.StatusInternalServerError
		buf.Reset()
		buf.WriteString(`{"error": "encode response"}`)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
