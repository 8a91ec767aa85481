// Package reviews holds the in-memory review collection and the pure helpers
// that operate on it.
package reviews

import (
	"errors"
	"sync"

	"github.com/DeafMist/review-radar/backend/internal/models"
)

var (
	// ErrDuplicateID is returned when appending a review whose ID is already stored.
	ErrDuplicateID = errors.New("review id already exists")
	// ErrEmptyID is returned when appending a review without an ID.
	ErrEmptyID = errors.New("review id is empty")
)

// Store is an ordered, append-only collection of reviews shared by all
// request handlers. Readers get copies, so they observe the collection either
// before or after a concurrent append, never in between.
type Store struct {
	mu      sync.RWMutex
	reviews []models.Review
	ids     map[string]struct{}
}

// NewStore creates a store seeded with the given reviews. Seed rows are
// trusted: neither locations nor ID uniqueness are re-validated.
func NewStore(seed []models.Review) *Store {
	s := &Store{
		reviews: make([]models.Review, len(seed)),
		ids:     make(map[string]struct{}, len(seed)),
	}
	copy(s.reviews, seed)
	for _, r := range seed {
		s.ids[r.ReviewId] = struct{}{}
	}
	return s
}

// Append adds r at the end of the collection.
func (s *Store) Append(r models.Review) error {
	if r.ReviewId == "" {
		return ErrEmptyID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.ids[r.ReviewId]; exists {
		return ErrDuplicateID
	}
	s.reviews = append(s.reviews, r)
	s.ids[r.ReviewId] = struct{}{}
	return nil
}

// Snapshot returns a copy of all reviews in insertion order.
func (s *Store) Snapshot() []models.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Review, len(s.reviews))
	copy(out, s.reviews)
	return out
}

// Len returns the number of stored reviews.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reviews)
}
