package reviews_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/DeafMist/review-radar/backend/internal/models"
	"github.com/DeafMist/review-radar/backend/internal/reviews"
	"github.com/stretchr/testify/require"
)

func TestStoreSeedAndAppend(t *testing.T) {
	seed := []models.Review{
		{ReviewId: "a", ReviewBody: "one", Location: "Denver, Colorado", Timestamp: "2021-01-01 10:00:00"},
		{ReviewId: "b", ReviewBody: "two", Location: "Somewhere, Else", Timestamp: "2021-01-02 10:00:00"},
	}
	s := reviews.NewStore(seed)
	require.Equal(t, 2, s.Len())

	seed[0].ReviewBody = "mutated"
	require.Equal(t, "one", s.Snapshot()[0].ReviewBody)

	require.NoError(t, s.Append(models.Review{ReviewId: "c", ReviewBody: "three"}))
	snap := s.Snapshot()
	require.Len(t, snap, 3)
	require.Equal(t, []string{"a", "b", "c"}, []string{snap[0].ReviewId, snap[1].ReviewId, snap[2].ReviewId})
}

func TestStoreRejectsDuplicateAndEmptyIDs(t *testing.T) {
	s := reviews.NewStore([]models.Review{{ReviewId: "a"}})

	require.ErrorIs(t, s.Append(models.Review{ReviewId: "a"}), reviews.ErrDuplicateID)
	require.ErrorIs(t, s.Append(models.Review{}), reviews.ErrEmptyID)
	require.Equal(t, 1, s.Len())
}

func TestStoreSnapshotIsIsolated(t *testing.T) {
	s := reviews.NewStore(nil)
	require.NoError(t, s.Append(models.Review{ReviewId: "a", ReviewBody: "x"}))

	snap := s.Snapshot()
	snap[0].ReviewBody = "changed"
	require.Equal(t, "x", s.Snapshot()[0].ReviewBody)
}

func TestStoreConcurrentAppends(t *testing.T) {
	s := reviews.NewStore(nil)

	const writers = 16
	const perWriter = 50

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				_ = s.Append(models.Review{ReviewId: fmt.Sprintf("%d-%d", w, i)})
				_ = s.Snapshot()
			}
		}(w)
	}
	wg.Wait()

	snap := s.Snapshot()
	require.Len(t, snap, writers*perWriter)

	seen := make(map[string]struct{}, len(snap))
	for _, r := range snap {
		seen[r.ReviewId] = struct{}{}
	}
	require.Len(t, seen, writers*perWriter)
}
