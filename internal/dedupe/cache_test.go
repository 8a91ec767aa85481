package dedupe_test

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/DeafMist/review-radar/backend/internal/dedupe"
)

func TestCacheSeenDuplicate(t *testing.T) {
	cache := dedupe.NewCache(10, time.Minute, clockwork.NewFakeClock())
	require.False(t, cache.Seen("alpha"))
	cache.Mark("alpha")
	require.True(t, cache.Seen("alpha"))
	require.Equal(t, 1, cache.Len())
}

func TestCacheTTLExpiry(t *testing.T) {
	clock := clockwork.NewFakeClock()
	cache := dedupe.NewCache(10, 20*time.Millisecond, clock)

	cache.Mark("beta")
	clock.Advance(25 * time.Millisecond)
	require.False(t, cache.Seen("beta"))

	cache.Mark("gamma")
	require.Equal(t, 1, cache.Len(), "expired entries are compacted on the next mark")
}

func TestCacheCapacityEvictsOldest(t *testing.T) {
	clock := clockwork.NewFakeClock()
	cache := dedupe.NewCache(1, time.Minute, clock)

	cache.Mark("first")
	clock.Advance(time.Millisecond)
	cache.Mark("second")

	require.False(t, cache.Seen("first"))
	require.True(t, cache.Seen("second"))
}

func TestCacheRemarkKeepsNewestEntry(t *testing.T) {
	clock := clockwork.NewFakeClock()
	cache := dedupe.NewCache(2, time.Minute, clock)

	cache.Mark("a")
	clock.Advance(time.Millisecond)
	cache.Mark("b")
	clock.Advance(time.Millisecond)
	cache.Mark("a")
	clock.Advance(time.Millisecond)
	cache.Mark("c")

	require.True(t, cache.Seen("a"))
	require.True(t, cache.Seen("c"))
	require.False(t, cache.Seen("b"))
}

func TestCacheDefaultsToRealClock(t *testing.T) {
	cache := dedupe.NewCache(0, 0, nil)
	cache.Mark("x")
	require.True(t, cache.Seen("x"))
}
