package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *SkipStore {
	t.Helper()
	s, err := OpenSkipStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func day(offset int) time.Time {
	base := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, offset)
}

func TestSkipAndLookup(t *testing.T) {
	s := openTestStore(t)

	assert.False(t, s.IsSkipped("uid-1", day(0)))

	require.NoError(t, s.Skip("uid-1", day(0)))

	assert.True(t, s.IsSkipped("uid-1", day(0)))
	assert.False(t, s.IsSkipped("uid-1", day(1)), "skips are per occurrence day")
	assert.False(t, s.IsSkipped("uid-2", day(0)))
}

func TestSkipIsIdempotent(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Skip("uid-1", day(0)))
	require.NoError(t, s.Skip("uid-1", day(0)))

	assert.True(t, s.IsSkipped("uid-1", day(0)))
}

func TestUnskip(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Skip("uid-1", day(0)))
	require.NoError(t, s.Unskip("uid-1", day(0)))

	assert.False(t, s.IsSkipped("uid-1", day(0)))

	// Unskipping something never skipped is a no-op.
	require.NoError(t, s.Unskip("uid-1", day(0)))
}

func TestPruneBefore(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Skip("uid-old", day(-5)))
	require.NoError(t, s.Skip("uid-recent", day(0)))

	require.NoError(t, s.PruneBefore(day(-1)))

	assert.False(t, s.IsSkipped("uid-old", day(-5)))
	assert.True(t, s.IsSkipped("uid-recent", day(0)))
}

func TestIsSkippedFailsOpenAfterClose(t *testing.T) {
	s, err := OpenSkipStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.Skip("uid-1", day(0)))
	require.NoError(t, s.Close())

	// A broken store must never silence an alert.
	assert.False(t, s.IsSkipped("uid-1", day(0)))
}
