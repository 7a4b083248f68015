package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/holiday-countdown/countdown"
)

func TestMemory_ListNewestFirstWithLimit(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, name := range []string{"a", "b", "c"} {
		require.NoError(t, m.Append(ctx, countdown.HistoryEntry{
			ID:          name,
			HolidayName: name,
			HolidayDate: countdown.MustParseDate("2025-07-04"),
			DaysUntil:   i,
			SearchedAt:  at, // same instant: order comes from insertion
		}))
	}

	all, err := m.List(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, ids(all))

	two, err := m.List(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b"}, ids(two))

	more, err := m.List(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, more, 3)

	latest, err := m.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "c", latest.ID)
}

func TestMemory_LatestOnEmpty(t *testing.T) {
	latest, err := NewMemory().Latest(context.Background())
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func ids(entries []countdown.HistoryEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}
