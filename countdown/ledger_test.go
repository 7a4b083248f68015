package countdown_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/holiday-countdown/countdown"
	"github.com/warp/holiday-countdown/countdown/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestLedger(t *testing.T) (*countdown.Ledger, *store.Memory) {
	mem := store.NewMemory()
	ledger, err := countdown.OpenLedger(context.Background(), mem)
	require.NoError(t, err)
	return ledger, mem
}

// failingStore rejects every write after failAfter successful appends.
type failingStore struct {
	*store.Memory
	failAfter int
	appended  int
	listErr   error
}

var errDiskFull = errors.New("disk full")

func (f *failingStore) Append(ctx context.Context, e countdown.HistoryEntry) error {
	if f.appended >= f.failAfter {
		return errDiskFull
	}
	f.appended++
	return f.Memory.Append(ctx, e)
}

func (f *failingStore) List(ctx context.Context, limit int) ([]countdown.HistoryEntry, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.Memory.List(ctx, limit)
}

func historyEntry(name, date string, days int, at time.Time) countdown.HistoryEntry {
	return countdown.HistoryEntry{
		HolidayName: name,
		HolidayDate: countdown.MustParseDate(date),
		DaysUntil:   days,
		SearchedAt:  at,
	}
}

var base = time.Date(2025, time.December, 25, 9, 0, 0, 0, time.UTC)

// =============================================================================
// ORDERING
// =============================================================================

func TestLedger_AppendThenListReturnsNewestFirst(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	first, err := ledger.Append(ctx, historyEntry("Christmas Day", "2025-12-25", 0, base))
	require.NoError(t, err)
	second, err := ledger.Append(ctx, historyEntry("New Year's Day", "2026-01-01", 7, base.Add(time.Second)))
	require.NoError(t, err)

	entries, err := ledger.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, second, entries[0], "just-appended entry comes first")
	assert.Equal(t, first, entries[1])
}

func TestLedger_ConsecutiveListsAreIdentical(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := ledger.Append(ctx, historyEntry("Labor Day", "2025-09-01", i, base.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
	}

	a, err := ledger.ListAll(ctx)
	require.NoError(t, err)
	b, err := ledger.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestLedger_EmptyListIsNotNil(t *testing.T) {
	ledger, _ := newTestLedger(t)

	entries, err := ledger.ListAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestLedger_ListLimit(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := ledger.Append(ctx, historyEntry("Memorial Day", "2025-05-26", i, base.Add(time.Duration(i)*time.Second)))
		require.NoError(t, err)
	}

	entries, err := ledger.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 3, entries[0].DaysUntil)
	assert.Equal(t, 2, entries[1].DaysUntil)
}

func TestLedger_NoDeduplication(t *testing.T) {
	ledger, mem := newTestLedger(t)
	ctx := context.Background()

	a, err := ledger.Append(ctx, historyEntry("Juneteenth", "2025-06-19", 10, base))
	require.NoError(t, err)
	b, err := ledger.Append(ctx, historyEntry("Juneteenth", "2025-06-19", 10, base))
	require.NoError(t, err)

	assert.Equal(t, 2, mem.Len())
	assert.NotEqual(t, a.ID, b.ID, "each lookup gets its own entry")
}

// =============================================================================
// TIMESTAMPS
// =============================================================================

func TestLedger_SearchedAtNeverDecreases(t *testing.T) {
	// GIVEN: an entry stamped at 09:00:05
	// WHEN: a slower lookup stamped at 09:00:01 reaches the ledger afterwards
	// THEN: it is recorded at 09:00:05, keeping insertion order chronological
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	_, err := ledger.Append(ctx, historyEntry("Veterans Day", "2025-11-11", 1, base.Add(5*time.Second)))
	require.NoError(t, err)
	late, err := ledger.Append(ctx, historyEntry("Columbus Day", "2025-10-13", 2, base.Add(time.Second)))
	require.NoError(t, err)

	assert.Equal(t, base.Add(5*time.Second), late.SearchedAt)
}

func TestLedger_SeedsFloorFromStore(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()
	require.NoError(t, mem.Append(ctx, countdown.HistoryEntry{
		ID:          "existing",
		HolidayName: "Thanksgiving Day",
		HolidayDate: countdown.MustParseDate("2025-11-27"),
		SearchedAt:  base.Add(time.Hour),
	}))

	ledger, err := countdown.OpenLedger(ctx, mem)
	require.NoError(t, err)

	got, err := ledger.Append(ctx, historyEntry("Christmas Day", "2025-12-25", 0, base))
	require.NoError(t, err)
	assert.Equal(t, base.Add(time.Hour), got.SearchedAt)
}

func TestLedger_FillsIDAndTimestamp(t *testing.T) {
	ledger, _ := newTestLedger(t)

	got, err := ledger.Append(context.Background(), countdown.HistoryEntry{
		HolidayName: "New Year's Day",
		HolidayDate: countdown.MustParseDate("2026-01-01"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
	assert.False(t, got.SearchedAt.IsZero())
}

// =============================================================================
// FAILURES
// =============================================================================

func TestLedger_AppendFailureIsPersistenceError(t *testing.T) {
	fs := &failingStore{Memory: store.NewMemory(), failAfter: 1}
	ledger, err := countdown.OpenLedger(context.Background(), fs)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = ledger.Append(ctx, historyEntry("Labor Day", "2025-09-01", 5, base))
	require.NoError(t, err)

	_, err = ledger.Append(ctx, historyEntry("Labor Day", "2025-09-01", 5, base.Add(time.Hour)))
	require.Error(t, err)
	assert.ErrorIs(t, err, countdown.ErrPersistence)
	assert.ErrorIs(t, err, errDiskFull)
	var perr *countdown.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "append", perr.Op)

	entries, err := ledger.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "failed append leaves the ledger unchanged")

	// The failed entry must not raise the timestamp floor.
	fs.failAfter = 2
	next, err := ledger.Append(ctx, historyEntry("Labor Day", "2025-09-01", 5, base.Add(time.Minute)))
	require.NoError(t, err)
	assert.Equal(t, base.Add(time.Minute), next.SearchedAt)
}

func TestLedger_ListFailureIsPersistenceError(t *testing.T) {
	fs := &failingStore{Memory: store.NewMemory(), listErr: errDiskFull}
	ledger, err := countdown.OpenLedger(context.Background(), fs)
	require.NoError(t, err)

	_, err = ledger.ListAll(context.Background())
	assert.True(t, countdown.IsPersistence(err))
}

// =============================================================================
// CONCURRENCY
// =============================================================================

func TestLedger_ConcurrentAppendsAreAllRecorded(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	before, err := ledger.ListAll(ctx)
	require.NoError(t, err)

	const writers = 50
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := ledger.Append(ctx, historyEntry("Independence Day", "2025-07-04", i, base.Add(time.Duration(i%7)*time.Second)))
			assert.NoError(t, err)
		}(i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ledger.ListAll(ctx)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	after, err := ledger.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, after, len(before)+writers)

	// Newest-first listing means timestamps never increase going down the list.
	for i := 1; i < len(after); i++ {
		assert.False(t, after[i-1].SearchedAt.Before(after[i].SearchedAt), "entry %d", i)
	}
}
