package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/recall/internal/domain"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "recall.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestItemsRoundTrip(t *testing.T) {
	db := openTestDB(t)

	now := time.UnixMilli(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC).UnixMilli())
	last := now.Add(-24 * time.Hour)
	items := []domain.MemoryItem{
		{
			ID: "a", Front: "front a", Back: "back a", Kind: domain.KindBasic,
			Tags: []string{"go"}, Source: domain.SourceManual, CreatedAt: now,
			IntervalDays: 6, Repetitions: 2, Ease: 2.6, Due: now.Add(time.Hour),
			LastReviewed: &last,
		},
		{
			ID: "b", Front: "front b", Back: "back b", Kind: domain.KindCode,
			Language: "go", Tags: []string{}, Source: domain.SourceDojo,
			CreatedAt: now.Add(time.Minute), Ease: 2.5, Due: now,
		},
	}

	require.NoError(t, db.SaveItems(items))
	got, err := db.LoadItems()
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, []string{"go"}, got[0].Tags)
	assert.True(t, got[0].Due.Equal(items[0].Due))
	require.NotNil(t, got[0].LastReviewed)
	assert.True(t, got[0].LastReviewed.Equal(last))
	assert.Nil(t, got[1].LastReviewed)
	assert.Equal(t, domain.SourceDojo, got[1].Source)

	// SaveItems replaces, not appends.
	require.NoError(t, db.SaveItems(items[:1]))
	got, err = db.LoadItems()
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestLedgerAppendAndReplace(t *testing.T) {
	db := openTestDB(t)

	at := time.UnixMilli(1717232400000)
	ev1 := domain.NewReviewEvent("a", 4, at)
	ev2 := domain.NewReviewEvent("a", 2, at.Add(time.Hour))

	require.NoError(t, db.AppendEvents(ev1))
	require.NoError(t, db.AppendEvents(ev2))

	got, err := db.LoadEvents()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 4, got[0].Quality)
	assert.True(t, got[1].At.Equal(ev2.At))
	assert.Equal(t, ev1.Day, got[0].Day)

	require.NoError(t, db.ReplaceEvents([]domain.ReviewEvent{ev2}))
	got, err = db.LoadEvents()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].Quality)
}

func TestSettingsRoundTrip(t *testing.T) {
	db := openTestDB(t)

	got, err := db.LoadSettings()
	require.NoError(t, err)
	assert.Nil(t, got, "no settings row before first save")

	s := domain.Settings{
		DailyLimit:      42,
		RatingMode:      domain.RatingModeSimple,
		AutoCaptureChat: false,
		AutoCaptureDojo: true,
	}
	require.NoError(t, db.SaveSettings(s))

	got, err = db.LoadSettings()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, s, *got)

	// Upsert overwrites the single row.
	s.DailyLimit = 7
	require.NoError(t, db.SaveSettings(s))
	got, err = db.LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, 7, got.DailyLimit)
}

func TestLegacyStatsAbsentByDefault(t *testing.T) {
	db := openTestDB(t)

	got, err := db.LoadLegacyStats()
	require.NoError(t, err)
	assert.Nil(t, got)
}
