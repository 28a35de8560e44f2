package deck

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/recall/internal/domain"
	"github.com/conorfennell/recall/internal/sanitize"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestDeck(t *testing.T) *Deck {
	t.Helper()
	d, err := New(nil, nil)
	require.NoError(t, err)
	d.now = func() time.Time { return testNow }
	return d
}

func addItem(t *testing.T, d *Deck, front string) domain.MemoryItem {
	t.Helper()
	item, err := d.Add(sanitize.ItemInput{Front: front, Back: "back of " + front})
	require.NoError(t, err)
	return item
}

func TestAddAndGet(t *testing.T) {
	d := newTestDeck(t)

	item := addItem(t, d, "front")
	got, err := d.Get(item.ID)
	require.NoError(t, err)
	assert.Equal(t, item, got)

	_, err = d.Get("nope")
	assert.ErrorIs(t, err, domain.ErrItemNotFound)

	_, err = d.Add(sanitize.ItemInput{ID: item.ID, Front: "x", Back: "y"})
	assert.ErrorIs(t, err, domain.ErrDuplicateID)

	_, err = d.Add(sanitize.ItemInput{Front: "  ", Back: "y"})
	assert.ErrorIs(t, err, domain.ErrEmptyContent)
}

func TestReviewUpdatesItemAndLedger(t *testing.T) {
	d := newTestDeck(t)
	item := addItem(t, d, "front")

	var trackerCalls []int
	d.SetEngagement(func(total int) { trackerCalls = append(trackerCalls, total) })

	got, err := d.Review(item.ID, 5)
	require.NoError(t, err)

	assert.Equal(t, 1, got.IntervalDays)
	assert.Equal(t, 1, got.Repetitions)
	assert.Greater(t, got.Ease, 2.5)
	assert.True(t, got.Due.Equal(testNow.Add(24*time.Hour)))
	require.NotNil(t, got.LastReviewed)
	assert.True(t, got.LastReviewed.Equal(testNow))

	events := d.Events()
	require.Len(t, events, 1, "exactly one event per review")
	assert.Equal(t, item.ID, events[0].ItemID)
	assert.Equal(t, 5, events[0].Quality)
	assert.Equal(t, domain.DayKey(testNow), events[0].Day)

	assert.Equal(t, []int{1}, trackerCalls, "engagement tracker fires once with the ledger size")
}

func TestReviewErrors(t *testing.T) {
	d := newTestDeck(t)

	_, err := d.Review("missing", 4)
	assert.ErrorIs(t, err, domain.ErrItemNotFound)

	item := addItem(t, d, "front")
	_, err = d.Review(item.ID, 6)
	assert.ErrorIs(t, err, domain.ErrInvalidQuality)
	_, err = d.Review(item.ID, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidQuality)

	assert.Empty(t, d.Events(), "failed reviews append nothing")
}

func TestDeleteKeepsLedger(t *testing.T) {
	d := newTestDeck(t)
	a := addItem(t, d, "a")
	b := addItem(t, d, "b")

	_, err := d.Review(a.ID, 4)
	require.NoError(t, err)

	require.NoError(t, d.Delete(a.ID))
	assert.ErrorIs(t, d.Delete(a.ID), domain.ErrItemNotFound)

	assert.Len(t, d.Events(), 1, "events outlive their item")

	// Index still works after the shift.
	got, err := d.Get(b.ID)
	require.NoError(t, err)
	assert.Equal(t, "b", got.Front)
}

func TestDueOrderingAndLimit(t *testing.T) {
	d := newTestDeck(t)

	overdue, err := d.Add(sanitize.ItemInput{Front: "overdue", Back: "b", Due: testNow.Add(-48 * time.Hour)})
	require.NoError(t, err)
	dueNow, err := d.Add(sanitize.ItemInput{Front: "due now", Back: "b", Due: testNow})
	require.NoError(t, err)
	_, err = d.Add(sanitize.ItemInput{Front: "future", Back: "b", Due: testNow.Add(time.Hour)})
	require.NoError(t, err)

	due := d.Due()
	require.Len(t, due, 2)
	assert.Equal(t, overdue.ID, due[0].ID, "ascending by due date")
	assert.Equal(t, dueNow.ID, due[1].ID)

	assert.Len(t, d.Due(1), 1)
	assert.Len(t, d.Due(0), 1, "limit clamps to at least 1")
	assert.Len(t, d.Due(10), 2)
}

func TestProgressBucketsArePartition(t *testing.T) {
	d := newTestDeck(t)

	n := 0
	add := func(reps, interval int, ease float64) {
		n++
		_, err := d.Add(sanitize.ItemInput{
			Front:        "front " + string(rune('a'+n)),
			Back:         "b",
			Repetitions:  reps,
			IntervalDays: interval,
			Ease:         ease,
		})
		require.NoError(t, err)
	}

	add(0, 0, 2.5)    // new
	add(0, 30, 2.8)   // new: repetitions win over interval
	add(2, 6, 2.5)    // learning
	add(5, 20, 1.5)   // learning
	add(5, 21, 2.5)   // mastered
	add(9, 120, 3.0)  // mastered
	add(5, 21, 2.49)  // review
	add(8, 40, 1.3)   // review

	p := d.Progress()
	assert.Equal(t, 2, p.New)
	assert.Equal(t, 2, p.Learning)
	assert.Equal(t, 2, p.Mastered)
	assert.Equal(t, 2, p.Review)
	assert.Equal(t, len(d.Items()), p.New+p.Learning+p.Review+p.Mastered)
}

func TestStreaksFromLedger(t *testing.T) {
	d := newTestDeck(t)
	item := addItem(t, d, "front")

	review := func(at time.Time) {
		d.now = func() time.Time { return at }
		_, err := d.Review(item.ID, 4)
		require.NoError(t, err)
	}

	// Activity only on D-2 and D-3: current streak is 0 immediately,
	// longest run is the two adjacent days.
	review(testNow.Add(-3 * 24 * time.Hour))
	review(testNow.Add(-2 * 24 * time.Hour))
	d.now = func() time.Time { return testNow }

	s := d.Streaks()
	assert.Equal(t, 0, s.Current)
	assert.Equal(t, 2, s.Longest)

	// Activity today and yesterday: current streak counts both.
	review(testNow.Add(-24 * time.Hour))
	review(testNow)
	d.now = func() time.Time { return testNow }

	s = d.Streaks()
	assert.Equal(t, 4, s.Current)
	assert.Equal(t, 4, s.Longest)
}

func TestStreaksLegacyFallback(t *testing.T) {
	d := newTestDeck(t)
	d.legacy = &domain.LegacyStats{CurrentStreak: 3, LongestStreak: 9}

	s := d.Streaks()
	assert.Equal(t, 3, s.Current)
	assert.Equal(t, 9, s.Longest)

	// A single ledger entry ends the fallback for good.
	item := addItem(t, d, "front")
	_, err := d.Review(item.ID, 4)
	require.NoError(t, err)

	s = d.Streaks()
	assert.Equal(t, 1, s.Current)
	assert.Equal(t, 1, s.Longest)
}

func TestStats(t *testing.T) {
	d := newTestDeck(t)
	a := addItem(t, d, "a")
	addItem(t, d, "b")

	_, err := d.Review(a.ID, 5)
	require.NoError(t, err)
	_, err = d.Review(a.ID, 1)
	require.NoError(t, err)

	s := d.Stats()
	assert.Equal(t, 2, s.TotalItems)
	assert.Equal(t, 2, s.TotalReviews)
	assert.Equal(t, 2, s.ReviewedToday)
	assert.Equal(t, 1, s.DueNow, "the lapsed item moved a day out, the fresh one is due")
	assert.InDelta(t, 0.5, s.Accuracy, 1e-9)
	assert.Greater(t, s.AverageEase, 0.0)
	assert.Equal(t, 1, s.CurrentStreak)
}

func TestIngestPipeline(t *testing.T) {
	d := newTestDeck(t)

	batch := []domain.Candidate{
		{Kind: "basic", Front: "What is a channel?", Back: "A typed conduit."},
		{Kind: "basic", Front: "  what IS a\tchannel? ", Back: "different back"},
		{Kind: "cloze", Front: "What is a channel?", Back: "kind differs, not a duplicate"},
		{Kind: "basic", Front: "", Back: "no front"},
	}

	report := d.Ingest(batch, domain.SourceChat)
	assert.Equal(t, IngestReport{Accepted: 2, Rejected: 1, Duplicates: 1}, report)

	for _, item := range d.Items() {
		assert.Equal(t, domain.SourceChat, item.Source, "accepted items carry the caller's source")
	}

	// Identical batch again: nothing new, every sane candidate is a
	// duplicate now.
	report = d.Ingest(batch, domain.SourceChat)
	assert.Equal(t, IngestReport{Accepted: 0, Rejected: 1, Duplicates: 3}, report)
	assert.Len(t, d.Items(), 2)
}

func TestUpdateSettings(t *testing.T) {
	d := newTestDeck(t)

	limit := 700
	got := d.UpdateSettings(domain.SettingsPatch{DailyLimit: &limit})
	assert.Equal(t, domain.MaxDailyLimit, got.DailyLimit)
	assert.Equal(t, got, d.Settings())
}
