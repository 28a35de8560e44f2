package sanitize

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/recall/internal/domain"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestItemDefaults(t *testing.T) {
	item, err := Item(ItemInput{Front: "  front  ", Back: " back "}, testNow)
	require.NoError(t, err)

	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "front", item.Front)
	assert.Equal(t, "back", item.Back)
	assert.Equal(t, domain.KindBasic, item.Kind)
	assert.Equal(t, domain.SourceManual, item.Source)
	assert.Equal(t, testNow, item.CreatedAt)
	assert.Equal(t, 0, item.IntervalDays)
	assert.Equal(t, 0, item.Repetitions)
	assert.Equal(t, domain.DefaultEase, item.Ease)
	assert.Equal(t, testNow, item.Due, "missing due date means immediately due")
	assert.Nil(t, item.LastReviewed)
}

func TestItemRejectsEmptyContent(t *testing.T) {
	cases := []ItemInput{
		{Front: "", Back: "back"},
		{Front: "front", Back: ""},
		{Front: "   ", Back: "back"},
		{Front: "front", Back: "\n\t"},
	}
	for _, in := range cases {
		_, err := Item(in, testNow)
		assert.ErrorIs(t, err, domain.ErrEmptyContent)
	}
}

func TestItemCoercesNumericFields(t *testing.T) {
	item, err := Item(ItemInput{
		Front:        "f",
		Back:         "b",
		IntervalDays: -4,
		Repetitions:  -1,
		Ease:         math.NaN(),
	}, testNow)
	require.NoError(t, err)

	assert.Equal(t, 0, item.IntervalDays)
	assert.Equal(t, 0, item.Repetitions)
	assert.Equal(t, domain.DefaultEase, item.Ease)

	item, err = Item(ItemInput{Front: "f", Back: "b", Ease: 0.9}, testNow)
	require.NoError(t, err)
	assert.Equal(t, domain.MinEase, item.Ease, "present ease is floored, not defaulted")
}

func TestItemUnrecognizedEnums(t *testing.T) {
	item, err := Item(ItemInput{Front: "f", Back: "b", Kind: "essay", Source: "scraper"}, testNow)
	require.NoError(t, err)
	assert.Equal(t, domain.KindBasic, item.Kind)
	assert.Equal(t, domain.SourceManual, item.Source)

	item, err = Item(ItemInput{Front: "f", Back: "b", Kind: "code", Source: "dojo"}, testNow)
	require.NoError(t, err)
	assert.Equal(t, domain.KindCode, item.Kind)
	assert.Equal(t, domain.SourceDojo, item.Source)
}

func TestItemKeepsProvidedIdentity(t *testing.T) {
	due := testNow.Add(48 * time.Hour)
	item, err := Item(ItemInput{
		ID:    "item-1",
		Front: "f",
		Back:  "b",
		Tags:  []string{" go ", "", "srs"},
		Due:   due,
	}, testNow)
	require.NoError(t, err)

	assert.Equal(t, "item-1", item.ID)
	assert.Equal(t, []string{"go", "srs"}, item.Tags)
	assert.Equal(t, due, item.Due)
}

func TestSettingsMerge(t *testing.T) {
	current := domain.DefaultSettings()

	limit := 1000
	mode := "simple"
	off := false
	next := Settings(current, domain.SettingsPatch{
		DailyLimit:      &limit,
		RatingMode:      &mode,
		AutoCaptureChat: &off,
	})

	assert.Equal(t, domain.MaxDailyLimit, next.DailyLimit, "limit clamps to upper bound")
	assert.Equal(t, domain.RatingModeSimple, next.RatingMode)
	assert.False(t, next.AutoCaptureChat)
	assert.True(t, next.AutoCaptureDojo, "untouched field keeps its value")

	low := -3
	bad := "thumbs"
	next = Settings(next, domain.SettingsPatch{DailyLimit: &low, RatingMode: &bad})
	assert.Equal(t, domain.MinDailyLimit, next.DailyLimit, "limit clamps to lower bound")
	assert.Equal(t, domain.RatingModeSimple, next.RatingMode, "invalid mode keeps previous value")

	next = Settings(next, domain.SettingsPatch{})
	assert.Equal(t, domain.MinDailyLimit, next.DailyLimit, "empty patch changes nothing")
}
