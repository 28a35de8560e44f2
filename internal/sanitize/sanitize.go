// Package sanitize is the trust boundary for loosely-typed card input.
// Everything that wants to become a MemoryItem passes through here
// first: manual entry, generated candidates, seeded files, and imported
// snapshots. Rejection is a normal outcome, not an exception; batch
// call sites count rejections and move on.
package sanitize

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/conorfennell/recall/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ItemInput is a loosely-typed candidate record for a memory item.
// Zero values stand in for missing fields and are coerced to safe
// defaults; only unusable content (empty front or back) is rejected.
type ItemInput struct {
	ID           string
	Front        string
	Back         string
	Kind         string
	Language     string
	Tags         []string
	Source       string
	CreatedAt    time.Time
	IntervalDays int
	Repetitions  int
	Ease         float64
	Due          time.Time
	LastReviewed *time.Time
}

// FromCandidate adapts a generated candidate into sanitizer input.
// Scheduling fields are left at their zero values so the item starts
// immediately due.
func FromCandidate(c domain.Candidate) ItemInput {
	return ItemInput{
		Kind:     c.Kind,
		Front:    c.Front,
		Back:     c.Back,
		Language: c.Language,
		Tags:     c.Tags,
	}
}

// Item normalizes the input into a valid MemoryItem or returns an
// error describing why it is unusable.
//
// Coercions: unrecognized kind becomes basic, missing source becomes
// manual, a missing ID is generated, negative or NaN numeric fields are
// reset (ease to the default, counters to zero), a present ease is
// floored at the minimum, and a missing due date means immediately due.
func Item(in ItemInput, now time.Time) (domain.MemoryItem, error) {
	front := strings.TrimSpace(in.Front)
	back := strings.TrimSpace(in.Back)
	if front == "" || back == "" {
		return domain.MemoryItem{}, domain.ErrEmptyContent
	}

	item := domain.MemoryItem{
		ID:           strings.TrimSpace(in.ID),
		Front:        front,
		Back:         back,
		Kind:         domain.ParseKind(in.Kind),
		Language:     strings.TrimSpace(in.Language),
		Tags:         cleanTags(in.Tags),
		Source:       domain.ParseSource(in.Source),
		CreatedAt:    in.CreatedAt,
		IntervalDays: in.IntervalDays,
		Repetitions:  in.Repetitions,
		Ease:         in.Ease,
		Due:          in.Due,
		LastReviewed: in.LastReviewed,
	}

	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	if item.IntervalDays < 0 {
		item.IntervalDays = 0
	}
	if item.Repetitions < 0 {
		item.Repetitions = 0
	}
	switch {
	case math.IsNaN(item.Ease) || item.Ease == 0:
		item.Ease = domain.DefaultEase
	case item.Ease < domain.MinEase:
		item.Ease = domain.MinEase
	}
	if item.Due.IsZero() {
		item.Due = now
	}

	if err := validate.Struct(item); err != nil {
		return domain.MemoryItem{}, fmt.Errorf("sanitized item failed validation: %w", err)
	}
	return item, nil
}

// Settings merges a partial update onto the current settings with
// field-level sanitization: the daily limit is clamped to its range, an
// unknown rating mode keeps the previous value, and nil fields are left
// untouched.
func Settings(current domain.Settings, patch domain.SettingsPatch) domain.Settings {
	next := current

	if patch.DailyLimit != nil {
		limit := *patch.DailyLimit
		if limit < domain.MinDailyLimit {
			limit = domain.MinDailyLimit
		}
		if limit > domain.MaxDailyLimit {
			limit = domain.MaxDailyLimit
		}
		next.DailyLimit = limit
	}
	if patch.RatingMode != nil {
		switch mode := domain.RatingMode(*patch.RatingMode); mode {
		case domain.RatingModeSimple, domain.RatingModeDetailed:
			next.RatingMode = mode
		}
	}
	if patch.AutoCaptureChat != nil {
		next.AutoCaptureChat = *patch.AutoCaptureChat
	}
	if patch.AutoCaptureDojo != nil {
		next.AutoCaptureDojo = *patch.AutoCaptureDojo
	}

	if err := validate.Struct(next); err != nil {
		// The clamps above keep this unreachable; fall back to known-good
		// values rather than persisting a bad record.
		return domain.DefaultSettings()
	}
	return next
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if t := strings.TrimSpace(tag); t != "" {
			out = append(out, t)
		}
	}
	return out
}
