// Package snapshot encodes and decodes the deck interchange payload.
// The wire shape uses epoch-millisecond timestamps so snapshots round
// trip with the other tools that speak this format.
package snapshot

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/conorfennell/recall/internal/domain"
	"github.com/conorfennell/recall/internal/sanitize"
)

// Version is the only payload version this codec accepts.
const Version = 1

// Payload is a fully validated, decoded snapshot. Settings stay in
// patch form so merge-mode imports can overlay only the fields the
// payload actually carried.
type Payload struct {
	ExportedAt time.Time
	Items      []domain.MemoryItem
	Events     []domain.ReviewEvent
	Settings   domain.SettingsPatch
}

type itemJSON struct {
	ID           string   `json:"id"`
	Front        string   `json:"front"`
	Back         string   `json:"back"`
	Kind         string   `json:"kind"`
	Language     string   `json:"language,omitempty"`
	Tags         []string `json:"tags"`
	Source       string   `json:"source"`
	CreatedAt    int64    `json:"createdAt"`
	Interval     int      `json:"interval"`
	Repetitions  int      `json:"repetitions"`
	EaseFactor   float64  `json:"easeFactor"`
	NextReview   int64    `json:"nextReview"`
	LastReviewed *int64   `json:"lastReviewed,omitempty"`
}

type eventJSON struct {
	CardID    string `json:"cardId"`
	Quality   int    `json:"quality"`
	Timestamp int64  `json:"timestamp"`
	Day       string `json:"day,omitempty"`
}

type exportJSON struct {
	Version    int             `json:"version"`
	ExportedAt int64           `json:"exportedAt"`
	Items      []itemJSON      `json:"items"`
	ReviewLog  []eventJSON     `json:"reviewLog"`
	Settings   domain.Settings `json:"settings"`
}

type importJSON struct {
	Version    *int                 `json:"version"`
	ExportedAt int64                `json:"exportedAt"`
	Items      []itemJSON           `json:"items"`
	ReviewLog  []eventJSON          `json:"reviewLog"`
	Settings   domain.SettingsPatch `json:"settings"`
}

// Encode serializes the full deck state as a version-1 payload.
func Encode(items []domain.MemoryItem, events []domain.ReviewEvent, settings domain.Settings, now time.Time) ([]byte, error) {
	out := exportJSON{
		Version:    Version,
		ExportedAt: now.UnixMilli(),
		Items:      make([]itemJSON, 0, len(items)),
		ReviewLog:  make([]eventJSON, 0, len(events)),
		Settings:   settings,
	}

	for _, item := range items {
		dto := itemJSON{
			ID:          item.ID,
			Front:       item.Front,
			Back:        item.Back,
			Kind:        string(item.Kind),
			Language:    item.Language,
			Tags:        item.Tags,
			Source:      string(item.Source),
			CreatedAt:   item.CreatedAt.UnixMilli(),
			Interval:    item.IntervalDays,
			Repetitions: item.Repetitions,
			EaseFactor:  item.Ease,
			NextReview:  item.Due.UnixMilli(),
		}
		if item.LastReviewed != nil {
			ms := item.LastReviewed.UnixMilli()
			dto.LastReviewed = &ms
		}
		out.Items = append(out.Items, dto)
	}

	for _, ev := range events {
		out.ReviewLog = append(out.ReviewLog, eventJSON{
			CardID:    ev.ItemID,
			Quality:   ev.Quality,
			Timestamp: ev.At.UnixMilli(),
			Day:       ev.Day,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// Decode parses and fully validates a payload before anything touches
// deck state. A missing or mismatched version is fatal; individual
// items are run through the sanitizer and unsalvageable ones (no front
// or back text) are dropped rather than failing the whole import.
func Decode(data []byte, now time.Time) (*Payload, error) {
	var in importJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSnapshot, err)
	}
	if in.Version == nil {
		return nil, fmt.Errorf("%w: missing version field", domain.ErrInvalidSnapshot)
	}
	if *in.Version != Version {
		return nil, fmt.Errorf("%w: unsupported version %d", domain.ErrInvalidSnapshot, *in.Version)
	}

	p := &Payload{
		ExportedAt: time.UnixMilli(in.ExportedAt),
		Settings:   in.Settings,
	}

	for _, dto := range in.Items {
		input := sanitize.ItemInput{
			ID:           dto.ID,
			Front:        dto.Front,
			Back:         dto.Back,
			Kind:         dto.Kind,
			Language:     dto.Language,
			Tags:         dto.Tags,
			Source:       dto.Source,
			IntervalDays: dto.Interval,
			Repetitions:  dto.Repetitions,
			Ease:         dto.EaseFactor,
		}
		if dto.CreatedAt != 0 {
			input.CreatedAt = time.UnixMilli(dto.CreatedAt)
		}
		if dto.NextReview != 0 {
			input.Due = time.UnixMilli(dto.NextReview)
		}
		if dto.LastReviewed != nil {
			last := time.UnixMilli(*dto.LastReviewed)
			input.LastReviewed = &last
		}

		item, err := sanitize.Item(input, now)
		if err != nil {
			continue
		}
		p.Items = append(p.Items, item)
	}

	for _, dto := range in.ReviewLog {
		if dto.CardID == "" {
			continue
		}
		quality := dto.Quality
		if quality < 0 {
			quality = 0
		}
		if quality > 5 {
			quality = 5
		}
		at := time.UnixMilli(dto.Timestamp)
		day := dto.Day
		if day == "" {
			day = domain.DayKey(at)
		}
		p.Events = append(p.Events, domain.ReviewEvent{
			ItemID:  dto.CardID,
			Quality: quality,
			At:      at,
			Day:     day,
		})
	}

	return p, nil
}
