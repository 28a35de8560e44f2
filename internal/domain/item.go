package domain

import "time"

// Kind classifies how a memory item is presented during review.
type Kind string

const (
	KindBasic Kind = "basic"
	KindCloze Kind = "cloze"
	KindCode  Kind = "code"
)

// ParseKind maps a loose string onto a Kind. Unrecognized values
// fall back to KindBasic.
func ParseKind(s string) Kind {
	switch Kind(s) {
	case KindBasic, KindCloze, KindCode:
		return Kind(s)
	default:
		return KindBasic
	}
}

// Source records where a memory item came from.
type Source string

const (
	SourceManual Source = "manual"
	SourceChat   Source = "chat"
	SourceDojo   Source = "dojo"
)

// ParseSource maps a loose string onto a Source, defaulting to SourceManual.
func ParseSource(s string) Source {
	switch Source(s) {
	case SourceManual, SourceChat, SourceDojo:
		return Source(s)
	default:
		return SourceManual
	}
}

// MinEase is the floor for an item's ease factor. The scheduler never
// lets ease drop below it.
const MinEase = 1.3

// DefaultEase is the ease factor assigned to items that arrive without one.
const DefaultEase = 2.5

// MemoryItem is a single flashcard together with its scheduling state.
//
// IntervalDays and Repetitions are never negative, Ease never drops
// below MinEase, and Due is always set once the item exists. Only the
// scheduler mutates the scheduling fields.
type MemoryItem struct {
	ID           string     `json:"id"            validate:"required"`
	Front        string     `json:"front"         validate:"required"`
	Back         string     `json:"back"          validate:"required"`
	Kind         Kind       `json:"kind"          validate:"oneof=basic cloze code"`
	Language     string     `json:"language,omitempty"`
	Tags         []string   `json:"tags"`
	Source       Source     `json:"source"        validate:"oneof=manual chat dojo"`
	CreatedAt    time.Time  `json:"createdAt"`
	IntervalDays int        `json:"interval"      validate:"gte=0"`
	Repetitions  int        `json:"repetitions"   validate:"gte=0"`
	Ease         float64    `json:"easeFactor"    validate:"gte=1.3"`
	Due          time.Time  `json:"nextReview"`
	LastReviewed *time.Time `json:"lastReviewed,omitempty"`
}
