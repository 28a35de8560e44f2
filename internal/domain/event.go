package domain

import "time"

// ReviewEvent records one review outcome in the ledger.
//
// The ledger is append-only and is the sole source of truth for derived
// statistics. Events reference items by ID and deliberately outlive
// deletion of the item they refer to.
type ReviewEvent struct {
	ItemID  string    `json:"cardId"`
	Quality int       `json:"quality"`
	At      time.Time `json:"timestamp"`
	Day     string    `json:"day"`
}

// DayKey buckets a timestamp into its local calendar day.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// NewReviewEvent builds a ledger entry for a review performed at the
// given time.
func NewReviewEvent(itemID string, quality int, at time.Time) ReviewEvent {
	return ReviewEvent{
		ItemID:  itemID,
		Quality: quality,
		At:      at,
		Day:     DayKey(at),
	}
}
