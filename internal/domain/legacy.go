package domain

// LegacyStats is a pre-ledger statistics snapshot kept around for
// installs that predate the review ledger. It is read-only and is
// consulted only when the ledger is empty.
type LegacyStats struct {
	TotalCards         int     `json:"totalCards"`
	CardsReviewedToday int     `json:"cardsReviewedToday"`
	CardsDueToday      int     `json:"cardsDueToday"`
	CurrentStreak      int     `json:"currentStreak"`
	LongestStreak      int     `json:"longestStreak"`
	AverageEase        float64 `json:"averageEaseFactor"`
}
