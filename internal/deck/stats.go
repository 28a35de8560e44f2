package deck

import (
	"sort"
	"time"

	"github.com/conorfennell/recall/internal/domain"
)

// Progress bucket thresholds. An item is mature once its interval
// reaches three weeks; mature items split on ease.
const (
	matureIntervalDays = 21
	masteredEase       = 2.5
)

// Streaks holds the derived review-day streaks.
type Streaks struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// Progress partitions the deck into four mutually exclusive buckets.
// The counts always sum to the total item count.
type Progress struct {
	New      int `json:"new"`
	Learning int `json:"learning"`
	Review   int `json:"review"`
	Mastered int `json:"mastered"`
}

// Stats is the aggregate view derived from the store and the ledger.
type Stats struct {
	TotalItems    int     `json:"totalItems"`
	DueNow        int     `json:"dueNow"`
	ReviewedToday int     `json:"reviewedToday"`
	TotalReviews  int     `json:"totalReviews"`
	Accuracy      float64 `json:"accuracy"`
	AverageEase   float64 `json:"averageEase"`
	CurrentStreak int     `json:"currentStreak"`
	LongestStreak int     `json:"longestStreak"`
}

// Streaks recomputes the current and longest review streaks from the
// distinct day-keys in the ledger. The legacy stats record is consulted
// only when the ledger is empty.
func (d *Deck) Streaks() Streaks {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.streaksLocked()
}

func (d *Deck) streaksLocked() Streaks {
	if len(d.events) == 0 {
		if d.legacy != nil {
			return Streaks{Current: d.legacy.CurrentStreak, Longest: d.legacy.LongestStreak}
		}
		return Streaks{}
	}

	days := make(map[string]struct{}, len(d.events))
	for _, ev := range d.events {
		days[ev.Day] = struct{}{}
	}

	// Current: walk backward from today while each day has activity. A
	// day without activity today means the streak is already 0.
	var current int
	cursor := d.now()
	for {
		if _, ok := days[domain.DayKey(cursor)]; !ok {
			break
		}
		current++
		cursor = cursor.AddDate(0, 0, -1)
	}

	// Longest: scan distinct days in calendar order; a gap of exactly
	// one day extends the run, anything else resets it.
	keys := make([]string, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	longest, run := 0, 0
	var prev time.Time
	for i, key := range keys {
		day, err := time.ParseInLocation("2006-01-02", key, time.Local)
		if err != nil {
			continue
		}
		if i == 0 || !prev.AddDate(0, 0, 1).Equal(day) {
			run = 1
		} else {
			run++
		}
		if run > longest {
			longest = run
		}
		prev = day
	}

	return Streaks{Current: current, Longest: longest}
}

// Progress classifies every item into exactly one bucket.
func (d *Deck) Progress() Progress {
	d.mu.Lock()
	defer d.mu.Unlock()

	var p Progress
	for _, item := range d.items {
		switch {
		case item.Repetitions == 0:
			p.New++
		case item.IntervalDays < matureIntervalDays:
			p.Learning++
		case item.Ease >= masteredEase:
			p.Mastered++
		default:
			p.Review++
		}
	}
	return p
}

// Stats recomputes the aggregate statistics fresh from the store and
// the ledger. Nothing here is incrementally cached; merged imports can
// insert events out of order and a recomputation stays correct.
func (d *Deck) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	s := Stats{
		TotalItems:   len(d.items),
		TotalReviews: len(d.events),
	}

	var easeSum float64
	for _, item := range d.items {
		easeSum += item.Ease
		if !item.Due.After(now) {
			s.DueNow++
		}
	}
	if len(d.items) > 0 {
		s.AverageEase = easeSum / float64(len(d.items))
	}

	today := domain.DayKey(now)
	var correct int
	for _, ev := range d.events {
		if ev.Day == today {
			s.ReviewedToday++
		}
		if ev.Quality >= 3 {
			correct++
		}
	}
	if len(d.events) > 0 {
		s.Accuracy = float64(correct) / float64(len(d.events))
	}

	streaks := d.streaksLocked()
	s.CurrentStreak = streaks.Current
	s.LongestStreak = streaks.Longest
	return s
}
