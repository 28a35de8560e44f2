// Package sm2 implements the SM-2-style interval algorithm that decides
// when a memory item should next be reviewed.
package sm2

import (
	"math"
	"time"

	"github.com/conorfennell/recall/internal/domain"
)

// Day is the fixed day length used for due-date arithmetic. Due dates
// are offsets of whole 24h days from the review time, not calendar
// days, so reviews keep their time-of-day across DST changes.
const Day = 24 * time.Hour

// State is the scheduling state of an item: how far out it is
// scheduled, how many successful repetitions it has seen in a row, and
// its ease factor.
type State struct {
	IntervalDays int
	Repetitions  int
	Ease         float64
}

// NewState returns the state a freshly created item starts with:
// immediately due, no repetitions, default ease.
func NewState() State {
	return State{IntervalDays: 0, Repetitions: 0, Ease: domain.DefaultEase}
}

// Review applies one review outcome to a state and returns the next
// state. Quality is the 0-5 rating; anything below 3 counts as a lapse.
//
// The interval growth uses the ease factor from before this review's
// ease adjustment. The rounding here is load-bearing: a different
// rounding of interval*ease shifts every future due date.
func Review(s State, quality int) State {
	next := s

	if quality < 3 {
		next.Repetitions = 0
		next.IntervalDays = 1
	} else {
		switch s.Repetitions {
		case 0:
			next.IntervalDays = 1
		case 1:
			next.IntervalDays = 6
		default:
			next.IntervalDays = int(math.Round(float64(s.IntervalDays) * s.Ease))
		}
		next.Repetitions = s.Repetitions + 1
	}

	q := float64(5 - quality)
	ease := s.Ease + (0.1 - q*(0.08+q*0.02))
	if ease < domain.MinEase {
		ease = domain.MinEase
	}
	next.Ease = ease

	return next
}

// DueAt returns the due date for a state reviewed at the given time.
func DueAt(s State, reviewedAt time.Time) time.Time {
	return reviewedAt.Add(time.Duration(s.IntervalDays) * Day)
}
