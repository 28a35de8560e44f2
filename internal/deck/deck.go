// Package deck is the spaced-repetition engine: it owns the current
// item collection, the append-only review ledger, and the settings
// record, and exposes the whole mutation surface of the core
// (add/delete/review/ingest/settings/import) plus its read-side
// derivations (due selection, streaks, progress, stats).
package deck

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/conorfennell/recall/internal/domain"
	"github.com/conorfennell/recall/internal/sanitize"
	"github.com/conorfennell/recall/internal/sm2"
)

// Store persists the deck's durable records. Persistence after a
// mutation is fire-and-forget: a failed write is logged, never
// propagated, so a crash between mutation and flush can lose the most
// recent change.
type Store interface {
	LoadItems() ([]domain.MemoryItem, error)
	SaveItems(items []domain.MemoryItem) error
	LoadEvents() ([]domain.ReviewEvent, error)
	AppendEvents(events ...domain.ReviewEvent) error
	ReplaceEvents(events []domain.ReviewEvent) error
	LoadSettings() (*domain.Settings, error)
	SaveSettings(settings domain.Settings) error
	LoadLegacyStats() (*domain.LegacyStats, error)
}

// EngagementFunc is called once per successful review with the total
// number of ledger entries. The engine ignores whatever the tracker
// does with it.
type EngagementFunc func(totalReviews int)

// Deck is the engine. All mutating operations run to completion under
// one lock before the next begins.
type Deck struct {
	mu       sync.Mutex
	items    []domain.MemoryItem
	byID     map[string]int
	events   []domain.ReviewEvent
	settings domain.Settings
	legacy   *domain.LegacyStats

	store    Store
	log      *slog.Logger
	onReview EngagementFunc
	now      func() time.Time
}

// New builds a Deck, loading any previously persisted state from the
// store. A nil store gives a purely in-memory deck.
func New(store Store, log *slog.Logger) (*Deck, error) {
	if log == nil {
		log = slog.Default()
	}
	d := &Deck{
		byID:     make(map[string]int),
		settings: domain.DefaultSettings(),
		store:    store,
		log:      log,
		now:      time.Now,
	}
	if store == nil {
		return d, nil
	}

	items, err := store.LoadItems()
	if err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}
	for _, item := range items {
		d.byID[item.ID] = len(d.items)
		d.items = append(d.items, item)
	}

	if d.events, err = store.LoadEvents(); err != nil {
		return nil, fmt.Errorf("failed to load review ledger: %w", err)
	}

	settings, err := store.LoadSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if settings != nil {
		d.settings = *settings
	}

	// Pre-ledger installs persisted a stats snapshot; keep it around as
	// a fallback but never trust it once the ledger has entries.
	if d.legacy, err = store.LoadLegacyStats(); err != nil {
		log.Warn("ignoring unreadable legacy stats record", "error", err)
		d.legacy = nil
	}

	return d, nil
}

// SetEngagement registers the engagement tracker callback.
func (d *Deck) SetEngagement(fn EngagementFunc) {
	d.mu.Lock()
	d.onReview = fn
	d.mu.Unlock()
}

// Add sanitizes the input and inserts it as a new item. Providing an ID
// that is already taken is an error; IDs are never reused.
func (d *Deck) Add(in sanitize.ItemInput) (domain.MemoryItem, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	item, err := sanitize.Item(in, d.now())
	if err != nil {
		return domain.MemoryItem{}, err
	}
	if _, exists := d.byID[item.ID]; exists {
		return domain.MemoryItem{}, fmt.Errorf("%w: %s", domain.ErrDuplicateID, item.ID)
	}

	d.byID[item.ID] = len(d.items)
	d.items = append(d.items, item)
	d.persistItems()
	return item, nil
}

// Get returns the item with the given ID.
func (d *Deck) Get(id string) (domain.MemoryItem, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	idx, ok := d.byID[id]
	if !ok {
		return domain.MemoryItem{}, fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
	}
	return d.items[idx], nil
}

// Delete removes an item. The ledger keeps the item's review events;
// they reference the ID, they do not own the item.
func (d *Deck) Delete(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	idx, ok := d.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
	}

	d.items = append(d.items[:idx], d.items[idx+1:]...)
	delete(d.byID, id)
	for i := idx; i < len(d.items); i++ {
		d.byID[d.items[i].ID] = i
	}
	d.persistItems()
	return nil
}

// Review applies one review outcome: the scheduler rewrites the item's
// interval/repetitions/ease/due state and exactly one event is appended
// to the ledger. Reviewing an unknown ID is an explicit error.
func (d *Deck) Review(id string, quality int) (domain.MemoryItem, error) {
	if quality < 0 || quality > 5 {
		return domain.MemoryItem{}, fmt.Errorf("%w: %d", domain.ErrInvalidQuality, quality)
	}

	d.mu.Lock()
	idx, ok := d.byID[id]
	if !ok {
		d.mu.Unlock()
		return domain.MemoryItem{}, fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
	}

	now := d.now()
	item := d.items[idx]
	state := sm2.Review(sm2.State{
		IntervalDays: item.IntervalDays,
		Repetitions:  item.Repetitions,
		Ease:         item.Ease,
	}, quality)

	item.IntervalDays = state.IntervalDays
	item.Repetitions = state.Repetitions
	item.Ease = state.Ease
	item.Due = sm2.DueAt(state, now)
	reviewedAt := now
	item.LastReviewed = &reviewedAt
	d.items[idx] = item

	event := domain.NewReviewEvent(id, quality, now)
	d.events = append(d.events, event)
	total := len(d.events)

	d.persistItems()
	d.persistAppend(event)
	tracker := d.onReview
	d.mu.Unlock()

	if tracker != nil {
		tracker(total)
	}
	return item, nil
}

// Due returns every item due at or before now, ascending by due date.
// An optional limit truncates the result; a supplied limit is clamped
// to at least 1.
func (d *Deck) Due(limit ...int) []domain.MemoryItem {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	var due []domain.MemoryItem
	for _, item := range d.items {
		if !item.Due.After(now) {
			due = append(due, item)
		}
	}
	sort.SliceStable(due, func(i, j int) bool { return due[i].Due.Before(due[j].Due) })

	if len(limit) > 0 {
		n := limit[0]
		if n < 1 {
			n = 1
		}
		if n < len(due) {
			due = due[:n]
		}
	}
	return due
}

// Items returns a copy of the current collection in insertion order.
func (d *Deck) Items() []domain.MemoryItem {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]domain.MemoryItem, len(d.items))
	copy(out, d.items)
	return out
}

// Events returns a copy of the review ledger.
func (d *Deck) Events() []domain.ReviewEvent {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]domain.ReviewEvent, len(d.events))
	copy(out, d.events)
	return out
}

// Settings returns the current settings record.
func (d *Deck) Settings() domain.Settings {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.settings
}

// UpdateSettings merges a partial update onto the current settings and
// returns the result.
func (d *Deck) UpdateSettings(patch domain.SettingsPatch) domain.Settings {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.settings = sanitize.Settings(d.settings, patch)
	d.persistSettings()
	return d.settings
}

func (d *Deck) persistItems() {
	if d.store == nil {
		return
	}
	if err := d.store.SaveItems(d.items); err != nil {
		d.log.Warn("failed to persist items", "error", err)
	}
}

func (d *Deck) persistAppend(events ...domain.ReviewEvent) {
	if d.store == nil {
		return
	}
	if err := d.store.AppendEvents(events...); err != nil {
		d.log.Warn("failed to persist review events", "error", err)
	}
}

func (d *Deck) persistEvents() {
	if d.store == nil {
		return
	}
	if err := d.store.ReplaceEvents(d.events); err != nil {
		d.log.Warn("failed to persist review ledger", "error", err)
	}
}

func (d *Deck) persistSettings() {
	if d.store == nil {
		return
	}
	if err := d.store.SaveSettings(d.settings); err != nil {
		d.log.Warn("failed to persist settings", "error", err)
	}
}
