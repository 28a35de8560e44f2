// Package storage persists the deck's durable records in sqlite:
// items, the review ledger, settings, and the legacy stats fallback.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/conorfennell/recall/internal/domain"
	_ "modernc.org/sqlite" // Registers the sqlite driver
)

// DB wraps the SQL database connection.
type DB struct {
	conn *sql.DB
}

// Open creates a new database connection and ensures the schema is up
// to date.
func Open(dsn string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &DB{conn: db}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// LoadItems reads the full memory-item collection.
func (db *DB) LoadItems() ([]domain.MemoryItem, error) {
	rows, err := db.conn.Query(`
		SELECT id, front, back, kind, language, tags, source,
		       created_at, interval_days, repetitions, ease, due, last_reviewed
		FROM items ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}
	defer rows.Close()

	var items []domain.MemoryItem
	for rows.Next() {
		var (
			item         domain.MemoryItem
			kind, source string
			tags         string
			createdAt    int64
			due          int64
			lastReviewed sql.NullInt64
		)
		if err := rows.Scan(
			&item.ID, &item.Front, &item.Back, &kind, &item.Language, &tags, &source,
			&createdAt, &item.IntervalDays, &item.Repetitions, &item.Ease, &due, &lastReviewed,
		); err != nil {
			return nil, fmt.Errorf("failed to scan item row: %w", err)
		}
		item.Kind = domain.Kind(kind)
		item.Source = domain.Source(source)
		item.CreatedAt = time.UnixMilli(createdAt)
		item.Due = time.UnixMilli(due)
		if lastReviewed.Valid {
			last := time.UnixMilli(lastReviewed.Int64)
			item.LastReviewed = &last
		}
		if err := json.Unmarshal([]byte(tags), &item.Tags); err != nil {
			return nil, fmt.Errorf("failed to decode tags for item %s: %w", item.ID, err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// SaveItems replaces the stored collection with the given one.
func (db *DB) SaveItems(items []domain.MemoryItem) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin items transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM items`); err != nil {
		return fmt.Errorf("failed to clear items: %w", err)
	}

	for _, item := range items {
		tags, err := json.Marshal(item.Tags)
		if err != nil {
			return fmt.Errorf("failed to encode tags for item %s: %w", item.ID, err)
		}
		var lastReviewed any
		if item.LastReviewed != nil {
			lastReviewed = item.LastReviewed.UnixMilli()
		}
		if _, err := tx.Exec(`
			INSERT INTO items (id, front, back, kind, language, tags, source,
			                   created_at, interval_days, repetitions, ease, due, last_reviewed)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			item.ID, item.Front, item.Back, string(item.Kind), item.Language, string(tags), string(item.Source),
			item.CreatedAt.UnixMilli(), item.IntervalDays, item.Repetitions, item.Ease,
			item.Due.UnixMilli(), lastReviewed,
		); err != nil {
			return fmt.Errorf("failed to insert item %s: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit items: %w", err)
	}
	return nil
}

// LoadEvents reads the review ledger in append order.
func (db *DB) LoadEvents() ([]domain.ReviewEvent, error) {
	rows, err := db.conn.Query(`SELECT item_id, quality, at, day FROM review_log ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to load review ledger: %w", err)
	}
	defer rows.Close()

	var events []domain.ReviewEvent
	for rows.Next() {
		var (
			ev domain.ReviewEvent
			at int64
		)
		if err := rows.Scan(&ev.ItemID, &ev.Quality, &at, &ev.Day); err != nil {
			return nil, fmt.Errorf("failed to scan review event row: %w", err)
		}
		ev.At = time.UnixMilli(at)
		events = append(events, ev)
	}
	return events, rows.Err()
}

// AppendEvents adds events to the end of the ledger.
func (db *DB) AppendEvents(events ...domain.ReviewEvent) error {
	for _, ev := range events {
		if _, err := db.conn.Exec(`
			INSERT INTO review_log (item_id, quality, at, day) VALUES (?, ?, ?, ?)
		`, ev.ItemID, ev.Quality, ev.At.UnixMilli(), ev.Day); err != nil {
			return fmt.Errorf("failed to append review event for item %s: %w", ev.ItemID, err)
		}
	}
	return nil
}

// ReplaceEvents rewrites the ledger wholesale. Only snapshot imports
// use this; normal reviews append.
func (db *DB) ReplaceEvents(events []domain.ReviewEvent) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin ledger transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM review_log`); err != nil {
		return fmt.Errorf("failed to clear review ledger: %w", err)
	}
	for _, ev := range events {
		if _, err := tx.Exec(`
			INSERT INTO review_log (item_id, quality, at, day) VALUES (?, ?, ?, ?)
		`, ev.ItemID, ev.Quality, ev.At.UnixMilli(), ev.Day); err != nil {
			return fmt.Errorf("failed to insert review event for item %s: %w", ev.ItemID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit review ledger: %w", err)
	}
	return nil
}

// LoadSettings reads the settings record, or nil if none has been
// persisted yet.
func (db *DB) LoadSettings() (*domain.Settings, error) {
	var (
		s          domain.Settings
		ratingMode string
		chat, dojo int
	)
	row := db.conn.QueryRow(`
		SELECT daily_limit, rating_mode, auto_capture_chat, auto_capture_dojo
		FROM settings WHERE id = 1
	`)
	if err := row.Scan(&s.DailyLimit, &ratingMode, &chat, &dojo); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	s.RatingMode = domain.RatingMode(ratingMode)
	s.AutoCaptureChat = chat != 0
	s.AutoCaptureDojo = dojo != 0
	return &s, nil
}

// SaveSettings upserts the single settings record.
func (db *DB) SaveSettings(s domain.Settings) error {
	_, err := db.conn.Exec(`
		INSERT INTO settings (id, daily_limit, rating_mode, auto_capture_chat, auto_capture_dojo)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			daily_limit = excluded.daily_limit,
			rating_mode = excluded.rating_mode,
			auto_capture_chat = excluded.auto_capture_chat,
			auto_capture_dojo = excluded.auto_capture_dojo
	`, s.DailyLimit, string(s.RatingMode), boolInt(s.AutoCaptureChat), boolInt(s.AutoCaptureDojo))
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// LoadLegacyStats reads the pre-ledger stats snapshot, or nil if the
// install never had one.
func (db *DB) LoadLegacyStats() (*domain.LegacyStats, error) {
	var ls domain.LegacyStats
	row := db.conn.QueryRow(`
		SELECT total_cards, cards_reviewed_today, cards_due_today,
		       current_streak, longest_streak, average_ease
		FROM legacy_stats WHERE id = 1
	`)
	if err := row.Scan(
		&ls.TotalCards, &ls.CardsReviewedToday, &ls.CardsDueToday,
		&ls.CurrentStreak, &ls.LongestStreak, &ls.AverageEase,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load legacy stats: %w", err)
	}
	return &ls, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
