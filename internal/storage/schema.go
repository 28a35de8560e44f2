package storage

const schema = `
-- The current memory-item collection. Timestamps are epoch milliseconds,
-- matching the snapshot interchange format.
CREATE TABLE IF NOT EXISTS items (
    id TEXT PRIMARY KEY,
    front TEXT NOT NULL,
    back TEXT NOT NULL,
    kind TEXT NOT NULL,
    language TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL DEFAULT '[]',
    source TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    interval_days INTEGER NOT NULL,
    repetitions INTEGER NOT NULL,
    ease REAL NOT NULL,
    due INTEGER NOT NULL,
    last_reviewed INTEGER
);

-- The append-only review ledger.
CREATE TABLE IF NOT EXISTS review_log (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    item_id TEXT NOT NULL,
    quality INTEGER NOT NULL,
    at INTEGER NOT NULL,
    day TEXT NOT NULL
);

-- The single settings record.
CREATE TABLE IF NOT EXISTS settings (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    daily_limit INTEGER NOT NULL,
    rating_mode TEXT NOT NULL,
    auto_capture_chat INTEGER NOT NULL,
    auto_capture_dojo INTEGER NOT NULL
);

-- Pre-ledger stats snapshot from older installs. Read-only fallback;
-- nothing here ever writes to it.
CREATE TABLE IF NOT EXISTS legacy_stats (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    total_cards INTEGER NOT NULL,
    cards_reviewed_today INTEGER NOT NULL,
    cards_due_today INTEGER NOT NULL,
    current_streak INTEGER NOT NULL,
    longest_streak INTEGER NOT NULL,
    average_ease REAL NOT NULL
);
`
