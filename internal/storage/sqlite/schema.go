package sqlite

// migrations are applied in order; PRAGMA user_version records how many ran.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS kv (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS notifications (
		identifier   TEXT PRIMARY KEY,
		app_id       INTEGER NOT NULL DEFAULT 0,
		title        TEXT NOT NULL,
		body         TEXT NOT NULL,
		payload      TEXT NOT NULL,
		state        TEXT NOT NULL CHECK (state IN ('pending', 'delivered')),
		scheduled_at TEXT NOT NULL,
		delivered_at TEXT NOT NULL DEFAULT ''
	);`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_state_scheduled
		ON notifications (state, scheduled_at);`,
}

// SchemaVersion is the user_version of a fully migrated database.
var SchemaVersion = len(migrations)
