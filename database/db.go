package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

type DB struct {
	*sql.DB
}

func New(dbPath string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Foreign keys and busy timeout are per connection, so they go in the DSN
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	return &DB{db}, nil
}

func (db *DB) Migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			google_id TEXT UNIQUE NOT NULL,
			email TEXT NOT NULL,
			name TEXT,
			picture TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			last_login_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			email TEXT NOT NULL,
			name TEXT,
			picture TEXT,
			access_token TEXT,
			refresh_token TEXT,
			token_expiry DATETIME,
			expires_at DATETIME NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			last_used_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		)`,

		`CREATE TABLE IF NOT EXISTS classes (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			owner_id TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (owner_id) REFERENCES users(id) ON DELETE CASCADE
		)`,

		`CREATE TABLE IF NOT EXISTS class_members (
			class_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'member',
			joined_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (class_id, user_id),
			FOREIGN KEY (class_id) REFERENCES classes(id) ON DELETE CASCADE,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		)`,

		`CREATE TABLE IF NOT EXISTS invitations (
			code TEXT PRIMARY KEY,
			class_id TEXT NOT NULL,
			created_by TEXT NOT NULL,
			max_uses INTEGER NOT NULL DEFAULT 0,
			uses INTEGER NOT NULL DEFAULT 0,
			expires_at DATETIME,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (class_id) REFERENCES classes(id) ON DELETE CASCADE
		)`,

		`CREATE TABLE IF NOT EXISTS weeks (
			id TEXT PRIMARY KEY,
			class_id TEXT NOT NULL,
			label TEXT NOT NULL,
			starts_on TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (class_id) REFERENCES classes(id) ON DELETE CASCADE
		)`,

		`CREATE TABLE IF NOT EXISTS lessons (
			id TEXT PRIMARY KEY,
			week_id TEXT NOT NULL,
			day INTEGER NOT NULL,
			period INTEGER NOT NULL,
			starts_at TEXT,
			ends_at TEXT,
			subject TEXT NOT NULL,
			teacher TEXT,
			room TEXT,
			notes TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (week_id) REFERENCES weeks(id) ON DELETE CASCADE
		)`,

		// Partition tags per lesson; scheme is 'group' or 'specialization'
		`CREATE TABLE IF NOT EXISTS lesson_partitions (
			lesson_id TEXT NOT NULL,
			scheme TEXT NOT NULL,
			partition_id INTEGER NOT NULL,
			PRIMARY KEY (lesson_id, scheme, partition_id),
			FOREIGN KEY (lesson_id) REFERENCES lessons(id) ON DELETE CASCADE
		)`,

		`CREATE TABLE IF NOT EXISTS import_jobs (
			id TEXT PRIMARY KEY,
			class_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			filename TEXT NOT NULL,
			content_type TEXT,
			source TEXT NOT NULL,
			payload BLOB,
			status TEXT NOT NULL DEFAULT 'pending',
			retry_count INTEGER NOT NULL DEFAULT 0,
			error TEXT,
			week_id TEXT,
			last_attempt_at DATETIME,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (class_id) REFERENCES classes(id) ON DELETE CASCADE
		)`,

		`CREATE TABLE IF NOT EXISTS preferences (
			user_id TEXT NOT NULL,
			key TEXT NOT NULL,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, key)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_members_user ON class_members(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_weeks_class ON weeks(class_id, starts_on)`,
		`CREATE INDEX IF NOT EXISTS idx_lessons_week ON lessons(week_id, day, period)`,
		`CREATE INDEX IF NOT EXISTS idx_partitions_lookup ON lesson_partitions(scheme, partition_id)`,
		`CREATE INDEX IF NOT EXISTS idx_import_jobs_status ON import_jobs(status) WHERE status IN ('pending', 'failed')`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

func (db *DB) Close() error {
	return db.DB.Close()
}
