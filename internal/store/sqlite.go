package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("not found")

type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS subscribers (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    email TEXT UNIQUE NOT NULL,
    source TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL DEFAULT (unixepoch())
);

CREATE INDEX IF NOT EXISTS idx_subscribers_source ON subscribers(source);
CREATE INDEX IF NOT EXISTS idx_subscribers_created ON subscribers(created_at);
`

func Open(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Apply schema
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Subscribe stores email and reports whether it was new. Subscribing an
// address twice keeps the first record.
func (s *SQLiteStore) Subscribe(ctx context.Context, email, source string) (bool, error) {
	now := time.Now().Unix()

	// INSERT OR IGNORE deduplicates on the unique email column
	result, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO subscribers (email, source, created_at) VALUES (?, ?, ?)`,
		email, source, now,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert subscriber: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

func (s *SQLiteStore) GetSubscriber(ctx context.Context, email string) (*Subscriber, error) {
	var sub Subscriber
	var createdAt int64

	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, source, created_at FROM subscribers WHERE email = ?`, email,
	).Scan(&sub.ID, &sub.Email, &sub.Source, &createdAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subscriber: %w", err)
	}

	sub.CreatedAt = time.Unix(createdAt, 0)
	return &sub, nil
}

// ListSubscribers returns every subscriber, newest first.
func (s *SQLiteStore) ListSubscribers(ctx context.Context) ([]*Subscriber, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, email, source, created_at FROM subscribers ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	defer rows.Close()

	var subs []*Subscriber
	for rows.Next() {
		var sub Subscriber
		var createdAt int64
		if err := rows.Scan(&sub.ID, &sub.Email, &sub.Source, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan subscriber: %w", err)
		}
		sub.CreatedAt = time.Unix(createdAt, 0)
		subs = append(subs, &sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}

	return subs, nil
}

func (s *SQLiteStore) CountSubscribers(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM subscribers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count subscribers: %w", err)
	}
	return n, nil
}

// SourceStats counts subscribers per signup source.
func (s *SQLiteStore) SourceStats(ctx context.Context) ([]SourceStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT source, COUNT(*) AS subscribers
		FROM subscribers
		GROUP BY source
		ORDER BY subscribers DESC, source
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get source stats: %w", err)
	}
	defer rows.Close()

	var stats []SourceStats
	for rows.Next() {
		var st SourceStats
		if err := rows.Scan(&st.Source, &st.Subscribers); err != nil {
			return nil, fmt.Errorf("failed to scan stats: %w", err)
		}
		stats = append(stats, st)
	}

	return stats, nil
}

func (s *SQLiteStore) Unsubscribe(ctx context.Context, email string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM subscribers WHERE email = ?`, email)
	if err != nil {
		return fmt.Errorf("failed to delete subscriber: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// DB returns the underlying database connection for health checks
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

var _ Store = (*SQLiteStore)(nil)
