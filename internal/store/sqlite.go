package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ashureev/practice-coach/internal/domain"
	"github.com/ashureev/practice-coach/internal/shared"
)

const (
	maxWriteRetries = 3
	retryBaseDelay  = 50 * time.Millisecond
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db        *sql.DB
	historyMu sync.Mutex // serializes history writes to avoid SQLITE_BUSY
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS users (
		user_id TEXT PRIMARY KEY,
		username TEXT NOT NULL,
		last_seen_at INTEGER NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_last_seen ON users(last_seen_at);

	CREATE TABLE IF NOT EXISTS practice_history (
		user_id TEXT PRIMARY KEY,
		sessions_json TEXT NOT NULL,
		session_count INTEGER NOT NULL DEFAULT 0,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_practice_history_updated ON practice_history(updated_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetUser retrieves a user by their user ID.
func (s *SQLiteStore) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	query := `
		SELECT user_id, username, last_seen_at, created_at, updated_at
		FROM users WHERE user_id = ?`

	var user domain.User
	var lastSeen, createdAt, updatedAt int64

	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&user.UserID, &user.Username, &lastSeen, &createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan user row: %w", err)
	}

	user.LastSeenAt = time.Unix(lastSeen, 0)
	user.CreatedAt = time.Unix(createdAt, 0)
	user.UpdatedAt = time.Unix(updatedAt, 0)
	return &user, nil
}

// UpsertUser creates or updates a user record.
func (s *SQLiteStore) UpsertUser(ctx context.Context, user *domain.User) error {
	query := `
	INSERT INTO users (user_id, username, last_seen_at, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(user_id) DO UPDATE SET
		username = excluded.username,
		last_seen_at = excluded.last_seen_at,
		updated_at = excluded.updated_at`

	_, err := s.db.ExecContext(ctx, query,
		user.UserID, user.Username, user.LastSeenAt.Unix(),
		user.CreatedAt.Unix(), user.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// UpdateLastSeen updates the last_seen_at timestamp for a user.
func (s *SQLiteStore) UpdateLastSeen(ctx context.Context, userID string, lastSeen time.Time) error {
	query := `UPDATE users SET last_seen_at = ?, updated_at = ? WHERE user_id = ?`
	result, err := s.db.ExecContext(ctx, query, lastSeen.Unix(), time.Now().Unix(), userID)
	if err != nil {
		return fmt.Errorf("update last_seen: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		slog.Warn("UpdateLastSeen affected 0 rows", "user_id", userID)
	}
	return nil
}

// LoadHistory returns the archived sessions of a user, most recent first.
// A user without history yields an empty slice.
func (s *SQLiteStore) LoadHistory(ctx context.Context, userID string) ([]domain.Session, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT sessions_json FROM practice_history WHERE user_id = ?`, userID,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return []domain.Session{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan practice history: %w", err)
	}

	var sessions []domain.Session
	if err := json.Unmarshal([]byte(raw), &sessions); err != nil {
		return nil, fmt.Errorf("decode practice history for %s: %w", userID, err)
	}
	return sessions, nil
}

// SaveHistory replaces the archived sessions of a user.
// Implements retry logic with exponential backoff to handle SQLITE_BUSY errors.
func (s *SQLiteStore) SaveHistory(ctx context.Context, userID string, sessions []domain.Session) error {
	if sessions == nil {
		sessions = []domain.Session{}
	}
	data, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("encode practice history: %w", err)
	}

	for i := 0; i < maxWriteRetries; i++ {
		err = s.saveHistoryOnce(ctx, userID, string(data), len(sessions))
		if err == nil {
			return nil
		}
		if !shared.IsSQLiteConflictError(err) || i == maxWriteRetries-1 {
			break
		}

		delay := retryBaseDelay * time.Duration(1<<i) // 50ms, 100ms
		slog.Debug("SaveHistory failed with SQLITE_BUSY, retrying",
			"user_id", userID,
			"attempt", i+1,
			"delay", delay)
		select {
		case <-ctx.Done():
			return fmt.Errorf("save practice history for %s: %w", userID, ctx.Err())
		case <-time.After(delay):
		}
	}
	return fmt.Errorf("save practice history for %s: %w", userID, err)
}

func (s *SQLiteStore) saveHistoryOnce(ctx context.Context, userID, sessionsJSON string, count int) error {
	s.historyMu.Lock()
	defer s.historyMu.Unlock()

	query := `
		INSERT INTO practice_history (user_id, sessions_json, session_count, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			sessions_json = excluded.sessions_json,
			session_count = excluded.session_count,
			updated_at = excluded.updated_at`
	if _, err := s.db.ExecContext(ctx, query, userID, sessionsJSON, count, time.Now().Unix()); err != nil {
		return fmt.Errorf("upsert practice history: %w", err)
	}
	return nil
}

// CleanupStaleHistory removes histories not written within ttl.
func (s *SQLiteStore) CleanupStaleHistory(ctx context.Context, ttl time.Duration) (int64, error) {
	threshold := time.Now().Add(-ttl).Unix()
	result, err := s.db.ExecContext(ctx, `DELETE FROM practice_history WHERE updated_at < ?`, threshold)
	if err != nil {
		return 0, fmt.Errorf("cleanup stale history: %w", err)
	}
	return result.RowsAffected()
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
