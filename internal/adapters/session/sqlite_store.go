package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikey/mailguard/internal/core"
	"go.uber.org/zap"
)

// SQLiteStore is a SQLite implementation of the SessionStore interface. It
// keeps the session across CLI invocations.
type SQLiteStore struct {
	db        *sql.DB
	namespace string
	logger    *zap.Logger
}

// NewSQLiteStore opens (and if needed creates) a SQLite session database
func NewSQLiteStore(dbPath, namespace string, logger *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Create table if it doesn't exist
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS session_values (
			namespace TEXT NOT NULL,
			name TEXT NOT NULL,
			value TEXT NOT NULL,
			updated_at TIMESTAMP,
			PRIMARY KEY (namespace, name)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	logger.Debug("Opened SQLite session store",
		zap.String("path", dbPath),
		zap.String("namespace", namespace))

	return &SQLiteStore{
		db:        db,
		namespace: namespace,
		logger:    logger,
	}, nil
}

// Get retrieves a session value
func (s *SQLiteStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `
		SELECT value
		FROM session_values
		WHERE namespace = ? AND name = ?
	`, s.namespace, key).Scan(&value)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", core.ErrKeyNotFound
		}
		return "", fmt.Errorf("failed to query session value: %w", err)
	}
	return value, nil
}

// Set stores a session value
func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO session_values (namespace, name, value, updated_at)
		VALUES (?, ?, ?, ?)
	`, s.namespace, key, value, time.Now().UTC().Format(time.RFC3339))

	if err != nil {
		return fmt.Errorf("failed to store session value: %w", err)
	}
	return nil
}

// Clear removes a session value
func (s *SQLiteStore) Clear(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM session_values
		WHERE namespace = ? AND name = ?
	`, s.namespace, key)

	if err != nil {
		return fmt.Errorf("failed to clear session value: %w", err)
	}
	return nil
}

// Stop closes the database connection
func (s *SQLiteStore) Stop() {
	if err := s.db.Close(); err != nil {
		s.logger.Error("Failed to close SQLite database", zap.Error(err))
	}
}
