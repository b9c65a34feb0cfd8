package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/mikey/mailguard/internal/core"
	"go.uber.org/zap"
)

// MySQLStore is a MySQL implementation of the SessionStore interface, for
// sessions shared between machines
type MySQLStore struct {
	db        *sql.DB
	namespace string
	logger    *zap.Logger
}

// NewMySQLStore connects to MySQL and prepares the session table
func NewMySQLStore(dsn, namespace string, logger *zap.Logger) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS session_values (
			namespace VARCHAR(128) NOT NULL,
			name VARCHAR(128) NOT NULL,
			value TEXT NOT NULL,
			updated_at TIMESTAMP,
			PRIMARY KEY (namespace, name)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &MySQLStore{
		db:        db,
		namespace: namespace,
		logger:    logger,
	}, nil
}

// Get retrieves a session value
func (s *MySQLStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM session_values WHERE namespace = ? AND name = ?",
		s.namespace, key).Scan(&value)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", core.ErrKeyNotFound
		}
		return "", fmt.Errorf("failed to query session value: %w", err)
	}
	return value, nil
}

// Set stores a session value
func (s *MySQLStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session_values (namespace, name, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			value = VALUES(value),
			updated_at = VALUES(updated_at)
	`, s.namespace, key, value, time.Now().UTC().Format("2006-01-02 15:04:05"))

	if err != nil {
		return fmt.Errorf("failed to store session value: %w", err)
	}
	return nil
}

// Clear removes a session value
func (s *MySQLStore) Clear(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM session_values WHERE namespace = ? AND name = ?",
		s.namespace, key)

	if err != nil {
		return fmt.Errorf("failed to clear session value: %w", err)
	}
	return nil
}

// Stop closes the database connection
func (s *MySQLStore) Stop() {
	if err := s.db.Close(); err != nil {
		s.logger.Error("Failed to close MySQL database", zap.Error(err))
	}
}
