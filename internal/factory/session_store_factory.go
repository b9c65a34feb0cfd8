package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mikey/mailguard/internal/adapters/session"
	"github.com/mikey/mailguard/internal/config"
	"github.com/mikey/mailguard/internal/core"
	"go.uber.org/zap"
)

// SessionStoreFactory creates session stores based on configuration
type SessionStoreFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewSessionStoreFactory creates a new session store factory
func NewSessionStoreFactory(cfg *config.Config, logger *zap.Logger) *SessionStoreFactory {
	return &SessionStoreFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateSessionStore creates a session store based on the configuration
func (f *SessionStoreFactory) CreateSessionStore() (core.SessionStore, error) {
	sessionConfig := f.cfg.GetSession()

	switch sessionConfig.Type {
	case "memory":
		return session.NewMemoryStore(f.logger), nil
	case "sqlite":
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(sessionConfig.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return session.NewSQLiteStore(sessionConfig.SQLitePath, sessionConfig.Namespace, f.logger)
	case "mysql":
		return session.NewMySQLStore(sessionConfig.MySQLDSN, sessionConfig.Namespace, f.logger)
	default:
		return nil, fmt.Errorf("unsupported session store type: %s", sessionConfig.Type)
	}
}
