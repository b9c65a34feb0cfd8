package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// APIConfig represents the configuration of the backend API client
type APIConfig struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// SessionConfig represents the configuration of the session store
type SessionConfig struct {
	Type       string
	SQLitePath string
	MySQLDSN   string
	Namespace  string
}

// DetectorConfig represents the configuration of the detector page
type DetectorConfig struct {
	HistoryLimit  int
	RefreshDelay  time.Duration
	PreviewLength int
}

// OutputConfig represents the configuration of the renderer
type OutputConfig struct {
	Format string
	Color  bool
}

// LoggingConfig represents the configuration of the logger
type LoggingConfig struct {
	Level      string
	Format     string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// GetAPI returns the API configuration
func (c *Config) GetAPI() (APIConfig, error) {
	timeout, err := c.GetDuration("api.timeout")
	if err != nil {
		return APIConfig{}, fmt.Errorf("invalid api timeout: %w", err)
	}
	return APIConfig{
		BaseURL:   strings.TrimRight(c.GetString("api.base_url"), "/"),
		Timeout:   timeout,
		UserAgent: c.GetString("api.user_agent"),
	}, nil
}

// GetSession returns the session store configuration
func (c *Config) GetSession() SessionConfig {
	return SessionConfig{
		Type:       c.GetString("session.type"),
		SQLitePath: os.ExpandEnv(c.GetString("session.sqlite_path")),
		MySQLDSN:   c.GetString("session.mysql_dsn"),
		Namespace:  c.GetString("session.namespace"),
	}
}

// GetDetector returns the detector page configuration
func (c *Config) GetDetector() (DetectorConfig, error) {
	delay, err := c.GetDuration("detector.refresh_delay")
	if err != nil {
		return DetectorConfig{}, fmt.Errorf("invalid detector refresh delay: %w", err)
	}
	return DetectorConfig{
		HistoryLimit:  c.GetInt("detector.history_limit"),
		RefreshDelay:  delay,
		PreviewLength: c.GetInt("detector.preview_length"),
	}, nil
}

// GetOutput returns the renderer configuration
func (c *Config) GetOutput() OutputConfig {
	return OutputConfig{
		Format: c.GetString("output.format"),
		Color:  c.GetBool("output.color"),
	}
}

// GetLogging returns the logging configuration
func (c *Config) GetLogging() LoggingConfig {
	return LoggingConfig{
		Level:      c.GetString("logging.level"),
		Format:     c.GetString("logging.format"),
		File:       c.GetString("logging.file"),
		MaxSizeMB:  c.GetInt("logging.max_size_mb"),
		MaxBackups: c.GetInt("logging.max_backups"),
		MaxAgeDays: c.GetInt("logging.max_age_days"),
	}
}
