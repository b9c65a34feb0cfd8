package core

import (
	"context"
	"errors"
	"fmt"
)

// Session is the per-page state shared by the controllers. It replaces the
// page-level globals of the browser client and lives from page load until
// logout.
type Session struct {
	usernameForMFA  string
	currentUsername string
	mfaPending      bool
}

// NewSession creates an empty session
func NewSession() *Session {
	return &Session{}
}

// MFAUsername returns the username captured at the last login attempt
func (s *Session) MFAUsername() string {
	return s.usernameForMFA
}

// MFAPending reports whether the last login is waiting for a verification code
func (s *Session) MFAPending() bool {
	return s.mfaPending
}

// ResumeMFA restores the username of a pending MFA challenge
func (s *Session) ResumeMFA(username string) {
	s.usernameForMFA = username
	s.mfaPending = username != ""
}

// CurrentUsername returns the username of the mounted detector page
func (s *Session) CurrentUsername() string {
	return s.currentUsername
}

// Reset tears the session down
func (s *Session) Reset() {
	s.usernameForMFA = ""
	s.currentUsername = ""
	s.mfaPending = false
}

// LoadIdentity reads the login flag and username from the store
func LoadIdentity(ctx context.Context, store SessionStore) (Identity, error) {
	flag, err := getOptional(ctx, store, KeyLoggedIn)
	if err != nil {
		return Identity{}, err
	}
	username, err := getOptional(ctx, store, KeyUsername)
	if err != nil {
		return Identity{}, err
	}
	return Identity{IsLoggedIn: flag == "true", Username: username}, nil
}

func persistIdentity(ctx context.Context, store SessionStore, username string) error {
	if err := store.Set(ctx, KeyLoggedIn, "true"); err != nil {
		return fmt.Errorf("failed to store login flag: %w", err)
	}
	if err := store.Set(ctx, KeyUsername, username); err != nil {
		return fmt.Errorf("failed to store username: %w", err)
	}
	return nil
}

func clearIdentity(ctx context.Context, store SessionStore) error {
	if err := store.Clear(ctx, KeyLoggedIn); err != nil {
		return fmt.Errorf("failed to clear login flag: %w", err)
	}
	if err := store.Clear(ctx, KeyUsername); err != nil {
		return fmt.Errorf("failed to clear username: %w", err)
	}
	return nil
}

func getOptional(ctx context.Context, store SessionStore, key string) (string, error) {
	value, err := store.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session key %s: %w", key, err)
	}
	return value, nil
}
