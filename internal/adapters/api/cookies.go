package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"

	"github.com/mikey/mailguard/internal/core"
	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"
)

type storedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// PersistentJar is a cookie jar whose cookies for the API origin survive in
// the session store, so the server session outlives a single process
type PersistentJar struct {
	*cookiejar.Jar
	origin *url.URL
	store  core.SessionStore
	logger *zap.Logger
}

// NewPersistentJar creates a jar and restores the cookies saved for origin
func NewPersistentJar(ctx context.Context, origin *url.URL, store core.SessionStore, logger *zap.Logger) (*PersistentJar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	pj := &PersistentJar{
		Jar:    jar,
		origin: origin,
		store:  store,
		logger: logger,
	}
	if err := pj.restore(ctx); err != nil {
		return nil, err
	}
	return pj, nil
}

func (j *PersistentJar) restore(ctx context.Context) error {
	raw, err := j.store.Get(ctx, core.KeyCookies)
	if errors.Is(err, core.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load cookies: %w", err)
	}

	var stored []storedCookie
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		// A corrupt entry only costs the server session
		j.logger.Warn("Discarding unreadable stored cookies", zap.Error(err))
		return nil
	}

	cookies := make([]*http.Cookie, 0, len(stored))
	for _, c := range stored {
		cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value, Path: "/"})
	}
	j.SetCookies(j.origin, cookies)
	j.logger.Debug("Restored cookies", zap.Int("count", len(cookies)))
	return nil
}

// Save writes the current cookies for the origin to the session store
func (j *PersistentJar) Save(ctx context.Context) error {
	cookies := j.Cookies(j.origin)
	if len(cookies) == 0 {
		return j.store.Clear(ctx, core.KeyCookies)
	}

	stored := make([]storedCookie, 0, len(cookies))
	for _, c := range cookies {
		stored = append(stored, storedCookie{Name: c.Name, Value: c.Value})
	}
	raw, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to encode cookies: %w", err)
	}
	return j.store.Set(ctx, core.KeyCookies, string(raw))
}
