package navigator

import (
	"context"
	"errors"
	"fmt"

	"github.com/mikey/mailguard/internal/core"
	"go.uber.org/zap"
)

// StoreNavigator keeps the current page in the session store, the way a
// browser tab keeps its location across reloads
type StoreNavigator struct {
	store  core.SessionStore
	logger *zap.Logger
}

// New creates a navigator backed by store
func New(store core.SessionStore, logger *zap.Logger) *StoreNavigator {
	return &StoreNavigator{
		store:  store,
		logger: logger,
	}
}

// RedirectTo moves to path
func (n *StoreNavigator) RedirectTo(ctx context.Context, path string) error {
	if err := n.store.Set(ctx, core.KeyPage, path); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", path, err)
	}
	n.logger.Info("Navigated", zap.String("page", path))
	return nil
}

// CurrentPath returns the current page, the home page when none was visited
func (n *StoreNavigator) CurrentPath(ctx context.Context) string {
	path, err := n.store.Get(ctx, core.KeyPage)
	if err != nil {
		if !errors.Is(err, core.ErrKeyNotFound) {
			n.logger.Warn("Failed to read current page", zap.Error(err))
		}
		return core.PageHome
	}
	return path
}
