package factory

import (
	"context"

	"github.com/mikey/mailguard/internal/adapters/api"
	"github.com/mikey/mailguard/internal/config"
	"github.com/mikey/mailguard/internal/core"
	"go.uber.org/zap"
)

// APIClientFactory creates backend clients
type APIClientFactory struct {
	cfg    *config.Config
	logger *zap.Logger
	store  core.SessionStore
}

// NewAPIClientFactory creates a new API client factory
func NewAPIClientFactory(cfg *config.Config, logger *zap.Logger, store core.SessionStore) *APIClientFactory {
	return &APIClientFactory{
		cfg:    cfg,
		logger: logger,
		store:  store,
	}
}

// CreateAPIClient creates a client for the configured backend
func (f *APIClientFactory) CreateAPIClient(ctx context.Context) (*api.Client, error) {
	apiConfig, err := f.cfg.GetAPI()
	if err != nil {
		return nil, err
	}

	f.logger.Debug("Creating API client", zap.String("base_url", apiConfig.BaseURL))
	return api.NewClient(ctx, apiConfig.BaseURL, apiConfig.Timeout, apiConfig.UserAgent, f.store, f.logger)
}
