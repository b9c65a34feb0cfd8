package di

import (
	"context"
	"io"
	"os"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/mailguard/internal/adapters/api"
	"github.com/mikey/mailguard/internal/adapters/emailfile"
	"github.com/mikey/mailguard/internal/adapters/navigator"
	"github.com/mikey/mailguard/internal/adapters/preview"
	"github.com/mikey/mailguard/internal/adapters/render"
	"github.com/mikey/mailguard/internal/config"
	"github.com/mikey/mailguard/internal/core"
	"github.com/mikey/mailguard/internal/factory"
	"github.com/mikey/mailguard/internal/logging"
	"github.com/mikey/mailguard/internal/ports"
	"github.com/mikey/mailguard/internal/utils"
)

// Options carries the command line overrides applied on top of the configuration
type Options struct {
	ConfigFile string
	Server     string
	Output     string
	Verbose    bool
	JSONLog    bool

	// PreviewAddress overrides the listen address of the preview server
	PreviewAddress string

	// Out receives rendered output, os.Stdout when nil
	Out io.Writer
}

// BuildContainer creates and configures a dependency injection container
func BuildContainer(ctx context.Context, opts Options) (*dig.Container, error) {
	container := dig.New()

	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	// Register context
	if err := container.Provide(func() context.Context { return ctx }); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func() (*config.Config, error) {
		cfg, err := config.NewWithFile(opts.ConfigFile)
		if err != nil {
			return nil, err
		}
		applyOverrides(cfg, opts)
		return cfg, nil
	}); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewSessionStoreFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewAPIClientFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *factory.PresenterFactory {
		return factory.NewPresenterFactory(cfg, logger, opts.Out)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}

	// Register session store
	if err := container.Provide(func(f *factory.SessionStoreFactory) (core.SessionStore, error) {
		return f.CreateSessionStore()
	}); err != nil {
		return nil, err
	}

	// Register API client
	if err := container.Provide(func(ctx context.Context, f *factory.APIClientFactory) (*api.Client, error) {
		return f.CreateAPIClient(ctx)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(c *api.Client) core.APIClient { return c }); err != nil {
		return nil, err
	}

	// Register navigator
	if err := container.Provide(func(store core.SessionStore, logger *zap.Logger) core.Navigator {
		return navigator.New(store, logger)
	}); err != nil {
		return nil, err
	}

	// Register presenter, also serving as the controllers' view
	if err := container.Provide(func(f *factory.PresenterFactory) (ports.Presenter, error) {
		return f.CreatePresenter()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(p ports.Presenter) core.View { return p }); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(tp *utils.TextProcessor) core.Previewer { return tp }); err != nil {
		return nil, err
	}

	// Register detector settings
	if err := container.Provide(func(cfg *config.Config) (core.DetectorSettings, error) {
		detector, err := cfg.GetDetector()
		if err != nil {
			return core.DetectorSettings{}, err
		}
		return core.DetectorSettings{
			HistoryLimit:  detector.HistoryLimit,
			RefreshDelay:  detector.RefreshDelay,
			PreviewLength: detector.PreviewLength,
		}, nil
	}); err != nil {
		return nil, err
	}

	// Register the session shared by the controllers
	if err := container.Provide(core.NewSession); err != nil {
		return nil, err
	}

	// Register controllers
	if err := container.Provide(core.NewAuthController); err != nil {
		return nil, err
	}
	if err := container.Provide(core.NewDetectorController); err != nil {
		return nil, err
	}
	if err := container.Provide(core.NewHomeController); err != nil {
		return nil, err
	}

	// Register message file reader
	if err := container.Provide(emailfile.NewReader); err != nil {
		return nil, err
	}

	// Register preview server
	if err := container.Provide(func(p ports.Presenter, cfg *config.Config, logger *zap.Logger) (ports.Server, error) {
		renderer, ok := p.(*render.HTMLRenderer)
		if !ok {
			var err error
			if renderer, err = render.NewHTMLRenderer(logger); err != nil {
				return nil, err
			}
		}
		return preview.NewServer(renderer, logger, cfg.GetString("preview.listen_address")), nil
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// applyOverrides copies the command line flags that were set into cfg
func applyOverrides(cfg *config.Config, opts Options) {
	if opts.Server != "" {
		cfg.Set("api.base_url", opts.Server)
	}
	if opts.Output != "" {
		cfg.Set("output.format", opts.Output)
	}
	if opts.Verbose {
		cfg.Set("logging.level", "debug")
	}
	if opts.JSONLog {
		cfg.Set("logging.format", "json")
	}
	if opts.PreviewAddress != "" {
		cfg.Set("preview.listen_address", opts.PreviewAddress)
	}
}
