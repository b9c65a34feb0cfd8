package factory

import (
	"fmt"
	"io"

	"github.com/mikey/mailguard/internal/adapters/render"
	"github.com/mikey/mailguard/internal/config"
	"github.com/mikey/mailguard/internal/ports"
	"go.uber.org/zap"
)

// PresenterFactory creates presenters based on configuration
type PresenterFactory struct {
	cfg    *config.Config
	logger *zap.Logger
	out    io.Writer
}

// NewPresenterFactory creates a new presenter factory writing to out
func NewPresenterFactory(cfg *config.Config, logger *zap.Logger, out io.Writer) *PresenterFactory {
	return &PresenterFactory{
		cfg:    cfg,
		logger: logger,
		out:    out,
	}
}

// CreatePresenter creates a presenter for the configured output format
func (f *PresenterFactory) CreatePresenter() (ports.Presenter, error) {
	outputConfig := f.cfg.GetOutput()

	switch outputConfig.Format {
	case "terminal":
		return render.NewTerminalRenderer(f.out, outputConfig.Color, f.logger), nil
	case "html":
		return render.NewHTMLRenderer(f.logger)
	default:
		return nil, fmt.Errorf("unsupported output format: %s", outputConfig.Format)
	}
}
