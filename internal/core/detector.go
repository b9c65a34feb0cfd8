package core

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Previewer shortens email text for history rows
type Previewer interface {
	Preview(text string, length int) string
}

// DetectorSettings tunes the detector page
type DetectorSettings struct {
	HistoryLimit  int
	RefreshDelay  time.Duration
	PreviewLength int
}

// DetectorController drives the phishing detector page
type DetectorController struct {
	api       APIClient
	store     SessionStore
	nav       Navigator
	view      View
	logger    *zap.Logger
	session   *Session
	previewer Previewer
	settings  DetectorSettings
	history   *QuickHistory
	mounted   bool
	now       func() time.Time
}

// NewDetectorController creates a new detector controller
func NewDetectorController(
	api APIClient,
	store SessionStore,
	nav Navigator,
	view View,
	logger *zap.Logger,
	session *Session,
	previewer Previewer,
	settings DetectorSettings,
) *DetectorController {
	if settings.PreviewLength <= 0 {
		settings.PreviewLength = 50
	}
	return &DetectorController{
		api:       api,
		store:     store,
		nav:       nav,
		view:      view,
		logger:    logger,
		session:   session,
		previewer: previewer,
		settings:  settings,
		history:   NewQuickHistory(settings.HistoryLimit),
		now:       time.Now,
	}
}

// Mount installs the detector page. It does nothing away from the detector
// page and sends anonymous users to the login page.
func (c *DetectorController) Mount(ctx context.Context) (bool, error) {
	if c.nav.CurrentPath(ctx) != PageDetector {
		return false, nil
	}

	identity, err := LoadIdentity(ctx, c.store)
	if err != nil {
		return false, err
	}
	if !identity.IsLoggedIn {
		c.logger.Debug("Not logged in, redirecting to login")
		return false, c.nav.RedirectTo(ctx, PageLogin)
	}

	c.session.currentUsername = identity.Username
	c.mounted = true

	if err := c.LoadHistory(ctx); err != nil {
		c.logger.Error("Failed to load analysis history", zap.Error(err))
	}
	if err := c.LoadUserInfo(ctx); err != nil {
		c.logger.Error("Failed to load user info", zap.Error(err))
	}
	return true, nil
}

// Mounted reports whether Mount installed the page
func (c *DetectorController) Mounted() bool {
	return c.mounted
}

// QuickHistory returns the analyses recorded in this session
func (c *DetectorController) QuickHistory() *QuickHistory {
	return c.history
}

// Analyze submits an email for analysis and renders the outcome. The
// persisted history is re-fetched after the refresh delay.
func (c *DetectorController) Analyze(ctx context.Context, emailText, url string) (*ResultView, error) {
	if !c.mounted {
		return nil, ErrNotMounted
	}

	view, err := c.analyze(ctx, emailText, url)
	if err != nil {
		return nil, err
	}

	c.refreshHistory(ctx)
	return view, nil
}

func (c *DetectorController) analyze(ctx context.Context, rawText, rawURL string) (*ResultView, error) {
	emailText := strings.TrimSpace(rawText)
	url := strings.TrimSpace(rawURL)

	if emailText == "" {
		c.view.Alert(MsgEmailContentRequired)
		return nil, &ValidationError{Target: ControlAnalyze, Message: MsgEmailContentRequired}
	}

	c.view.SetBusy(ControlAnalyze, true)
	defer c.view.SetBusy(ControlAnalyze, false)

	result, err := c.api.Detect(ctx, DetectRequest{EmailText: emailText, URL: url})
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			c.view.Alert(MsgAnalysisFailed + apiErr.Message)
		} else {
			c.view.Alert(MsgNetworkError)
		}
		c.logger.Warn("Analysis failed", zap.Error(err))
		return nil, err
	}

	view := BuildResultView(*result)
	c.view.RenderResult(view)

	c.history.Add(QuickHistoryItem{
		EmailPreview: c.previewer.Preview(rawText, c.settings.PreviewLength),
		Result:       result.Result,
		Confidence:   result.Confidence,
		AnalyzedAt:   c.now(),
	})
	c.view.RenderQuickHistory(c.history.View())

	c.logger.Info("Email analyzed",
		zap.String("status", view.StatusClass),
		zap.Float64("confidence", result.Confidence),
		zap.Int("indicators", len(result.Indicators)))

	return &view, nil
}

func (c *DetectorController) refreshHistory(ctx context.Context) {
	if c.settings.RefreshDelay > 0 {
		timer := time.NewTimer(c.settings.RefreshDelay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			c.logger.Debug("History refresh cancelled", zap.Error(ctx.Err()))
			return
		}
	}
	if err := c.LoadHistory(ctx); err != nil {
		c.logger.Error("Failed to refresh analysis history", zap.Error(err))
	}
}

// LoadHistory fetches and renders the persisted history
func (c *DetectorController) LoadHistory(ctx context.Context) error {
	entries, err := c.api.AnalysisHistory(ctx)
	if err != nil {
		return err
	}
	c.view.RenderHistory(BuildHistoryView(entries))
	return nil
}

// LoadUserInfo fetches and renders the logged-in user
func (c *DetectorController) LoadUserInfo(ctx context.Context) error {
	info, err := c.api.UserInfo(ctx)
	if err != nil {
		return err
	}
	c.view.ShowUser(info.Username)
	return nil
}
