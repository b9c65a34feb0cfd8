package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"sort"
	"sync"

	"github.com/mikey/mailguard/internal/core"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

// Region ids written by the HTML renderer besides the message targets
const (
	RegionPasswordRequirements = "passwordRequirements"
	RegionUserInfo             = "userInfo"
	RegionResult               = "result"
	RegionHistory              = "analysisHistory"
	RegionDemo                 = "demoModal"
)

// Region is one rendered element of the page
type Region struct {
	ID   string
	HTML template.HTML
}

// HTMLRenderer keeps the client's output as HTML fragments keyed by element id
type HTMLRenderer struct {
	tmpl    *template.Template
	logger  *zap.Logger
	mu      sync.RWMutex
	regions map[string]template.HTML
	hidden  map[string]bool
	busy    map[string]bool
	alerts  []string
	listed  []core.HistoryItemView
}

// NewHTMLRenderer parses the embedded templates and creates a renderer with
// the MFA steps hidden
func NewHTMLRenderer(logger *zap.Logger) (*HTMLRenderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &HTMLRenderer{
		tmpl:    tmpl,
		logger:  logger,
		regions: make(map[string]template.HTML),
		hidden: map[string]bool{
			core.StepMFASetup: true,
			core.StepMFAForm:  true,
		},
		busy: make(map[string]bool),
	}, nil
}

// ShowMessage renders a message into target
func (r *HTMLRenderer) ShowMessage(target, message string, kind core.MessageKind) {
	r.renderRegion(target, "message", struct {
		Kind core.MessageKind
		Text string
	}{kind, message})
}

// ClearMessage empties target
func (r *HTMLRenderer) ClearMessage(target string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.regions, target)
}

// Alert records a blocking notice
func (r *HTMLRenderer) Alert(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, message)
}

// SwitchStep hides one step and reveals another
func (r *HTMLRenderer) SwitchStep(hide, show string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hidden[hide] = true
	delete(r.hidden, show)
}

// SetBusy marks a control as loading
func (r *HTMLRenderer) SetBusy(control string, busy bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if busy {
		r.busy[control] = true
	} else {
		delete(r.busy, control)
	}
}

// ShowPasswordChecklist renders the password requirements
func (r *HTMLRenderer) ShowPasswordChecklist(items []core.ChecklistItem) {
	r.renderRegion(RegionPasswordRequirements, "checklist", items)
}

// ShowUser renders the logged-in user badge
func (r *HTMLRenderer) ShowUser(username string) {
	r.renderRegion(RegionUserInfo, "user", username)
}

// RenderResult renders the analysis card
func (r *HTMLRenderer) RenderResult(view core.ResultView) {
	r.renderRegion(RegionResult, "result", view)
}

// RenderDemo renders the demo modal
func (r *HTMLRenderer) RenderDemo(view core.ResultView) error {
	html, err := r.execute("demo", view)
	if err != nil {
		return err
	}
	r.setRegion(RegionDemo, html)
	return nil
}

// RenderQuickHistory puts the newest analysis of this session on top of the
// history list, keeping at most core.DefaultHistoryLimit rows
func (r *HTMLRenderer) RenderQuickHistory(items []core.HistoryItemView) {
	if len(items) == 0 {
		return
	}

	r.mu.Lock()
	listed := append([]core.HistoryItemView{items[0]}, r.listed...)
	if len(listed) > core.DefaultHistoryLimit {
		listed = listed[:core.DefaultHistoryLimit]
	}
	r.listed = listed
	r.mu.Unlock()

	r.renderRegion(RegionHistory, "quick-history", listed)
}

// RenderHistory renders the persisted analyses into the history list
func (r *HTMLRenderer) RenderHistory(view core.HistoryView) {
	r.mu.Lock()
	r.listed = append([]core.HistoryItemView(nil), view.Items...)
	r.mu.Unlock()

	r.renderRegion(RegionHistory, "history", view)
}

// Region returns the HTML of one element, empty when nothing was rendered
func (r *HTMLRenderer) Region(id string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return string(r.regions[id])
}

// Busy reports whether a control is loading
func (r *HTMLRenderer) Busy(control string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.busy[control]
}

// Visible reports whether a form step is shown
func (r *HTMLRenderer) Visible(step string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return !r.hidden[step]
}

// Alerts returns the notices raised so far
func (r *HTMLRenderer) Alerts() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.alerts...)
}

// Document renders every region into a standalone page
func (r *HTMLRenderer) Document(title string) ([]byte, error) {
	r.mu.RLock()
	regions := make([]Region, 0, len(r.regions))
	for id, html := range r.regions {
		regions = append(regions, Region{ID: id, HTML: html})
	}
	r.mu.RUnlock()

	sort.Slice(regions, func(i, j int) bool { return regions[i].ID < regions[j].ID })

	var buf bytes.Buffer
	err := r.tmpl.ExecuteTemplate(&buf, "page", struct {
		Title   string
		Regions []Region
	}{title, regions})
	if err != nil {
		return nil, fmt.Errorf("failed to render document: %w", err)
	}
	return buf.Bytes(), nil
}

// Fragment renders a named template on its own
func (r *HTMLRenderer) Fragment(name string, data interface{}) (string, error) {
	html, err := r.execute(name, data)
	return string(html), err
}

func (r *HTMLRenderer) renderRegion(id, name string, data interface{}) {
	html, err := r.execute(name, data)
	if err != nil {
		r.logger.Error("Failed to render region", zap.String("region", id), zap.Error(err))
		return
	}
	r.setRegion(id, html)
}

func (r *HTMLRenderer) setRegion(id string, html template.HTML) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.regions[id] = html
}

func (r *HTMLRenderer) execute(name string, data interface{}) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	// Output of html/template is already escaped
	return template.HTML(buf.String()), nil
}
