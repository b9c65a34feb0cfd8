package render

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/mikey/mailguard/internal/core"
	"go.uber.org/zap"
)

// barCells is the width of the confidence bar in characters
const barCells = 20

const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiDim    = "\033[2m"
)

// TerminalRenderer writes the client's output as plain text sections
type TerminalRenderer struct {
	out    io.Writer
	color  bool
	logger *zap.Logger
	mu     sync.Mutex
}

// NewTerminalRenderer creates a renderer writing to out
func NewTerminalRenderer(out io.Writer, color bool, logger *zap.Logger) *TerminalRenderer {
	return &TerminalRenderer{
		out:    out,
		color:  color,
		logger: logger,
	}
}

// ShowMessage prints a form message
func (r *TerminalRenderer) ShowMessage(target, message string, kind core.MessageKind) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prefix := "Error: "
	tint := ansiRed
	if kind == core.MessageSuccess {
		prefix = ""
		tint = ansiGreen
	}
	r.printf("%s\n", r.paint(tint, prefix+message))
}

// ClearMessage is a no-op, printed lines cannot be taken back
func (r *TerminalRenderer) ClearMessage(target string) {}

// Alert prints a blocking notice
func (r *TerminalRenderer) Alert(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.printf("%s\n", r.paint(ansiYellow, "! "+message))
}

// SwitchStep announces the next form step
func (r *TerminalRenderer) SwitchStep(hide, show string) {
	r.logger.Debug("Switching step", zap.String("from", hide), zap.String("to", show))

	r.mu.Lock()
	defer r.mu.Unlock()
	switch show {
	case core.StepMFASetup:
		r.printf("\n=== Two-Factor Authentication ===\n")
		r.printf("Account created. Check your email for a verification code,\n")
		r.printf("then log in and run 'verify' with the code.\n")
	case core.StepMFAForm:
		r.printf("\n=== Verification Required ===\n")
		r.printf("Run 'verify <code>' with the 6-digit code from your email.\n")
	}
}

// SetBusy shows progress for a long-running control
func (r *TerminalRenderer) SetBusy(control string, busy bool) {
	if !busy {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	switch control {
	case core.ControlAnalyze:
		r.printf("%s\n", r.paint(ansiDim, "Analyzing..."))
	case core.ControlSignup:
		r.printf("%s\n", r.paint(ansiDim, "Creating account..."))
	case core.ControlLogin:
		r.printf("%s\n", r.paint(ansiDim, "Logging in..."))
	case core.ControlMFA:
		r.printf("%s\n", r.paint(ansiDim, "Verifying..."))
	}
}

// ShowPasswordChecklist prints the password requirements
func (r *TerminalRenderer) ShowPasswordChecklist(items []core.ChecklistItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.printf("\n=== Password Requirements ===\n")
	for _, item := range items {
		line := fmt.Sprintf("%s %s", item.Icon, item.Label)
		if item.Met {
			line = r.paint(ansiGreen, line)
		}
		r.printf("%s\n", line)
	}
}

// ShowUser prints the logged-in user
func (r *TerminalRenderer) ShowUser(username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.printf("👤 %s\n", username)
}

// RenderResult prints the analysis card
func (r *TerminalRenderer) RenderResult(view core.ResultView) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.printf("\n=== Results ===\n")
	r.writeCard(view)

	if len(view.Recommendations) > 0 {
		r.printf("\n=== Recommendations ===\n")
		for _, rec := range view.Recommendations {
			r.printf("💡 %s\n", rec)
		}
	}
}

// RenderDemo prints a demo analysis card
func (r *TerminalRenderer) RenderDemo(view core.ResultView) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.printf("\n=== 🎯 Demo Results ===\n")
	r.writeCard(view)
	return nil
}

// RenderQuickHistory prints the analyses of this session
func (r *TerminalRenderer) RenderQuickHistory(items []core.HistoryItemView) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(items) == 0 {
		return
	}
	r.printf("\n=== This Session ===\n")
	for _, item := range items {
		r.writeHistoryItem(item)
	}
}

// RenderHistory prints the persisted analyses
func (r *TerminalRenderer) RenderHistory(view core.HistoryView) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.printf("\n=== Recent Analyses ===\n")
	if view.Empty {
		r.printf("%s\n", core.MsgNoHistory)
		r.printf("%s\n", r.paint(ansiDim, core.MsgHistoryHint))
		return
	}
	for _, item := range view.Items {
		r.writeHistoryItem(item)
	}
}

func (r *TerminalRenderer) writeCard(view core.ResultView) {
	tint := statusColor(view.StatusClass)
	r.printf("%s\n", r.paint(tint, view.StatusText))
	r.printf("[%s] %s\n", r.paint(tint, Bar(view.BarWidth, barCells)), view.ConfidenceText)

	if len(view.Indicators) > 0 || view.Placeholder != "" || len(view.Breakdown) > 0 {
		r.printf("\nIndicators:\n")
	}
	for _, indicator := range view.Indicators {
		r.printf("  %s %s\n", indicator.Icon, indicator.Text)
	}
	if view.Placeholder != "" {
		r.printf("  %s\n", view.Placeholder)
	}
	for _, row := range view.Breakdown {
		r.printf("  %s %s\n", row.Icon, row.Text)
	}
}

func (r *TerminalRenderer) writeHistoryItem(item core.HistoryItemView) {
	r.printf("%s  %s\n", r.paint(ansiDim, item.Timestamp), item.EmailPreview)
	r.printf("    %s\n", r.paint(statusColor(item.StatusClass), item.Result))
}

func (r *TerminalRenderer) printf(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(r.out, format, args...); err != nil {
		r.logger.Debug("Failed to write output", zap.Error(err))
	}
}

func (r *TerminalRenderer) paint(color, text string) string {
	if !r.color {
		return text
	}
	return color + text + ansiReset
}

func statusColor(status string) string {
	switch status {
	case core.StatusDanger:
		return ansiRed
	case core.StatusWarning:
		return ansiYellow
	default:
		return ansiGreen
	}
}

// Bar draws a percentage as a fixed-width bar of filled and empty cells
func Bar(percent float64, cells int) string {
	filled := int(percent/100*float64(cells) + 0.5)
	if filled < 0 {
		filled = 0
	}
	if filled > cells {
		filled = cells
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", cells-filled)
}
