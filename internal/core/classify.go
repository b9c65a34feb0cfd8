package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Status classes used by the result and history markup
const (
	StatusDanger  = "danger"
	StatusWarning = "warning"
	StatusSafe    = "safe"
)

// Confidence bands shared by recommendations and history rows
const (
	HighRiskConfidence   = 70
	MediumRiskConfidence = 40
)

const (
	MsgNoIndicators = "No suspicious indicators found"
	MsgNoHistory    = "No recent analyses yet"
	MsgHistoryHint  = "Your analysis history will appear here"
)

// IndicatorView is one row of the indicators list
type IndicatorView struct {
	Icon  string
	Text  string
	Class string
}

// ResultView is the render-ready shape of an analysis result
type ResultView struct {
	StatusText      string
	StatusClass     string
	Confidence      float64
	ConfidenceText  string
	BarWidth        float64
	Indicators      []IndicatorView
	Placeholder     string
	Breakdown       []IndicatorView
	Recommendations []string
}

// HistoryItemView is one rendered history row
type HistoryItemView struct {
	EmailPreview string
	Result       string
	StatusClass  string
	Timestamp    string
}

// HistoryView is the rendered persisted history
type HistoryView struct {
	Items []HistoryItemView
	Empty bool
}

// ClassifyResult derives the status class from the detector's result text
func ClassifyResult(result string) string {
	switch {
	case strings.Contains(result, "HIGH RISK"):
		return StatusDanger
	case strings.Contains(result, "MEDIUM RISK"):
		return StatusWarning
	default:
		return StatusSafe
	}
}

// ClassifyConfidence derives the status class from a confidence band
func ClassifyConfidence(confidence float64) string {
	switch {
	case confidence >= HighRiskConfidence:
		return StatusDanger
	case confidence >= MediumRiskConfidence:
		return StatusWarning
	default:
		return StatusSafe
	}
}

// FormatConfidence renders a confidence without trailing zeros
func FormatConfidence(confidence float64) string {
	return strconv.FormatFloat(confidence, 'f', -1, 64)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// FallbackRecommendations returns local advice for a confidence score
func FallbackRecommendations(confidence float64) []string {
	switch {
	case confidence >= HighRiskConfidence:
		return []string{
			"Do not click any links in this email",
			"Do not provide any personal information",
			"Delete this email immediately",
			"Report this email to your IT department",
		}
	case confidence >= MediumRiskConfidence:
		return []string{
			"Be cautious with this email",
			"Verify the sender's identity",
			"Check the URL carefully before clicking",
		}
	default:
		return []string{
			"This email appears to be safe",
			"Continue with normal email practices",
		}
	}
}

// BuildResultView shapes a detector response for display
func BuildResultView(result AnalysisResult) ResultView {
	view := ResultView{
		StatusText:     result.Result,
		StatusClass:    ClassifyResult(result.Result),
		Confidence:     result.Confidence,
		ConfidenceText: FormatConfidence(result.Confidence) + "% confidence",
		BarWidth:       clampPercent(result.Confidence),
	}

	for _, indicator := range result.Indicators {
		view.Indicators = append(view.Indicators, IndicatorView{
			Icon:  "⚠️",
			Text:  indicator,
			Class: "indicator",
		})
	}
	if len(view.Indicators) == 0 {
		view.Placeholder = MsgNoIndicators
	}

	if result.Breakdown != nil {
		view.Breakdown = breakdownRows(result.Breakdown)
	}

	if result.Recommendations != nil {
		view.Recommendations = result.Recommendations
	} else {
		view.Recommendations = FallbackRecommendations(result.Confidence)
	}

	return view
}

func breakdownRows(b *AnalysisBreakdown) []IndicatorView {
	var rows []IndicatorView

	stages := []struct {
		label    string
		analysis *SubAnalysis
	}{
		{"📧 Header Analysis", b.HeaderAnalysis},
		{"🤖 Content Analysis", b.ContentAnalysis},
		{"🧠 ML Model", b.MLModelAnalysis},
	}
	for _, stage := range stages {
		if stage.analysis == nil {
			continue
		}
		rows = append(rows, IndicatorView{
			Icon:  "📊",
			Text:  fmt.Sprintf("%s: %s%% confidence", stage.label, FormatConfidence(stage.analysis.Confidence)),
			Class: "indicator analysis-type",
		})
	}

	if b.HeaderAnalysis == nil || b.HeaderAnalysis.SecurityFeatures == nil {
		return rows
	}
	features := b.HeaderAnalysis.SecurityFeatures

	if features.SPF != nil {
		rows = append(rows, featureRow(features.SPF.Exists, "SPF Record", "Found", "Missing"))
	}
	if features.DKIM != nil {
		rows = append(rows, featureRow(features.DKIM.Exists, "DKIM Record", "Found", "Missing"))
	}
	if features.DomainConsistency != nil {
		rows = append(rows, featureRow(*features.DomainConsistency, "Domain Consistency", "Good", "Mismatch detected"))
	}
	if features.SMTPLegitimacy != nil {
		rows = append(rows, featureRow(*features.SMTPLegitimacy, "SMTP Server Legitimacy", "Verified", "Suspicious"))
	}
	return rows
}

func featureRow(ok bool, label, good, bad string) IndicatorView {
	row := IndicatorView{Class: "indicator security-feature"}
	if ok {
		row.Icon = "✅"
		row.Text = label + ": " + good
	} else {
		row.Icon = "❌"
		row.Text = label + ": " + bad
	}
	return row
}

// BuildHistoryView shapes the persisted history for display
func BuildHistoryView(entries []HistoryEntry) HistoryView {
	if len(entries) == 0 {
		return HistoryView{Empty: true}
	}

	view := HistoryView{Items: make([]HistoryItemView, 0, len(entries))}
	for _, entry := range entries {
		item := HistoryItemView{
			EmailPreview: entry.EmailPreview,
			Result:       entry.Result,
			Timestamp:    entry.Timestamp,
			StatusClass:  ClassifyConfidence(entry.Confidence),
		}
		if item.EmailPreview == "" {
			item.EmailPreview = "No content"
		}
		if item.Timestamp == "" {
			item.Timestamp = "Unknown time"
		}
		if item.Result == "" {
			item.Result = "No result"
		}
		view.Items = append(view.Items, item)
	}
	return view
}
