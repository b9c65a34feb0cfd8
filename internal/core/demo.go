package core

import (
	"fmt"
)

// DemoKind names one of the built-in example analyses
type DemoKind string

const (
	DemoPhishing DemoKind = "phishing"
	DemoSafe     DemoKind = "safe"
)

// demoDangerThreshold is the confidence above which a demo card is styled as danger
const demoDangerThreshold = 50

// DemoAnalysis is a hardcoded example analysis
type DemoAnalysis struct {
	Kind       DemoKind
	Email      string
	URL        string
	Confidence float64
	Result     string
	Indicators []string
}

var demoAnalyses = map[DemoKind]DemoAnalysis{
	DemoPhishing: {
		Kind: DemoPhishing,
		Email: "Subject: Your account has been suspended\nFrom: security@bank-verify.com\n\n" +
			"Dear Customer,\n\nYour account has been suspended due to suspicious activity. " +
			"Click here immediately to verify your identity: http://bank-verify.com/login\n\n" +
			"This is urgent - your account will be permanently closed in 24 hours.",
		URL:        "http://bank-verify.com/login",
		Confidence: 85,
		Result:     "⚠️ HIGH RISK - Phishing detected (85% confidence)",
		Indicators: []string{
			"Contains urgent language",
			"Requests sensitive information",
			"Uses HTTP instead of HTTPS",
			"Suspicious URL structure",
		},
	},
	DemoSafe: {
		Kind: DemoSafe,
		Email: "Subject: Your order confirmation\nFrom: orders@amazon.com\n\n" +
			"Dear Customer,\n\nThank you for your recent order #12345. " +
			"Your package has been shipped and will arrive on Tuesday.\n\n" +
			"Track your package: https://amazon.com/track/12345\n\n" +
			"Best regards,\nAmazon Customer Service",
		URL:        "https://amazon.com/track/12345",
		Confidence: 15,
		Result:     "✅ LOW RISK - Email appears safe (15% confidence)",
		Indicators: []string{},
	},
}

// DemoKinds lists the available demos in menu order
func DemoKinds() []DemoKind {
	return []DemoKind{DemoPhishing, DemoSafe}
}

// Demo returns the example analysis of the given kind
func Demo(kind DemoKind) (DemoAnalysis, error) {
	demo, ok := demoAnalyses[kind]
	if !ok {
		return DemoAnalysis{}, fmt.Errorf("%w: %q", ErrUnknownDemo, kind)
	}
	demo.Indicators = append([]string(nil), demo.Indicators...)
	return demo, nil
}

// BuildDemoView shapes a demo through the live result card
func BuildDemoView(demo DemoAnalysis) ResultView {
	view := BuildResultView(AnalysisResult{
		Result:     demo.Result,
		Confidence: demo.Confidence,
		Indicators: demo.Indicators,
	})
	if demo.Confidence > demoDangerThreshold {
		view.StatusClass = StatusDanger
	} else {
		view.StatusClass = StatusSafe
	}
	if view.Placeholder != "" {
		view.Placeholder = "✅ " + view.Placeholder
	}
	view.Recommendations = nil
	return view
}
