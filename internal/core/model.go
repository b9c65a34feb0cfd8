package core

import (
	"time"
)

// Pages served by the MailGuard web application
const (
	PageHome     = "/"
	PageLogin    = "/login.html"
	PageSignup   = "/signup.html"
	PageDetector = "/detector.html"
)

// Session storage keys
const (
	KeyLoggedIn = "isLoggedIn"
	KeyUsername = "username"
	KeyPage     = "page"
	KeyCookies  = "cookies"
)

// Identity is the client-side view of who is logged in
type Identity struct {
	IsLoggedIn bool
	Username   string
}

// SignupRequest is the body of POST /api/signup
type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// LoginRequest is the body of POST /api/login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// VerifyMFARequest is the body of POST /api/verify_mfa
type VerifyMFARequest struct {
	Username string `json:"username"`
	MFACode  string `json:"mfa_code"`
}

// ResendOTPRequest is the body of POST /api/resend_otp
type ResendOTPRequest struct {
	Username string `json:"username"`
}

// DetectRequest is the body of POST /api/detect
type DetectRequest struct {
	EmailText string `json:"emailText"`
	URL       string `json:"url"`
}

// MessageResponse is the generic {"message": ...} reply
type MessageResponse struct {
	Message string `json:"message"`
}

// LoginResponse is the reply of POST /api/login
type LoginResponse struct {
	Message     string `json:"message"`
	MFARequired bool   `json:"mfa_required"`
}

// UserInfo is the reply of GET /api/user_info
type UserInfo struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// RecordCheck is an SPF or DKIM lookup outcome
type RecordCheck struct {
	Exists bool   `json:"exists"`
	Record string `json:"record,omitempty"`
	Valid  bool   `json:"valid"`
}

// SecurityFeatures are the header checks reported by the detector
type SecurityFeatures struct {
	SPF               *RecordCheck `json:"spf,omitempty"`
	DKIM              *RecordCheck `json:"dkim,omitempty"`
	DomainConsistency *bool        `json:"domain_consistency,omitempty"`
	SMTPLegitimacy    *bool        `json:"smtp_legitimacy,omitempty"`
}

// SubAnalysis is one stage of the comprehensive analysis
type SubAnalysis struct {
	Result           string            `json:"result"`
	Confidence       float64           `json:"confidence"`
	SecurityFeatures *SecurityFeatures `json:"security_features,omitempty"`
}

// AnalysisBreakdown holds the per-stage scores
type AnalysisBreakdown struct {
	HeaderAnalysis  *SubAnalysis `json:"header_analysis,omitempty"`
	ContentAnalysis *SubAnalysis `json:"content_analysis,omitempty"`
	MLModelAnalysis *SubAnalysis `json:"ml_model_analysis,omitempty"`
}

// AnalysisResult is the reply of POST /api/detect
type AnalysisResult struct {
	Result          string             `json:"result"`
	Confidence      float64            `json:"confidence"`
	Indicators      []string           `json:"indicators"`
	Recommendations []string           `json:"recommendations,omitempty"`
	AnalysisType    string             `json:"analysis_type,omitempty"`
	Breakdown       *AnalysisBreakdown `json:"analysis_breakdown,omitempty"`
}

// HistoryEntry is one persisted analysis owned by the backend
type HistoryEntry struct {
	EmailPreview string   `json:"email_preview"`
	URL          string   `json:"url"`
	Result       string   `json:"result"`
	Confidence   float64  `json:"confidence"`
	Indicators   []string `json:"indicators"`
	Timestamp    string   `json:"timestamp"`
}

// HistoryResponse is the reply of GET /api/analysis_history
type HistoryResponse struct {
	History []HistoryEntry `json:"history"`
}

// QuickHistoryItem is a locally recorded analysis
type QuickHistoryItem struct {
	EmailPreview string
	Result       string
	Confidence   float64
	AnalyzedAt   time.Time
}
