package core

import (
	"context"
)

// APIClient defines the interface for talking to the MailGuard backend
type APIClient interface {
	Signup(ctx context.Context, req SignupRequest) (*MessageResponse, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	VerifyMFA(ctx context.Context, req VerifyMFARequest) (*MessageResponse, error)
	ResendOTP(ctx context.Context, req ResendOTPRequest) (*MessageResponse, error)
	Detect(ctx context.Context, req DetectRequest) (*AnalysisResult, error)
	UserInfo(ctx context.Context) (*UserInfo, error)
	AnalysisHistory(ctx context.Context) ([]HistoryEntry, error)
	Logout(ctx context.Context) error
}

// SessionStore defines the interface for client session storage
type SessionStore interface {
	// Get returns ErrKeyNotFound when the key is absent
	Get(ctx context.Context, key string) (string, error)

	Set(ctx context.Context, key, value string) error

	// Clear removes a key; clearing an absent key is not an error
	Clear(ctx context.Context, key string) error
}

// Navigator moves the client between pages
type Navigator interface {
	RedirectTo(ctx context.Context, path string) error
	CurrentPath(ctx context.Context) string
}

// MessageKind selects the styling of a form message
type MessageKind string

const (
	MessageError   MessageKind = "error"
	MessageSuccess MessageKind = "success"
)

// Element ids of the message areas, controls and steps
const (
	TargetSignupMessage = "signupMessage"
	TargetLoginError    = "loginError"
	TargetMFAError      = "mfaError"

	ControlSignup  = "signupBtn"
	ControlLogin   = "loginBtn"
	ControlMFA     = "mfaBtn"
	ControlAnalyze = "checkBtn"

	StepSignupForm = "signup-form"
	StepMFASetup   = "mfa-setup"
	StepLoginForm  = "login-form"
	StepMFAForm    = "mfa-form"
)

// View is the imperative rendering side of the controllers
type View interface {
	ShowMessage(target, message string, kind MessageKind)
	ClearMessage(target string)
	Alert(message string)

	// SwitchStep hides one form step and reveals the next
	SwitchStep(hide, show string)

	SetBusy(control string, busy bool)
	ShowPasswordChecklist(items []ChecklistItem)
	ShowUser(username string)

	RenderResult(view ResultView)
	RenderQuickHistory(items []HistoryItemView)
	RenderHistory(view HistoryView)
}
