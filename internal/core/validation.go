package core

import (
	"strings"
	"unicode/utf8"
)

const (
	// MinUsernameLength is the shortest username accepted at signup
	MinUsernameLength = 4
	// MFACodeLength is the exact length of a one-time code
	MFACodeLength = 6
)

// Validation messages shown next to the forms
const (
	MsgAllFieldsRequired    = "All fields are required"
	MsgUsernameTooShort     = "Username must be at least 4 characters"
	MsgInvalidEmail         = "Please enter a valid email address"
	MsgPasswordRequirements = "Please meet all password requirements"
	MsgCredentialsRequired  = "Username and password are required"
	MsgVerificationRequired = "Please enter the verification code"
	MsgVerificationLength   = "Please enter a 6-digit code"
	MsgEmailContentRequired = "Please enter email content to analyze"
	MsgOTPSent              = "OTP sent to your email"
	MsgOTPResent            = "New OTP sent to your email"
)

// SignupForm holds the raw signup inputs
type SignupForm struct {
	Username string
	Password string
	Email    string
}

// Trimmed returns the form with surrounding whitespace removed
func (f SignupForm) Trimmed() SignupForm {
	return SignupForm{
		Username: strings.TrimSpace(f.Username),
		Password: strings.TrimSpace(f.Password),
		Email:    strings.TrimSpace(f.Email),
	}
}

// Validate applies the signup checks in priority order; the first failure wins
func (f SignupForm) Validate() error {
	if f.Username == "" || f.Password == "" || f.Email == "" {
		return &ValidationError{Target: TargetSignupMessage, Message: MsgAllFieldsRequired}
	}
	if utf8.RuneCountInString(f.Username) < MinUsernameLength {
		return &ValidationError{Target: TargetSignupMessage, Message: MsgUsernameTooShort}
	}
	if !strings.Contains(f.Email, "@") {
		return &ValidationError{Target: TargetSignupMessage, Message: MsgInvalidEmail}
	}
	if !EvaluatePassword(f.Password).Met() {
		return &ValidationError{Target: TargetSignupMessage, Message: MsgPasswordRequirements}
	}
	return nil
}

// LoginForm holds the raw login inputs
type LoginForm struct {
	Username string
	Password string
}

// Trimmed returns the form with surrounding whitespace removed
func (f LoginForm) Trimmed() LoginForm {
	return LoginForm{
		Username: strings.TrimSpace(f.Username),
		Password: strings.TrimSpace(f.Password),
	}
}

// Validate checks that both credentials are present
func (f LoginForm) Validate() error {
	if f.Username == "" || f.Password == "" {
		return &ValidationError{Target: TargetLoginError, Message: MsgCredentialsRequired}
	}
	return nil
}

// ValidateMFACode checks a trimmed one-time code
func ValidateMFACode(code string) error {
	if code == "" {
		return &ValidationError{Target: TargetMFAError, Message: MsgVerificationRequired}
	}
	if utf8.RuneCountInString(code) != MFACodeLength {
		return &ValidationError{Target: TargetMFAError, Message: MsgVerificationLength}
	}
	return nil
}
