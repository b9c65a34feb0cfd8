package core

import (
	"regexp"
	"unicode/utf8"
)

// MinPasswordLength is the shortest acceptable password
const MinPasswordLength = 8

var (
	uppercasePattern = regexp.MustCompile(`[A-Z]`)
	lowercasePattern = regexp.MustCompile(`[a-z]`)
	numberPattern    = regexp.MustCompile(`[0-9]`)
	specialPattern   = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

// PasswordRequirements is the outcome of the password policy
type PasswordRequirements struct {
	Length    bool
	Uppercase bool
	Lowercase bool
	Number    bool
	Special   bool
}

// ChecklistItem is one rendered password requirement
type ChecklistItem struct {
	Name  string
	Label string
	Met   bool
	Icon  string
}

// EvaluatePassword checks a candidate password against the policy
func EvaluatePassword(password string) PasswordRequirements {
	return PasswordRequirements{
		Length:    utf8.RuneCountInString(password) >= MinPasswordLength,
		Uppercase: uppercasePattern.MatchString(password),
		Lowercase: lowercasePattern.MatchString(password),
		Number:    numberPattern.MatchString(password),
		Special:   specialPattern.MatchString(password),
	}
}

// Met reports whether every requirement holds
func (r PasswordRequirements) Met() bool {
	return r.Length && r.Uppercase && r.Lowercase && r.Number && r.Special
}

// Map returns the requirements keyed by their checklist name
func (r PasswordRequirements) Map() map[string]bool {
	return map[string]bool{
		"length":    r.Length,
		"uppercase": r.Uppercase,
		"lowercase": r.Lowercase,
		"number":    r.Number,
		"special":   r.Special,
	}
}

// Checklist returns the requirements in display order
func (r PasswordRequirements) Checklist() []ChecklistItem {
	items := []ChecklistItem{
		{Name: "length", Label: "At least 8 characters", Met: r.Length},
		{Name: "uppercase", Label: "One uppercase letter", Met: r.Uppercase},
		{Name: "lowercase", Label: "One lowercase letter", Met: r.Lowercase},
		{Name: "number", Label: "One number", Met: r.Number},
		{Name: "special", Label: "One special character", Met: r.Special},
	}
	for i := range items {
		if items[i].Met {
			items[i].Icon = "✅"
		} else {
			items[i].Icon = "⚪"
		}
	}
	return items
}
