package core

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
)

// AuthController drives the signup, login and MFA forms
type AuthController struct {
	api     APIClient
	store   SessionStore
	nav     Navigator
	view    View
	logger  *zap.Logger
	session *Session
}

// NewAuthController creates a new auth controller
func NewAuthController(
	api APIClient,
	store SessionStore,
	nav Navigator,
	view View,
	logger *zap.Logger,
	session *Session,
) *AuthController {
	return &AuthController{
		api:     api,
		store:   store,
		nav:     nav,
		view:    view,
		logger:  logger,
		session: session,
	}
}

// Session returns the session shared with the other controllers
func (c *AuthController) Session() *Session {
	return c.session
}

// UpdatePasswordRequirements refreshes the checklist for the current input
// and reports whether the password satisfies the policy
func (c *AuthController) UpdatePasswordRequirements(password string) bool {
	requirements := EvaluatePassword(password)
	c.view.ShowPasswordChecklist(requirements.Checklist())
	return requirements.Met()
}

// Signup validates the form and registers a new account
func (c *AuthController) Signup(ctx context.Context, form SignupForm) error {
	form = form.Trimmed()
	c.view.ClearMessage(TargetSignupMessage)

	if err := form.Validate(); err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) && vErr.Message == MsgPasswordRequirements {
			c.UpdatePasswordRequirements(form.Password)
		}
		c.showValidation(err)
		return err
	}
	c.UpdatePasswordRequirements(form.Password)

	c.view.SetBusy(ControlSignup, true)
	defer c.view.SetBusy(ControlSignup, false)

	if _, err := c.api.Signup(ctx, SignupRequest{
		Username: form.Username,
		Password: form.Password,
		Email:    form.Email,
	}); err != nil {
		c.logger.Warn("Signup failed", zap.String("username", form.Username), zap.Error(err))
		c.view.ShowMessage(TargetSignupMessage, remoteMessage(err, MsgNetworkError), MessageError)
		return err
	}

	c.logger.Info("Account created", zap.String("username", form.Username))
	c.view.SwitchStep(StepSignupForm, StepMFASetup)
	return nil
}

// Login checks the credentials and either opens the MFA step or logs in
func (c *AuthController) Login(ctx context.Context, form LoginForm) error {
	form = form.Trimmed()
	c.view.ClearMessage(TargetLoginError)

	if err := form.Validate(); err != nil {
		c.showValidation(err)
		return err
	}

	c.session.usernameForMFA = form.Username
	c.session.mfaPending = false

	c.view.SetBusy(ControlLogin, true)
	defer c.view.SetBusy(ControlLogin, false)

	resp, err := c.api.Login(ctx, LoginRequest{Username: form.Username, Password: form.Password})
	if err != nil {
		c.logger.Warn("Login failed", zap.String("username", form.Username), zap.Error(err))
		c.view.ShowMessage(TargetLoginError, remoteMessage(err, MsgNetworkError), MessageError)
		return err
	}

	if resp.MFARequired {
		c.logger.Debug("MFA required", zap.String("username", form.Username))
		// the stored identity only ever names a verified user
		if err := clearIdentity(ctx, c.store); err != nil {
			return err
		}
		c.session.mfaPending = true
		c.view.SwitchStep(StepLoginForm, StepMFAForm)
		c.view.ShowMessage(TargetLoginError, MsgOTPSent, MessageSuccess)
		return nil
	}

	return c.completeLogin(ctx, form.Username)
}

// VerifyMFA submits the one-time code for the pending login
func (c *AuthController) VerifyMFA(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	c.view.ClearMessage(TargetMFAError)

	if err := ValidateMFACode(code); err != nil {
		c.showValidation(err)
		return err
	}

	c.view.SetBusy(ControlMFA, true)
	defer c.view.SetBusy(ControlMFA, false)

	username := c.session.usernameForMFA
	if _, err := c.api.VerifyMFA(ctx, VerifyMFARequest{Username: username, MFACode: code}); err != nil {
		c.logger.Warn("MFA verification failed", zap.String("username", username), zap.Error(err))
		c.view.ShowMessage(TargetMFAError, remoteMessage(err, MsgNetworkError), MessageError)
		return err
	}

	return c.completeLogin(ctx, username)
}

// ResendOTP asks for a new code for the username of the last login attempt.
// It does nothing when no login was attempted.
func (c *AuthController) ResendOTP(ctx context.Context) error {
	username := c.session.usernameForMFA
	if username == "" {
		c.logger.Debug("Skipping OTP resend, no pending login")
		return nil
	}

	if _, err := c.api.ResendOTP(ctx, ResendOTPRequest{Username: username}); err != nil {
		c.logger.Warn("OTP resend failed", zap.String("username", username), zap.Error(err))
		c.view.ShowMessage(TargetMFAError, remoteMessage(err, MsgResendFailed), MessageError)
		return err
	}

	c.view.ShowMessage(TargetMFAError, MsgOTPResent, MessageSuccess)
	return nil
}

// Logout ends the server session, clears the stored identity and returns home
func (c *AuthController) Logout(ctx context.Context) error {
	if err := c.api.Logout(ctx); err != nil {
		c.logger.Warn("Logout request failed", zap.Error(err))
	}

	if err := clearIdentity(ctx, c.store); err != nil {
		return err
	}
	c.session.Reset()

	c.logger.Info("Logged out")
	return c.nav.RedirectTo(ctx, PageHome)
}

func (c *AuthController) completeLogin(ctx context.Context, username string) error {
	c.session.mfaPending = false
	if err := persistIdentity(ctx, c.store, username); err != nil {
		c.logger.Error("Failed to persist identity", zap.Error(err))
		return err
	}
	c.logger.Info("Logged in", zap.String("username", username))
	return c.nav.RedirectTo(ctx, PageDetector)
}

func (c *AuthController) showValidation(err error) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		c.view.ShowMessage(vErr.Target, vErr.Message, MessageError)
	}
}

// HomeController handles the landing page actions
type HomeController struct {
	store  SessionStore
	nav    Navigator
	logger *zap.Logger
}

// NewHomeController creates a new home controller
func NewHomeController(store SessionStore, nav Navigator, logger *zap.Logger) *HomeController {
	return &HomeController{
		store:  store,
		nav:    nav,
		logger: logger,
	}
}

// StartScan sends logged-in users to the detector and everyone else to login
func (c *HomeController) StartScan(ctx context.Context) error {
	identity, err := LoadIdentity(ctx, c.store)
	if err != nil {
		return err
	}
	c.logger.Debug("Starting scan", zap.Bool("logged_in", identity.IsLoggedIn))
	if identity.IsLoggedIn {
		return c.nav.RedirectTo(ctx, PageDetector)
	}
	return c.nav.RedirectTo(ctx, PageLogin)
}
