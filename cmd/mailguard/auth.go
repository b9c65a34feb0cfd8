package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mikey/mailguard/internal/core"
	"github.com/mikey/mailguard/internal/di"
)

var errNoPendingLogin = errors.New("no login awaiting verification, run 'mailguard login' first")

func newSignupCmd(opts *di.Options) *cobra.Command {
	var form core.SignupForm

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if form.Password == "" {
				password, err := prompt(cmd.InOrStdin(), cmd.ErrOrStderr(), "Password: ")
				if err != nil {
					return err
				}
				form.Password = password
			}
			return runApp(cmd, opts, func(ctx context.Context, a app) error {
				if err := a.Nav.RedirectTo(ctx, core.PageSignup); err != nil {
					return err
				}
				return a.Auth.Signup(ctx, form)
			})
		},
	}

	cmd.Flags().StringVarP(&form.Username, "username", "u", "", "Username (at least 4 characters)")
	cmd.Flags().StringVarP(&form.Email, "email", "e", "", "Email address")
	cmd.Flags().StringVarP(&form.Password, "password", "p", "", "Password, prompted when omitted")
	return cmd
}

func newLoginCmd(opts *di.Options) *cobra.Command {
	var form core.LoginForm

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in, starting MFA verification when required",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if form.Password == "" {
				password, err := prompt(cmd.InOrStdin(), cmd.ErrOrStderr(), "Password: ")
				if err != nil {
					return err
				}
				form.Password = password
			}
			return runApp(cmd, opts, func(ctx context.Context, a app) error {
				if err := a.Nav.RedirectTo(ctx, core.PageLogin); err != nil {
					return err
				}
				if err := a.Auth.Login(ctx, form); err != nil {
					return err
				}
				return recordPendingMFA(ctx, a)
			})
		},
	}

	cmd.Flags().StringVarP(&form.Username, "username", "u", "", "Username")
	cmd.Flags().StringVarP(&form.Password, "password", "p", "", "Password, prompted when omitted")
	return cmd
}

func newVerifyCmd(opts *di.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <code>",
		Short: "Complete a login with the emailed 6-digit code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd, opts, func(ctx context.Context, a app) error {
				pending, err := resumePendingMFA(ctx, a)
				if err != nil {
					return err
				}
				if !pending {
					return errNoPendingLogin
				}
				if err := a.Auth.VerifyMFA(ctx, args[0]); err != nil {
					return err
				}
				return a.Store.Clear(ctx, keyPendingMFA)
			})
		},
	}
}

func newResendCmd(opts *di.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "resend",
		Short: "Send a new verification code for the pending login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd, opts, func(ctx context.Context, a app) error {
				if _, err := resumePendingMFA(ctx, a); err != nil {
					return err
				}
				return a.Auth.ResendOTP(ctx)
			})
		},
	}
}

func newLogoutCmd(opts *di.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd, opts, func(ctx context.Context, a app) error {
				if err := a.Auth.Logout(ctx); err != nil {
					return err
				}
				if err := a.Store.Clear(ctx, keyPendingMFA); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
				return nil
			})
		},
	}
}

func newPasswordCheckCmd(opts *di.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "password-check [password]",
		Short: "Show which password requirements a password meets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				var err error
				if password, err = prompt(cmd.InOrStdin(), cmd.ErrOrStderr(), "Password: "); err != nil {
					return err
				}
			}
			return runView(cmd, opts, func(ctx context.Context, a viewApp) error {
				requirements := core.EvaluatePassword(password)
				a.Presenter.ShowPasswordChecklist(requirements.Checklist())
				if !requirements.Met() {
					return &core.ValidationError{Target: core.TargetSignupMessage, Message: core.MsgPasswordRequirements}
				}
				return nil
			})
		},
	}
}

// recordPendingMFA remembers the username of a login that still needs a code
func recordPendingMFA(ctx context.Context, a app) error {
	session := a.Auth.Session()
	if !session.MFAPending() {
		return a.Store.Clear(ctx, keyPendingMFA)
	}
	a.Logger.Debug("Login awaiting verification", zap.String("username", session.MFAUsername()))
	return a.Store.Set(ctx, keyPendingMFA, session.MFAUsername())
}

// resumePendingMFA restores the pending login into the session, reporting
// whether there was one
func resumePendingMFA(ctx context.Context, a app) (bool, error) {
	username, err := a.Store.Get(ctx, keyPendingMFA)
	if errors.Is(err, core.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	a.Auth.Session().ResumeMFA(username)
	return true, nil
}

func prompt(in io.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
