package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mikey/mailguard/internal/core"
	"github.com/mikey/mailguard/internal/di"
)

var errLoginRequired = errors.New("not logged in, run 'mailguard login' first")

func newScanCmd(opts *di.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Open the detector, or the login page when logged out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd, opts, func(ctx context.Context, a app) error {
				if err := a.Home.StartScan(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), a.Nav.CurrentPath(ctx))
				return nil
			})
		},
	}
}

func newDetectCmd(opts *di.Options) *cobra.Command {
	var text, file, url string

	cmd := &cobra.Command{
		Use:   "detect [email text]",
		Short: "Analyze an email for phishing",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd, opts, func(ctx context.Context, a app) error {
				emailText := text
				switch {
				case file == "-":
					read, err := a.Reader.Read(cmd.InOrStdin())
					if err != nil {
						return err
					}
					emailText = read
				case file != "":
					read, err := a.Reader.ReadFile(file)
					if err != nil {
						return err
					}
					emailText = read
				case emailText == "" && len(args) > 0:
					emailText = strings.Join(args, " ")
				}

				if url != "" && !govalidator.IsURL(url) {
					a.Logger.Warn("URL does not look valid, sending it anyway", zap.String("url", url))
				}

				if err := mountDetector(ctx, a); err != nil {
					return err
				}
				_, err := a.Detector.Analyze(ctx, emailText, url)
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&text, "text", "t", "", "Email text to analyze")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Saved email (.eml) to analyze, - for stdin")
	cmd.Flags().StringVar(&url, "url", "", "Suspicious URL found in the email")
	cmd.MarkFlagsMutuallyExclusive("text", "file")
	return cmd
}

func newHistoryCmd(opts *di.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show recent analyses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd, opts, func(ctx context.Context, a app) error {
				return mountDetector(ctx, a)
			})
		},
	}
}

func newWhoamiCmd(opts *di.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd, opts, func(ctx context.Context, a app) error {
				identity, err := core.LoadIdentity(ctx, a.Store)
				if err != nil {
					return err
				}
				if !identity.IsLoggedIn {
					return errLoginRequired
				}
				return a.Detector.LoadUserInfo(ctx)
			})
		},
	}
}

// mountDetector opens the detector page through the landing page, the way
// the start button does
func mountDetector(ctx context.Context, a app) error {
	if err := a.Home.StartScan(ctx); err != nil {
		return err
	}
	mounted, err := a.Detector.Mount(ctx)
	if err != nil {
		return err
	}
	if !mounted {
		return errLoginRequired
	}
	return nil
}
