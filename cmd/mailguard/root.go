package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/mailguard/internal/adapters/emailfile"
	"github.com/mikey/mailguard/internal/adapters/render"
	"github.com/mikey/mailguard/internal/config"
	"github.com/mikey/mailguard/internal/core"
	"github.com/mikey/mailguard/internal/di"
	"github.com/mikey/mailguard/internal/ports"
)

// keyPendingMFA keeps the username of an unfinished MFA login between runs
const keyPendingMFA = "mfaUsername"

// app is everything a command may need from the container
type app struct {
	dig.In

	Config    *config.Config
	Logger    *zap.Logger
	Store     core.SessionStore
	Nav       core.Navigator
	Presenter ports.Presenter
	Auth      *core.AuthController
	Detector  *core.DetectorController
	Home      *core.HomeController
	Reader    *emailfile.Reader
}

// viewApp is the subset used by commands that never reach the backend
type viewApp struct {
	dig.In

	Config    *config.Config
	Logger    *zap.Logger
	Presenter ports.Presenter
	Preview   ports.Server
}

func newRootCmd() *cobra.Command {
	opts := &di.Options{}

	root := &cobra.Command{
		Use:           "mailguard",
		Short:         "MailGuard phishing detector client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.ConfigFile, "config", "", "Path to config file")
	flags.StringVar(&opts.Server, "server", "", "Base URL of the MailGuard backend")
	flags.StringVar(&opts.Output, "output", "", "Output format (terminal, html)")
	flags.BoolVar(&opts.Verbose, "verbose", false, "Enable verbose logging")
	flags.BoolVar(&opts.JSONLog, "json-log", false, "Output logs in JSON format")

	root.AddCommand(
		newSignupCmd(opts),
		newLoginCmd(opts),
		newVerifyCmd(opts),
		newResendCmd(opts),
		newLogoutCmd(opts),
		newScanCmd(opts),
		newDetectCmd(opts),
		newHistoryCmd(opts),
		newWhoamiCmd(opts),
		newDemoCmd(opts),
		newPasswordCheckCmd(opts),
	)
	return root
}

// runApp builds the container for one command and hands it the full app
func runApp(cmd *cobra.Command, opts *di.Options, fn func(ctx context.Context, a app) error) error {
	ctx := cmd.Context()
	container, err := buildContainer(cmd, opts)
	if err != nil {
		return err
	}

	return container.Invoke(func(a app) error {
		defer a.Logger.Sync()
		defer stopStore(a.Store, a.Logger)

		if err := fn(ctx, a); err != nil {
			return err
		}
		return writeDocument(cmd.OutOrStdout(), a.Presenter)
	})
}

// runView builds the container for a command that only renders
func runView(cmd *cobra.Command, opts *di.Options, fn func(ctx context.Context, a viewApp) error) error {
	ctx := cmd.Context()
	container, err := buildContainer(cmd, opts)
	if err != nil {
		return err
	}

	return container.Invoke(func(a viewApp) error {
		defer a.Logger.Sync()

		if err := fn(ctx, a); err != nil {
			return err
		}
		return writeDocument(cmd.OutOrStdout(), a.Presenter)
	})
}

func buildContainer(cmd *cobra.Command, opts *di.Options) (*dig.Container, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	o := *opts
	o.Out = cmd.OutOrStdout()
	return di.BuildContainer(ctx, o)
}

// writeDocument prints the page collected by an HTML presenter
func writeDocument(out io.Writer, p ports.Presenter) error {
	renderer, ok := p.(*render.HTMLRenderer)
	if !ok {
		return nil
	}
	doc, err := renderer.Document("MailGuard")
	if err != nil {
		return err
	}
	_, err = out.Write(doc)
	return err
}

func stopStore(store core.SessionStore, logger *zap.Logger) {
	if s, ok := store.(interface{ Stop() }); ok {
		s.Stop()
		logger.Debug("Session store closed")
	}
}
