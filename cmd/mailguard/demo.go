package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mikey/mailguard/internal/core"
	"github.com/mikey/mailguard/internal/di"
)

func newDemoCmd(opts *di.Options) *cobra.Command {
	var serve string

	cmd := &cobra.Command{
		Use:       "demo [phishing|safe]",
		Short:     "Show a built-in example analysis",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(core.DemoPhishing), string(core.DemoSafe)},
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := core.DemoKinds()
			if len(args) == 1 {
				kinds = []core.DemoKind{core.DemoKind(args[0])}
			}

			o := *opts
			o.PreviewAddress = serve
			return runView(cmd, &o, func(ctx context.Context, a viewApp) error {
				for _, kind := range kinds {
					demo, err := core.Demo(kind)
					if err != nil {
						return err
					}
					if err := a.Presenter.RenderDemo(core.BuildDemoView(demo)); err != nil {
						return err
					}
				}

				if serve == "" {
					return nil
				}
				return servePreview(ctx, cmd, a, kinds)
			})
		},
	}

	cmd.Flags().StringVar(&serve, "serve", "", "Serve the demo cards over HTTP on this address until interrupted")
	return cmd
}

func servePreview(ctx context.Context, cmd *cobra.Command, a viewApp, kinds []core.DemoKind) error {
	if err := a.Preview.Start(); err != nil {
		return err
	}
	defer func() {
		if err := a.Preview.Stop(); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
		}
	}()

	for _, kind := range kinds {
		fmt.Fprintf(cmd.OutOrStdout(), "Serving http://%s/demo/%s\n", a.Config.GetString("preview.listen_address"), kind)
	}
	<-ctx.Done()
	return nil
}
