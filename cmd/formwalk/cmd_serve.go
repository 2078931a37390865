package main

import (
	"github.com/gin-gonic/gin"
	theme "github.com/goliatone/go-theme"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formwalk"
	"github.com/goliatone/go-formwalk/pkg/metrics"
	"github.com/goliatone/go-formwalk/pkg/web"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve check-ins over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			questions, err := a.questions()
			if err != nil {
				return err
			}
			st, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			themeCfg, err := a.theme()
			if err != nil {
				return err
			}

			serverCfg := a.cfg.Server
			if addr != "" {
				serverCfg.Addr = addr
			}
			if !a.verbose {
				gin.SetMode(gin.ReleaseMode)
			}
			srv, err := web.New(questions,
				web.WithConfig(serverCfg),
				web.WithStore(st),
				web.WithLogger(a.logger),
				web.WithMetrics(metrics.New()),
				web.WithTheme(themeCfg),
			)
			if err != nil {
				return err
			}
			return srv.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}

// theme resolves the configured manifest, or nil when none is set.
func (a *app) theme() (*theme.RendererConfig, error) {
	if a.cfg.Theme.Manifest == "" {
		return nil, nil
	}
	return formwalk.ThemeFromManifest(a.cfg.Theme.Manifest, a.cfg.Theme.Variant)
}
