package cli

import (
	"github.com/spf13/cobra"

	"github.com/zwdscn-cloud/JFreports/internal/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			store, err := c.openStorage(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			srv := server.New(store,
				server.WithLogger(c.Logger),
				server.WithCanvas(cfg.Canvas),
				server.WithSnapOptions(cfg.Snap),
			)
			printInfo("Serving on %s (storage: %s)", StyleHighlight.Render(cfg.Server.Addr), backendName(cfg.Storage.Backend))
			return srv.ListenAndServe(ctx, cfg.Server.Addr, cfg.Server.ReadTimeout(), cfg.Server.WriteTimeout())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}
