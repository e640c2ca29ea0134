package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/darkroom/pkg/server"
)

// serveCommand creates the serve command: run the HTTP API until
// interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculator, preset and exposure API over HTTP",
		Example: `  darkroom serve
  darkroom serve --addr :9000 --no-cache`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.Config
			if addr != "" {
				cfg.Server.Addr = addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			store, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			srv := server.New(runner, store, cfg, c.Logger)

			printSuccess("Listening on %s", StyleHighlight.Render("http://"+cfg.Server.Addr))
			printDetail("cache: %s · presets: %s · features: %s",
				cfg.Cache.Backend, cfg.Presets.Backend, joinComma(cfg.Features.List()))
			printDetail("press Ctrl+C to stop")

			if err := srv.ListenAndServe(ctx); err != nil {
				return err
			}
			printInfo("Server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, localhost:8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "skip the artifact cache")
	return cmd
}
