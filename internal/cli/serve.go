package cli

import (
	"github.com/spf13/cobra"

	"github.com/easelkit/easel/internal/server"
)

// serveCommand creates the "serve" command which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the easel HTTP API server",
		Long: `Serve the board and image API over HTTP.

The server exposes board CRUD, node placement, connector geometry, and
cached image delivery. Storage backends follow the configuration file;
a Mongo board store and a Redis image cache suit multi-instance setups.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			boards, err := c.openBoardStore(ctx)
			if err != nil {
				return err
			}
			defer boards.Close(ctx)

			cache, err := c.openImageCache(ctx)
			if err != nil {
				return err
			}
			defer cache.Close()

			if addr == "" {
				addr = c.Config.Server.Addr
			}

			srv := server.New(server.Options{
				Addr:   addr,
				Boards: boards,
				Cache:  cache,
				Logger: c.Logger,
			})
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}
