package commands

import (
	"context"

	"downtime-mcs/internal/mcp"
	"downtime-mcs/internal/metrics"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server over stdio",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	server, err := mcp.NewServer(svc, Version)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	if cfg.MetricsAddr != "" {
		g.Go(func() error {
			return metrics.NewServer(cfg.MetricsAddr).Run(gctx)
		})
	}
	g.Go(func() error {
		// The metrics listener lives only as long as the MCP session.
		defer cancel()
		log.Info().Msg("MCP Server starting Stdio loop")
		return server.Serve(gctx)
	})
	return g.Wait()
}
