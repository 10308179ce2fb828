package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dunglas/go-routematch/internal/config"
	"github.com/dunglas/go-routematch/internal/server"
	"github.com/spf13/cobra"
)

func serveCmd(c *cli) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the route table over HTTP",
		Long: `Serve the route table over HTTP.

  GET /resolve?url=<url>  first route matching the URL and its captures
  GET /routes             routes of the table
  GET /metrics            Prometheus metrics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := config.Build(c.config)
			if err != nil {
				return err
			}

			if addr == "" {
				addr = c.config.Server.Addr
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return server.New(table).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default: server.addr from config)")

	return cmd
}
