package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-matcher/internal/server"
)

func newServeCmd(g *globalOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long:  "Start an HTTP server exposing extraction, matching and feedback endpoints. Persistence is enabled when a database URL is configured.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, g, appOptions{database: true})
			if err != nil {
				return err
			}
			defer a.close()

			if !cmd.Flags().Changed("port") {
				port = a.cfg.Server.Port
			}
			srv := server.New(server.Config{
				Port:      port,
				RateLimit: a.cfg.Server.RateLimit,
				RateBurst: a.cfg.Server.RateBurst,
				Service:   a.service,
				Metrics:   a.metrics,
				Logger:    a.log,
			})
			return srv.Run(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "Port to listen on (default from config)")
	return cmd
}
