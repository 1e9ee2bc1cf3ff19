package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-matcher/internal/queue"
)

func newWorkerCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Serve batch match requests from the NATS queue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, g, appOptions{database: true})
			if err != nil {
				return err
			}
			defer a.close()

			q, err := queue.Connect(a.cfg.NATS.URL, a.cfg.NATS.Subject, a.cfg.NATS.QueueGroup, queue.Options{
				Executor: a.exec,
				Logger:   a.log,
			})
			if err != nil {
				return err
			}
			defer q.Close()

			return q.Serve(ctx, a.service)
		},
	}
}
