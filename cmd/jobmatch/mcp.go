package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/job-matcher/internal/extraction"
	"github.com/jonathan/job-matcher/internal/mcpserver"
)

func newMCPCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve extraction and matching as MCP tools on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), g, appOptions{})
			if err != nil {
				return err
			}
			defer a.close()

			s := mcpserver.New(mcpserver.Config{
				Service: a.service,
				Defaults: extraction.Options{
					AllowLLM: a.cfg.Matching.AllowLLM,
					ForceLLM: a.cfg.Matching.ForceLLM,
				},
				Version: version,
				Logger:  a.log,
			})
			return mcpserver.ServeStdio(s)
		},
	}
}
