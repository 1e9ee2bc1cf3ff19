package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/job-matcher/internal/observability"
	"github.com/jonathan/job-matcher/internal/pipeline"
)

func newHistoryCmd(g *globalOptions) *cobra.Command {
	var (
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "history <resume-id>",
		Short: "List the stored matches of a resume, best first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), g, appOptions{database: true})
			if err != nil {
				return err
			}
			defer a.close()

			matches, err := a.service.MatchHistory(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), matches)
			}
			observability.NewPrinter(cmd.OutOrStdout()).PrintHistory(matches)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Show at most N matches (default 50)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the matches as JSON")
	return cmd
}

func newQualityCmd(g *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "quality <search-id>",
		Short: "Score how the results of a stored search were received",
		Long:  "Compute the recommendation quality of a stored batch search from the feedback recorded against it: engagement, conversion and average rating.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), g, appOptions{database: true})
			if err != nil {
				return err
			}
			defer a.close()

			result, err := a.service.SearchQuality(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			observability.NewPrinter(cmd.OutOrStdout()).PrintQuality(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}

func newStrategiesCmd(g *globalOptions) *cobra.Command {
	var (
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "strategies",
		Short: "Rank the strategies of recent searches by recommendation quality",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), g, appOptions{database: true})
			if err != nil {
				return err
			}
			defer a.close()

			ranked, err := a.service.TopStrategies(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), ranked)
			}
			observability.NewPrinter(cmd.OutOrStdout()).PrintStrategies(ranked)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", pipeline.DefaultStrategyLimit, "Number of strategies to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the ranking as JSON")
	return cmd
}
