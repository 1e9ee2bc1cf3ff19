package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-matcher/internal/feedback"
	"github.com/jonathan/job-matcher/internal/observability"
	"github.com/jonathan/job-matcher/internal/types"
)

func newWeightsCmd(g *globalOptions) *cobra.Command {
	var (
		resumeID string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "weights [feedback.json]",
		Short: "Derive optimized match weights from candidate feedback",
		Long:  "Analyze candidate feedback and print the optimized seven-dimension weights. Feedback is read from a JSON array file, or from the database with --resume-id.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var analysis feedback.Analysis
			switch {
			case len(args) == 1 && resumeID != "":
				return errors.New("pass either a feedback file or --resume-id, not both")
			case len(args) == 1:
				records, err := readFeedback(args[0])
				if err != nil {
					return err
				}
				analysis = feedback.Analyze(records, types.DefaultWeights())
			case resumeID != "":
				a, err := newApp(cmd.Context(), g, appOptions{database: true})
				if err != nil {
					return err
				}
				defer a.close()
				result, err := a.service.Weights(cmd.Context(), resumeID)
				if err != nil {
					return err
				}
				analysis = result.Analysis
			default:
				return errors.New("a feedback file or --resume-id is required")
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), analysis)
			}
			observability.NewPrinter(cmd.OutOrStdout()).PrintWeights(analysis)
			return nil
		},
	}

	cmd.Flags().StringVar(&resumeID, "resume-id", "", "Analyze the feedback stored for this resume")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the analysis as JSON")
	return cmd
}

func readFeedback(path string) ([]types.Feedback, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read feedback: %w", err)
	}
	var records []types.Feedback
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse feedback %s: %w", path, err)
	}
	return records, nil
}
