package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/job-matcher/internal/observability"
	"github.com/jonathan/job-matcher/internal/pipeline"
)

func newMatchCmd(g *globalOptions) *cobra.Command {
	var (
		model   modelFlags
		precise bool
		embed   bool
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "match <resume-file> <job-file>",
		Short: "Score how well a resume fits a job posting",
		Long:  "Score a resume against a job posting. The fast score is computed locally; --precise asks the language model for a seven-dimension verdict and falls back to the fast score when no model answers.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resumeText, err := readDocument(args[0])
			if err != nil {
				return err
			}
			jobText, err := readDocument(args[1])
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), g, appOptions{})
			if err != nil {
				return err
			}
			defer a.close()

			req := pipeline.MatchRequest{
				ResumeInput: pipeline.ResumeInput{ResumeText: resumeText},
				JobText:     jobText,
				Embed:       embed,
				Options:     a.extractionOptions(model.overrides(cmd)),
			}
			out := cmd.OutOrStdout()
			printer := observability.NewPrinter(out)

			if precise {
				result, err := a.service.PreciseMatch(cmd.Context(), req)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(out, result)
				}
				printer.PrintPrecise(result)
				printer.PrintMatch(result.Fast)
				return nil
			}

			score, err := a.service.Match(cmd.Context(), req)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(out, score)
			}
			printer.PrintMatch(score)
			return nil
		},
	}

	model.register(cmd)
	cmd.Flags().BoolVar(&precise, "precise", false, "Ask the language model for a detailed verdict")
	cmd.Flags().BoolVar(&embed, "embed", false, "Compute the semantic dimension from embeddings")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}
