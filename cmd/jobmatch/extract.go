package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/job-matcher/internal/observability"
	"github.com/jonathan/job-matcher/internal/pipeline"
)

func newExtractCmd(g *globalOptions) *cobra.Command {
	var (
		model  modelFlags
		asJSON bool
		save   bool
		srcURL string
	)

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract a structured profile from a resume or job posting",
	}

	run := func(kind string) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			text, err := readDocument(args[0])
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), g, appOptions{database: save})
			if err != nil {
				return err
			}
			defer a.close()

			req := pipeline.ExtractRequest{
				Text:      text,
				SourceURL: srcURL,
				Options:   a.extractionOptions(model.overrides(cmd)),
				Save:      save,
			}
			out := cmd.OutOrStdout()
			printer := observability.NewPrinter(out)

			if kind == "resume" {
				result, err := a.service.ExtractResume(cmd.Context(), req)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(out, result)
				}
				printer.PrintResume(result.Extraction)
				return nil
			}

			result, err := a.service.ExtractJob(cmd.Context(), req)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(out, result)
			}
			printer.PrintJob(result.Extraction)
			return nil
		}
	}

	resumeCmd := &cobra.Command{
		Use:   "resume <file>",
		Short: "Extract a resume (.txt, .md or .pdf)",
		Args:  cobra.ExactArgs(1),
		RunE:  run("resume"),
	}
	jobCmd := &cobra.Command{
		Use:   "job <file>",
		Short: "Extract a job posting (.txt, .md or .pdf)",
		Args:  cobra.ExactArgs(1),
		RunE:  run("job"),
	}
	jobCmd.Flags().StringVar(&srcURL, "source-url", "", "URL the posting was taken from")

	for _, c := range []*cobra.Command{resumeCmd, jobCmd} {
		model.register(c)
		c.Flags().BoolVar(&asJSON, "json", false, "Print the extraction as JSON")
		c.Flags().BoolVar(&save, "save", false, "Store the extraction in the database")
		cmd.AddCommand(c)
	}
	return cmd
}
