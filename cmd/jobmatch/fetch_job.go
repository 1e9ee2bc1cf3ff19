package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/job-matcher/internal/observability"
)

func newFetchJobCmd(g *globalOptions) *cobra.Command {
	var (
		model   modelFlags
		browser bool
		save    bool
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "fetch-job <url>",
		Short: "Fetch a job posting page and extract it",
		Long:  "Download a job posting, reduce it to its main text and extract it. Pages that render client-side (or return too little text) are loaded in headless Chrome.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), g, appOptions{database: save})
			if err != nil {
				return err
			}
			defer a.close()

			result, err := a.service.FetchJob(cmd.Context(), args[0], browser, a.extractionOptions(model.overrides(cmd)), save)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			observability.NewPrinter(cmd.OutOrStdout()).PrintJob(result.Extraction)
			return nil
		},
	}

	model.register(cmd)
	cmd.Flags().BoolVar(&browser, "browser", false, "Always render the page in headless Chrome")
	cmd.Flags().BoolVar(&save, "save", false, "Store the extraction in the database")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the extraction as JSON")
	return cmd
}
