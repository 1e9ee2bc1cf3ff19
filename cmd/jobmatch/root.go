package main

import (
	"github.com/spf13/cobra"
)

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	configPath string
	jsonLog    bool
	debug      bool
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{}
	root := &cobra.Command{
		Use:           "jobmatch",
		Short:         "Resume and job posting extraction and matching",
		Long:          "jobmatch extracts structured profiles from resumes and job postings and scores how well they fit, locally or with a language model.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.configPath, "config", "", "Config file (default ./jobmatch.yaml when present)")
	root.PersistentFlags().BoolVar(&g.jsonLog, "json-log", false, "Write logs as JSON")
	root.PersistentFlags().BoolVar(&g.debug, "debug", false, "Enable debug logging")

	root.AddCommand(
		newExtractCmd(g),
		newMatchCmd(g),
		newBatchCmd(g),
		newFetchJobCmd(g),
		newWeightsCmd(g),
		newAnalyzeCmd(g),
		newPlanCmd(g),
		newHistoryCmd(g),
		newQualityCmd(g),
		newStrategiesCmd(g),
		newServeCmd(g),
		newWorkerCmd(g),
		newMCPCmd(g),
		newVersionCmd(),
	)
	return root
}
