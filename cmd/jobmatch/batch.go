package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-matcher/internal/advisor"
	"github.com/jonathan/job-matcher/internal/observability"
	"github.com/jonathan/job-matcher/internal/pipeline"
	"github.com/jonathan/job-matcher/internal/report"
)

func newBatchCmd(g *globalOptions) *cobra.Command {
	var (
		model       modelFlags
		concurrency int
		limit       int
		minScore    float64
		precise     bool
		embed       bool
		asJSON      bool
		xlsxPath    string
		planPath    string
		strategy    string
	)

	cmd := &cobra.Command{
		Use:   "batch <resume-file> <job-file>...",
		Short: "Rank many job postings for one resume",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resumeText, err := readDocument(args[0])
			if err != nil {
				return err
			}
			jobs := make([]pipeline.BatchJob, 0, len(args)-1)
			for _, path := range args[1:] {
				text, err := readDocument(path)
				if err != nil {
					return err
				}
				id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
				jobs = append(jobs, pipeline.BatchJob{ID: id, Text: text})
			}
			var plan *advisor.SearchPlan
			if planPath != "" {
				if plan, err = readPlan(planPath); err != nil {
					return err
				}
			}

			progress := observability.NewPrinter(cmd.ErrOrStderr())
			a, err := newApp(cmd.Context(), g, appOptions{
				database:    true,
				concurrency: concurrency,
				onProgress:  progress.PrintProgress,
			})
			if err != nil {
				return err
			}
			defer a.close()

			result, err := a.service.Batch(cmd.Context(), pipeline.BatchRequest{
				ResumeInput: pipeline.ResumeInput{ResumeText: resumeText},
				Jobs:        jobs,
				Limit:       limit,
				MinScore:    minScore,
				Precise:     precise,
				Embed:       embed,
				Options:     a.extractionOptions(model.overrides(cmd)),
				Strategy:    strategy,
				Plan:        plan,
			})
			if err != nil {
				return err
			}

			if xlsxPath != "" {
				if err := report.WriteFile(xlsxPath, result.Matches); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", xlsxPath)
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, result)
			}
			observability.NewPrinter(out).PrintRanked(result.Matches, result.Excluded)
			return nil
		},
	}

	model.register(cmd)
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Pairs scored in parallel (default from config)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Keep only the best N matches")
	cmd.Flags().Float64Var(&minScore, "min-score", 0, "Drop matches scoring below this value")
	cmd.Flags().BoolVar(&precise, "precise", false, "Run precise matching on every pair that passes the direction gate")
	cmd.Flags().BoolVar(&embed, "embed", false, "Compute the semantic dimension from embeddings")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Also write the ranking to an Excel file")
	cmd.Flags().StringVar(&planPath, "plan", "", "Rank with the weights of a plan saved by plan --out")
	cmd.Flags().StringVar(&strategy, "strategy", "", "Label the search for strategy ranking (default the plan radius)")
	return cmd
}

func readPlan(path string) (*advisor.SearchPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan: %w", err)
	}
	var plan advisor.SearchPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse plan %s: %w", path, err)
	}
	return &plan, nil
}
