package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-matcher/internal/advisor"
	"github.com/jonathan/job-matcher/internal/observability"
	"github.com/jonathan/job-matcher/internal/pipeline"
)

func newAnalyzeCmd(g *globalOptions) *cobra.Command {
	var (
		model  modelFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <resume-file>",
		Short: "Review a resume: core skills, level, strengths and target positions",
		Long:  "Ask the language model for a structured career review of a resume. Without a model the review is derived from the extracted profile.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readDocument(args[0])
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), g, appOptions{})
			if err != nil {
				return err
			}
			defer a.close()

			analysis, err := a.service.AnalyzeResume(cmd.Context(), pipeline.AnalyzeRequest{
				ResumeInput: pipeline.ResumeInput{ResumeText: text},
				Options:     a.extractionOptions(model.overrides(cmd)),
			})
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), analysis)
			}
			observability.NewPrinter(cmd.OutOrStdout()).PrintAnalysis(analysis)
			return nil
		},
	}

	model.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the analysis as JSON")
	return cmd
}

func newPlanCmd(g *globalOptions) *cobra.Command {
	var (
		model     modelFlags
		prefs     advisor.Preferences
		salaryMin int
		salaryMax int
		outPath   string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "plan <resume-file>",
		Short: "Plan a multi-path job search for a resume",
		Long:  "Build a search plan (paths, radius and seven-dimension weights) for a resume. With a database configured the best recent strategies inform the plan. --out saves the plan for batch --plan.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readDocument(args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("salary-min") {
				prefs.SalaryMin = &salaryMin
			}
			if cmd.Flags().Changed("salary-max") {
				prefs.SalaryMax = &salaryMax
			}

			a, err := newApp(cmd.Context(), g, appOptions{database: true})
			if err != nil {
				return err
			}
			defer a.close()

			plan, err := a.service.PlanSearch(cmd.Context(), pipeline.PlanRequest{
				ResumeInput: pipeline.ResumeInput{ResumeText: text},
				Preferences: prefs,
				Options:     a.extractionOptions(model.overrides(cmd)),
			})
			if err != nil {
				return err
			}

			if outPath != "" {
				if err := writePlan(outPath, plan); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Plan written to %s\n", outPath)
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), plan)
			}
			observability.NewPrinter(cmd.OutOrStdout()).PrintPlan(plan)
			return nil
		},
	}

	model.register(cmd)
	cmd.Flags().StringSliceVar(&prefs.Locations, "location", nil, "Preferred work locations")
	cmd.Flags().StringSliceVar(&prefs.Keywords, "keyword", nil, "Extra search keywords")
	cmd.Flags().StringSliceVar(&prefs.CompanyTypes, "company-type", nil, "Preferred company types")
	cmd.Flags().IntVar(&salaryMin, "salary-min", 0, "Expected monthly salary floor, in thousands")
	cmd.Flags().IntVar(&salaryMax, "salary-max", 0, "Expected monthly salary ceiling, in thousands")
	cmd.Flags().StringVar(&outPath, "out", "", "Also save the plan as JSON")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the plan as JSON")
	return cmd
}

func writePlan(path string, plan *advisor.SearchPlan) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := writeJSON(f, plan); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
