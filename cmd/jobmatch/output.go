package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-matcher/internal/ingestion"
)

// modelFlags are the per-command overrides of the configured LLM defaults
type modelFlags struct {
	llm   bool
	force bool
}

func (m *modelFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&m.llm, "llm", false, "Allow the language model when rules are not confident (default from config)")
	cmd.Flags().BoolVar(&m.force, "force-llm", false, "Skip the rules and use the language model")
}

// overrides returns the flags the user actually set
func (m *modelFlags) overrides(cmd *cobra.Command) (llmFlag, forceFlag *bool) {
	if cmd.Flags().Changed("llm") {
		llmFlag = &m.llm
	}
	if cmd.Flags().Changed("force-llm") {
		forceFlag = &m.force
	}
	return llmFlag, forceFlag
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

// readDocument reads a resume or job file (.txt, .md or .pdf) as cleaned text
func readDocument(path string) (string, error) {
	text, err := ingestion.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return text, nil
}
