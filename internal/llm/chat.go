package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// ChatJSON sends prompt to the model and decodes its JSON answer into out.
// Call failures come back as *APICallError (or whatever the client returned)
// and undecodable answers as *ParseError, so callers can pick a fallback.
func ChatJSON(ctx context.Context, client Client, prompt string, tier ModelTier, out any) error {
	raw, err := client.GenerateJSON(ctx, prompt, tier)
	if err != nil {
		return err
	}
	text := CleanJSONBlock(raw)
	if strings.TrimSpace(text) == "" {
		return &ParseError{Message: "empty model response"}
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return &ParseError{Message: "invalid JSON in model response", Cause: err}
	}
	return nil
}
