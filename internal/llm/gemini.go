package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// gemini serves both Client and Embedder from one genai.Client
type gemini struct {
	sdk *genai.Client
	cfg *Config
}

func newGemini(ctx context.Context, cfg *Config, apiKey string) (*gemini, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: API key is required")
	}
	sdk, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &gemini{sdk: sdk, cfg: cfg}, nil
}

func (g *gemini) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return g.generate(ctx, prompt, tier, "")
}

func (g *gemini) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	text, err := g.generate(ctx, prompt, tier, "application/json")
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

func (g *gemini) generate(ctx context.Context, prompt string, tier ModelTier, mime string) (string, error) {
	name := g.cfg.GetModel(tier)
	if name == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}
	model := g.sdk.GenerativeModel(name)
	model.SetTemperature(g.cfg.Temperature(tier))
	if mime != "" {
		model.ResponseMIMEType = mime
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &APICallError{Message: "gemini " + name, Cause: err}
	}
	return firstCandidateText(resp)
}

// Embed uses the configured embedding model, or reports
// ErrEmbeddingUnsupported when there is none.
func (g *gemini) Embed(ctx context.Context, text string) ([]float32, error) {
	if g.cfg.EmbedModel == "" {
		return nil, ErrEmbeddingUnsupported
	}
	res, err := g.sdk.EmbeddingModel(g.cfg.EmbedModel).EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, &APICallError{Message: "gemini embed " + g.cfg.EmbedModel, Cause: err}
	}
	if res == nil || res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, &ParseError{Message: "empty embedding result"}
	}
	return res.Embedding.Values, nil
}

func (g *gemini) GetModel(tier ModelTier) string { return g.cfg.GetModel(tier) }

func (g *gemini) Close() error {
	if g.sdk == nil {
		return nil
	}
	return g.sdk.Close()
}

// firstCandidateText concatenates the text parts of the first candidate
func firstCandidateText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", &ParseError{Message: "response has no candidates"}
	}
	content := resp.Candidates[0].Content
	if content == nil {
		return "", &ParseError{Message: "candidate has no content"}
	}

	var sb strings.Builder
	for _, part := range content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	if sb.Len() == 0 {
		return "", &ParseError{Message: "candidate has no text"}
	}
	return sb.String(), nil
}
