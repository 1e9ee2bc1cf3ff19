// Package mcpserver exposes extraction, fast matching and search planning as
// MCP tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/jonathan/job-matcher/internal/advisor"
	"github.com/jonathan/job-matcher/internal/extraction"
	"github.com/jonathan/job-matcher/internal/logger"
	"github.com/jonathan/job-matcher/internal/pipeline"
)

// Tool names
const (
	ToolExtractResume = "extract_resume"
	ToolExtractJob    = "extract_job"
	ToolFastMatch     = "fast_match"
	ToolAnalyzeResume = "analyze_resume"
	ToolPlanSearch    = "plan_search"
)

// Config wires the tool server
type Config struct {
	Service *pipeline.Service
	// Defaults apply when a call does not set allow_llm / force_llm
	Defaults extraction.Options
	Version  string
	Logger   *zap.Logger
}

type tools struct {
	service  *pipeline.Service
	defaults extraction.Options
	log      *zap.Logger
}

// New builds an MCP server with the job matching tools registered
func New(cfg Config) *server.MCPServer {
	version := cfg.Version
	if version == "" {
		version = "dev"
	}
	t := &tools{
		service:  cfg.Service,
		defaults: cfg.Defaults,
		log:      logger.OrNop(cfg.Logger).Named("mcp"),
	}

	s := server.NewMCPServer("jobmatch", version, server.WithToolCapabilities(false))

	s.AddTool(mcp.NewTool(ToolExtractResume,
		mcp.WithDescription("Extract a structured profile from plain resume text"),
		mcp.WithString("text", mcp.Required(), mcp.Description("Resume text")),
		mcp.WithBoolean("allow_llm", mcp.Description("Use the language model when rules are not confident")),
		mcp.WithBoolean("force_llm", mcp.Description("Skip the rules and use the language model")),
	), t.extractResume)

	s.AddTool(mcp.NewTool(ToolExtractJob,
		mcp.WithDescription("Extract a structured profile from a job posting"),
		mcp.WithString("text", mcp.Required(), mcp.Description("Job posting text")),
		mcp.WithBoolean("allow_llm", mcp.Description("Use the language model when rules are not confident")),
		mcp.WithBoolean("force_llm", mcp.Description("Skip the rules and use the language model")),
	), t.extractJob)

	s.AddTool(mcp.NewTool(ToolFastMatch,
		mcp.WithDescription("Score how well a resume fits a job (0-100) with per-dimension scores"),
		mcp.WithString("resume_text", mcp.Required(), mcp.Description("Resume text")),
		mcp.WithString("job_text", mcp.Required(), mcp.Description("Job posting text")),
	), t.fastMatch)

	s.AddTool(mcp.NewTool(ToolAnalyzeResume,
		mcp.WithDescription("Review a resume: core skills, level, strengths, weaknesses and target positions"),
		mcp.WithString("resume_text", mcp.Required(), mcp.Description("Resume text")),
	), t.analyzeResume)

	s.AddTool(mcp.NewTool(ToolPlanSearch,
		mcp.WithDescription("Plan a multi-path job search for a resume, with the seven-dimension weights to rank results by"),
		mcp.WithString("resume_text", mcp.Required(), mcp.Description("Resume text")),
		mcp.WithString("locations", mcp.Description("Comma-separated preferred locations")),
		mcp.WithString("keywords", mcp.Description("Comma-separated extra search keywords")),
	), t.planSearch)

	return s
}

// ServeStdio serves the tools on stdin/stdout until the client disconnects
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func (t *tools) options(req mcp.CallToolRequest) extraction.Options {
	return extraction.Options{
		AllowLLM: req.GetBool("allow_llm", t.defaults.AllowLLM),
		ForceLLM: req.GetBool("force_llm", t.defaults.ForceLLM),
	}
}

func (t *tools) extractResume(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result, err := t.service.ExtractResume(ctx, pipeline.ExtractRequest{Text: text, Options: t.options(req)})
	return t.result(ToolExtractResume, result, err)
}

func (t *tools) extractJob(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result, err := t.service.ExtractJob(ctx, pipeline.ExtractRequest{Text: text, Options: t.options(req)})
	return t.result(ToolExtractJob, result, err)
}

func (t *tools) fastMatch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	resumeText, err := req.RequireString("resume_text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	jobText, err := req.RequireString("job_text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	score, err := t.service.Match(ctx, pipeline.MatchRequest{
		ResumeInput: pipeline.ResumeInput{ResumeText: resumeText},
		JobText:     jobText,
		Options:     t.options(req),
	})
	return t.result(ToolFastMatch, score, err)
}

func (t *tools) analyzeResume(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	resumeText, err := req.RequireString("resume_text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	analysis, err := t.service.AnalyzeResume(ctx, pipeline.AnalyzeRequest{
		ResumeInput: pipeline.ResumeInput{ResumeText: resumeText},
		Options:     t.defaults,
	})
	return t.result(ToolAnalyzeResume, analysis, err)
}

func (t *tools) planSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	resumeText, err := req.RequireString("resume_text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	plan, err := t.service.PlanSearch(ctx, pipeline.PlanRequest{
		ResumeInput: pipeline.ResumeInput{ResumeText: resumeText},
		Preferences: advisor.Preferences{
			Locations: splitList(req.GetString("locations", "")),
			Keywords:  splitList(req.GetString("keywords", "")),
		},
		Options: t.defaults,
	})
	return t.result(ToolPlanSearch, plan, err)
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// result turns a service outcome into tool output. Service errors are
// reported to the client as tool errors, not protocol errors.
func (t *tools) result(tool string, v any, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		t.log.Warn("tool call failed", zap.String("tool", tool), zap.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}
