package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/job-matcher/internal/advisor"
	"github.com/jonathan/job-matcher/internal/config"
	"github.com/jonathan/job-matcher/internal/db"
	"github.com/jonathan/job-matcher/internal/extraction"
	"github.com/jonathan/job-matcher/internal/fetch"
	"github.com/jonathan/job-matcher/internal/llm"
	"github.com/jonathan/job-matcher/internal/logger"
	"github.com/jonathan/job-matcher/internal/matching"
	"github.com/jonathan/job-matcher/internal/metrics"
	"github.com/jonathan/job-matcher/internal/pipeline"
	"github.com/jonathan/job-matcher/internal/resilience"
	"github.com/jonathan/job-matcher/internal/taxonomy"
)

// app holds the collaborators a command runs with
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	metrics *metrics.Metrics
	client  llm.Client
	store   *db.DB
	exec    *resilience.Executor
	service *pipeline.Service
}

// appOptions selects optional parts of the wiring
type appOptions struct {
	// database connects and migrates when a database URL is configured
	database    bool
	concurrency int
	onProgress  pipeline.ProgressCallback
}

// newApp loads configuration and builds the service. Without an API key (or
// an Ollama provider) the service runs on rules alone.
func newApp(ctx context.Context, g *globalOptions, opts appOptions) (*app, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(g.jsonLog || cfg.Log.JSON, g.debug || cfg.Log.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	a := &app{cfg: cfg, log: log, metrics: metrics.New()}
	a.exec = resilience.NewExecutor(cfg.ResilienceOptions(), log)

	tables := taxonomy.Default()
	if cfg.Taxonomy.Overlay != "" {
		if tables, err = taxonomy.Load(cfg.Taxonomy.Overlay); err != nil {
			return nil, err
		}
	}

	if err := a.connectModel(ctx); err != nil {
		return nil, err
	}
	if opts.database && cfg.Database.URL != "" {
		if a.store, err = db.Connect(ctx, cfg.Database.URL); err != nil {
			a.close()
			return nil, err
		}
		if err := a.store.Migrate(ctx); err != nil {
			a.close()
			return nil, err
		}
	}

	concurrency := opts.concurrency
	if concurrency <= 0 {
		concurrency = cfg.Matching.Concurrency
	}

	var embedder llm.Embedder
	if e, ok := a.client.(llm.Embedder); ok {
		embedder = e
	}
	svcCfg := pipeline.Config{
		Extractor: extraction.New(extraction.Config{
			Tables:        tables,
			Client:        a.client,
			Logger:        log,
			Metrics:       a.metrics,
			Threshold:     cfg.Matching.ConfidenceThreshold,
			MaxModelCalls: cfg.Matching.MaxModelCalls,
		}),
		Matcher: matching.New(matching.Config{
			Client:           a.client,
			Embedder:         embedder,
			Tables:           tables,
			Logger:           log,
			Metrics:          a.metrics,
			MaxExternalCalls: cfg.Matching.MaxModelCalls,
		}),
		Fetcher:     fetch.NewFetcher(fetch.FetcherConfig{Logger: log}),
		Advisor:     advisor.New(advisor.Config{Client: a.client, Logger: log, Metrics: a.metrics}),
		Logger:      log,
		Concurrency: concurrency,
		OnProgress:  opts.onProgress,
	}
	if a.store != nil {
		svcCfg.Store = a.store
	}
	a.service = pipeline.New(svcCfg)
	return a, nil
}

func (a *app) connectModel(ctx context.Context) error {
	llmCfg := a.cfg.LLMOptions()
	if llmCfg.Provider == llm.ProviderGemini && a.cfg.LLM.APIKey == "" {
		a.log.Info("no model API key configured, using rule-based extraction and matching only")
		return nil
	}
	client, err := llm.NewClient(ctx, llmCfg, a.cfg.LLM.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}
	a.client = llm.NewResilientClient(client, a.exec)
	return nil
}

// extractionOptions applies command flags over the configured defaults
func (a *app) extractionOptions(llmFlag, forceFlag *bool) extraction.Options {
	opts := extraction.Options{AllowLLM: a.cfg.Matching.AllowLLM, ForceLLM: a.cfg.Matching.ForceLLM}
	if llmFlag != nil {
		opts.AllowLLM = *llmFlag
	}
	if forceFlag != nil {
		opts.ForceLLM = *forceFlag
	}
	return opts
}

func (a *app) close() {
	if a.client != nil {
		_ = a.client.Close()
	}
	if a.store != nil {
		a.store.Close()
	}
	_ = a.log.Sync()
}
