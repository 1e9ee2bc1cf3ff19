package fetch

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/jonathan/job-matcher/internal/logger"
)

const (
	defaultFetchConcurrency = 4
	defaultRequestsPerSec   = 1.0
	defaultBurst            = 2
	defaultTimeout          = 30 * time.Second
)

// FetcherConfig configures a Fetcher. Zero values take defaults.
type FetcherConfig struct {
	Concurrency    int64
	RequestsPerSec float64
	Burst          int
	Timeout        time.Duration
	BrowserTimeout time.Duration
	UserAgent      string
	Headers        map[string]string
	Logger         *zap.Logger
}

// Fetcher downloads job pages politely: requests share one rate limiter and
// at most Concurrency pages are in flight.
type Fetcher struct {
	client    *http.Client
	userAgent string
	headers   map[string]string
	limiter   *rate.Limiter
	slots     *semaphore.Weighted
	log       *zap.Logger

	render func(ctx context.Context, url string) (string, error)
}

// NewFetcher creates a Fetcher
func NewFetcher(cfg FetcherConfig) *Fetcher {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultFetchConcurrency
	}
	if cfg.RequestsPerSec <= 0 {
		cfg.RequestsPerSec = defaultRequestsPerSec
	}
	if cfg.Burst <= 0 {
		cfg.Burst = defaultBurst
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = UserAgent
	}

	f := &Fetcher{
		client:    &http.Client{Timeout: cfg.Timeout},
		userAgent: cfg.UserAgent,
		headers:   cfg.Headers,
		limiter:   rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), cfg.Burst),
		slots:     semaphore.NewWeighted(cfg.Concurrency),
		log:       logger.OrNop(cfg.Logger).Named("fetch"),
	}
	f.render = func(ctx context.Context, url string) (string, error) {
		return WithBrowser(ctx, url, cfg.BrowserTimeout, f.log)
	}
	return f
}

// FetchJob downloads a job posting and returns its main text. Platforms that
// render client side, and pages whose text is too short, are rendered in the
// headless browser; forceBrowser skips the plain HTTP attempt.
func (f *Fetcher) FetchJob(ctx context.Context, url string, forceBrowser bool) (*Page, error) {
	if err := f.slots.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer f.slots.Release(1)

	platform := DetectPlatform(url)
	sel := SelectorsFor(platform)
	log := f.log.With(zap.String("url", url), zap.String("platform", string(platform)))

	var plain *Page
	if !forceBrowser && !RendersClientSide(platform) {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		page, err := f.download(ctx, url)
		if err != nil {
			return nil, err
		}
		if page.Text, err = MainText(page.HTML, sel); err != nil {
			return nil, pageError(url, "extracting text", err)
		}
		if !ShouldUseBrowser(page.Text) {
			log.Debug("fetched job page", zap.Int("chars", len(page.Text)))
			return page, nil
		}
		log.Info("page text too short, rendering in browser", zap.Int("chars", len(page.Text)))
		plain = page
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	html, err := f.render(ctx, url)
	if err != nil {
		if plain != nil && plain.Text != "" {
			log.Warn("browser rendering failed, keeping HTTP text", zap.Error(err))
			return plain, nil
		}
		return nil, pageError(url, "browser rendering failed", err)
	}

	text, err := MainText(html, sel)
	if err != nil {
		return nil, pageError(url, "extracting text", err)
	}
	if text == "" {
		return nil, pageError(url, "no job text found", nil)
	}
	log.Debug("rendered job page", zap.Int("chars", len(text)))
	return &Page{URL: url, HTML: html, Text: text, Status: http.StatusOK, Rendered: true}, nil
}
