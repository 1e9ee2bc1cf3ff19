package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// MinContentLength is the shortest extracted text, in characters, that counts
// as a rendered job page. Anything shorter is treated as an SPA shell.
const MinContentLength = 200

const (
	defaultBrowserTimeout = 30 * time.Second
	// job detail blocks are filled in by XHR after the load event
	settleDelay = 2 * time.Second
)

// ShouldUseBrowser reports whether text is too short to be a real posting
func ShouldUseBrowser(text string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(text)) < MinContentLength
}

var chromeFlags = append(chromedp.DefaultExecAllocatorOptions[:],
	chromedp.Flag("headless", true),
	chromedp.Flag("disable-gpu", true),
	chromedp.Flag("no-sandbox", true),
	chromedp.Flag("disable-dev-shm-usage", true),
	chromedp.UserAgent(UserAgent),
)

// WithBrowser loads url in a fresh headless Chrome and returns the page HTML
// once scripts have settled. Chrome or Chromium must be on PATH.
func WithBrowser(ctx context.Context, url string, timeout time.Duration, log *zap.Logger) (string, error) {
	if timeout <= 0 {
		timeout = defaultBrowserTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ctx, closeChrome := chromedp.NewExecAllocator(ctx, chromeFlags...)
	defer closeChrome()
	ctx, closeTab := chromedp.NewContext(ctx)
	defer closeTab()

	var html string
	started := time.Now()
	if err := chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(settleDelay),
		chromedp.OuterHTML("html", &html),
	); err != nil {
		return "", fmt.Errorf("render %s: %w", url, err)
	}

	if log != nil {
		log.Debug("rendered page", zap.String("url", url), zap.Int("bytes", len(html)), zap.Duration("elapsed", time.Since(started)))
	}
	return html, nil
}
