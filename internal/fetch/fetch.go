// Package fetch downloads job postings and turns their HTML into plain text,
// rendering script-heavy pages in a headless browser when needed.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// UserAgent identifies job page requests
const UserAgent = "Mozilla/5.0 (compatible; JobMatch/1.0)"

const pageSizeLimit = 5 << 20

// Page is a downloaded job posting
type Page struct {
	URL      string
	HTML     string
	Text     string
	Status   int
	Rendered bool
}

// Error describes a job page that could not be retrieved or read
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := "fetch " + e.URL + ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

func pageError(rawURL, msg string, cause error) *Error {
	return &Error{URL: rawURL, Message: msg, Cause: cause}
}

// download performs the plain HTTP GET. A non-200 answer still returns the
// page so callers can inspect the status.
func (f *Fetcher) download(ctx context.Context, rawURL string) (*Page, error) {
	if u, err := url.Parse(rawURL); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, pageError(rawURL, "invalid URL", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, pageError(rawURL, "bad request", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept-Language", "zh-CN,zh;q=0.9,en;q=0.8")
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, pageError(rawURL, "request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, pageSizeLimit))
	if err != nil {
		return nil, pageError(rawURL, "reading body", err)
	}

	page := &Page{URL: rawURL, HTML: string(body), Status: resp.StatusCode}
	if resp.StatusCode != http.StatusOK {
		return page, pageError(rawURL, fmt.Sprintf("HTTP status %d", resp.StatusCode), nil)
	}
	return page, nil
}

// Selectors tell MainText where the job detail lives and what to discard
type Selectors struct {
	Content []string
	Noise   []string
}

const boilerplate = "nav, footer, header, script, style, noscript, iframe, .ad, .ads, .advertisement, .sidebar, .cookie-banner, .popup"

// MainText returns the text of the first element matching a content
// selector, or of the whole body when none match. Block elements end a line.
func MainText(html string, sel Selectors) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	doc.Find(boilerplate).Remove()
	if len(sel.Noise) > 0 {
		doc.Find(strings.Join(sel.Noise, ", ")).Remove()
	}

	root := doc.Find("body")
	for _, css := range sel.Content {
		if found := doc.Find(css); found.Length() > 0 {
			root = found.First()
			break
		}
	}

	root.Find("br").ReplaceWithHtml("\n")
	root.Find("p, li, div, h1, h2, h3, h4, h5, h6, tr, dd, dt").AppendHtml("\n")

	var lines []string
	for _, line := range strings.Split(root.Text(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}
