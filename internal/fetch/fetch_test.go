package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Download(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, UserAgent, r.Header.Get("User-Agent"))
		assert.Equal(t, "abc", r.Header.Get("X-Trace"))
		_, _ = w.Write([]byte("<html><body><h1>Go后端工程师</h1></body></html>"))
	}))
	defer srv.Close()

	f := NewFetcher(FetcherConfig{Headers: map[string]string{"X-Trace": "abc"}})
	page, err := f.download(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, srv.URL, page.URL)
	assert.Equal(t, http.StatusOK, page.Status)
	assert.Contains(t, page.HTML, "<h1>Go后端工程师</h1>")
}

func TestFetcher_Download_RejectsBadURL(t *testing.T) {
	f := NewFetcher(FetcherConfig{})
	for _, raw := range []string{"not-a-valid-url", "ftp://example.com/job", "https://"} {
		_, err := f.download(context.Background(), raw)

		var fetchErr *Error
		require.ErrorAs(t, err, &fetchErr, raw)
		assert.Equal(t, "invalid URL", fetchErr.Message)
	}
}

func TestFetcher_Download_Status(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	page, err := NewFetcher(FetcherConfig{}).download(context.Background(), srv.URL)
	require.Error(t, err)
	require.NotNil(t, page)
	assert.Equal(t, http.StatusNotFound, page.Status)
	assert.Equal(t, "fetch "+srv.URL+": HTTP status 404", err.Error())
}

func TestMainText_PrefersContentSelector(t *testing.T) {
	html := `
	<html>
		<body>
			<nav>导航</nav>
			<main>
				<h1>岗位职责</h1>
				<p>负责后端服务开发</p>
			</main>
			<footer>版权所有</footer>
		</body>
	</html>`

	text, err := MainText(html, SelectorsFor(PlatformUnknown))
	require.NoError(t, err)
	assert.Equal(t, "岗位职责\n负责后端服务开发", text)
}

func TestMainText_FallsBackToBody(t *testing.T) {
	text, err := MainText(`<html><body><span>Some content here.</span></body></html>`, Selectors{Content: []string{".missing"}})
	require.NoError(t, err)
	assert.Equal(t, "Some content here.", text)
}

func TestMainText_KeepsLineBreaks(t *testing.T) {
	html := `<html><body><div class="job-sec-text"><ul><li>熟悉Go语言</li><li>熟悉MySQL</li></ul>3-5年经验<br>本科</div></body></html>`

	text, err := MainText(html, SelectorsFor(PlatformBoss))
	require.NoError(t, err)
	assert.Equal(t, "熟悉Go语言\n熟悉MySQL\n3-5年经验\n本科", text)
}

func TestMainText_DropsNoise(t *testing.T) {
	html := `<html><body><div class="job-description">
		<h2>任职要求</h2>
		<p>5年以上Go开发经验</p>
		<div class="qrcode">扫码投递</div>
	</div></body></html>`

	text, err := MainText(html, SelectorsFor(PlatformUnknown))
	require.NoError(t, err)
	assert.Contains(t, text, "5年以上Go开发经验")
	assert.NotContains(t, text, "扫码投递")
}

func TestShouldUseBrowser(t *testing.T) {
	assert.True(t, ShouldUseBrowser("   "))
	assert.True(t, ShouldUseBrowser(strings.Repeat("职", MinContentLength-1)))
	assert.False(t, ShouldUseBrowser(strings.Repeat("职", MinContentLength)))
}

func jobPage(body string) string {
	return `<html><body><div class="job-description"><p>` + body + `</p></div></body></html>`
}

func TestFetcher_FetchJob_HTTP(t *testing.T) {
	body := strings.Repeat("负责分布式系统设计。", 30)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(jobPage(body)))
	}))
	defer server.Close()

	f := NewFetcher(FetcherConfig{RequestsPerSec: 100})
	var rendered atomic.Int32
	f.render = func(context.Context, string) (string, error) {
		rendered.Add(1)
		return "", errors.New("unexpected render")
	}

	page, err := f.FetchJob(context.Background(), server.URL, false)
	require.NoError(t, err)
	assert.Equal(t, body, page.Text)
	assert.False(t, page.Rendered)
	assert.Zero(t, rendered.Load())
}

func TestFetcher_FetchJob_ShortPageUsesBrowser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(jobPage("加载中")))
	}))
	defer server.Close()

	f := NewFetcher(FetcherConfig{RequestsPerSec: 100})
	f.render = func(_ context.Context, url string) (string, error) {
		assert.Equal(t, server.URL, url)
		return jobPage("Go后端工程师 3-5年 本科"), nil
	}

	page, err := f.FetchJob(context.Background(), server.URL, false)
	require.NoError(t, err)
	assert.Equal(t, "Go后端工程师 3-5年 本科", page.Text)
	assert.True(t, page.Rendered)
}

func TestFetcher_FetchJob_BrowserFailureKeepsHTTPText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(jobPage("Go后端工程师")))
	}))
	defer server.Close()

	f := NewFetcher(FetcherConfig{RequestsPerSec: 100})
	f.render = func(context.Context, string) (string, error) {
		return "", errors.New("chrome not installed")
	}

	page, err := f.FetchJob(context.Background(), server.URL, false)
	require.NoError(t, err)
	assert.Equal(t, "Go后端工程师", page.Text)
}

func TestFetcher_FetchJob_ForceBrowser(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	f := NewFetcher(FetcherConfig{RequestsPerSec: 100})
	f.render = func(context.Context, string) (string, error) {
		return "", errors.New("chrome not installed")
	}

	_, err := f.FetchJob(context.Background(), server.URL, true)
	require.Error(t, err)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "browser rendering failed", fetchErr.Message)
	assert.Zero(t, hits.Load())
}

func TestFetcher_FetchJob_CancelledContext(t *testing.T) {
	f := NewFetcher(FetcherConfig{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.FetchJob(ctx, "https://www.liepin.com/job/1.shtml", false)
	assert.ErrorIs(t, err, context.Canceled)
}
