package analyzer_test

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seoAnalyzerGO/internal/analyzer"
	"seoAnalyzerGO/internal/config"
)

func testBatchConfig() config.BatchConfig {
	return config.BatchConfig{
		MaxConcurrentRequests: 4,
		RequestsPerSecond:     0,
		MaxMemoryMB:           64,
	}
}

func TestAnalyzeURLs(t *testing.T) {
	var hits atomic.Int32
	server := createTestServer(&hits)
	defer server.Close()

	batch := analyzer.NewBatchAnalyzer(getTestAnalyzer(), testBatchConfig(), testLogger())

	urls := []string{
		server.URL + "/",
		server.URL + "/missing",
		server.URL + "/?page=2",
		"ftp://example.com",
	}
	result, err := batch.AnalyzeURLs(context.Background(), urls)
	require.NoError(t, err)

	require.Len(t, result.Reports, 2)
	assert.Equal(t, server.URL+"/", result.Reports[0].URL)
	assert.Equal(t, server.URL+"/?page=2", result.Reports[1].URL)

	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], server.URL+"/missing")
	assert.Contains(t, result.Errors[0], "HTTP 404")
	assert.Contains(t, result.Errors[1], "invalid URL")
}

func TestAnalyzeURLsRespectsWorkerLimit(t *testing.T) {
	var active, peak atomic.Int32
	a := getTestAnalyzer(analyzer.WithFetcher(fetchFunc(func(ctx context.Context, pageURL string) (*analyzer.Page, error) {
		n := active.Add(1)
		defer active.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		return &analyzer.Page{URL: pageURL, HTML: testPage, StatusCode: http.StatusOK}, nil
	})))

	cfg := testBatchConfig()
	cfg.MaxConcurrentRequests = 2
	batch := analyzer.NewBatchAnalyzer(a, cfg, testLogger())

	var urls []string
	for _, path := range []string{"a", "b", "c", "d", "e", "f"} {
		urls = append(urls, "https://example.com/"+path)
	}

	result, err := batch.AnalyzeURLs(context.Background(), urls)
	require.NoError(t, err)
	assert.Len(t, result.Reports, len(urls))
	assert.Empty(t, result.Errors)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestAnalyzeURLsCancelled(t *testing.T) {
	server := createTestServer(nil)
	defer server.Close()

	batch := analyzer.NewBatchAnalyzer(getTestAnalyzer(), testBatchConfig(), testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := batch.AnalyzeURLs(ctx, []string{server.URL + "/"})
	assert.ErrorIs(t, err, context.Canceled)
}
