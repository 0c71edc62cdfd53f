package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"seoAnalyzerGO/internal/analyzer"
	"seoAnalyzerGO/internal/api"
	"seoAnalyzerGO/internal/config"
	"seoAnalyzerGO/internal/metrics"
	"seoAnalyzerGO/internal/models"
	"seoAnalyzerGO/internal/repository"
)

const testPage = `<html><head><title>API Test</title>
<meta name="description" content="Served to the API tests"></head>
<body><h1>Hello</h1><p>Some words here.</p><a href="/about">About</a></body></html>`

// fakeRepo keeps reports in memory
type fakeRepo struct {
	mu      sync.Mutex
	reports []*models.SEOAnalysis
	err     error
}

func (r *fakeRepo) SaveReport(_ context.Context, report *models.SEOAnalysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	report.ID = primitive.NewObjectID()
	r.reports = append([]*models.SEOAnalysis{report}, r.reports...)
	return nil
}

func (r *fakeRepo) GetReport(_ context.Context, id string) (*models.SEOAnalysis, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", repository.ErrInvalidID, id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, report := range r.reports {
		if report.ID == oid {
			return report, nil
		}
	}
	return nil, r.err
}

func (r *fakeRepo) GetRecentReports(_ context.Context, limit int) ([]*models.SEOAnalysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return r.reports[:min(limit, len(r.reports))], nil
}

func (r *fakeRepo) GetReportsByURL(_ context.Context, pageURL string, limit int) ([]*models.SEOAnalysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reports := []*models.SEOAnalysis{}
	for _, report := range r.reports {
		if report.URL == pageURL && len(reports) < limit {
			reports = append(reports, report)
		}
	}
	return reports, r.err
}

func (r *fakeRepo) GetStats(context.Context) (*models.Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return &models.Stats{TotalReports: len(r.reports)}, r.err
}

func (r *fakeRepo) Close(context.Context) error { return nil }

type fetchFunc func(ctx context.Context, pageURL string) (*analyzer.Page, error)

func (f fetchFunc) Fetch(ctx context.Context, pageURL string) (*analyzer.Page, error) {
	return f(ctx, pageURL)
}

// stubFetcher serves testPage except for a few failing paths
var stubFetcher = fetchFunc(func(_ context.Context, pageURL string) (*analyzer.Page, error) {
	switch {
	case strings.HasSuffix(pageURL, "/missing"):
		return nil, &analyzer.RetrievalError{URL: pageURL, StatusCode: http.StatusNotFound}
	case strings.HasSuffix(pageURL, "/slow"):
		return nil, &analyzer.RetrievalError{URL: pageURL, Err: context.DeadlineExceeded}
	}
	return &analyzer.Page{URL: pageURL, HTML: testPage, StatusCode: http.StatusOK}, nil
})

func newKeycloak(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var roles []string
		switch r.Header.Get("Authorization") {
		case "Bearer admin":
			roles = []string{"admin"}
		case "Bearer user":
			roles = []string{"user"}
		default:
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"sub":"1","realm_access":{"roles":["%s"]}}`, strings.Join(roles, `","`))
	}))
	t.Cleanup(server.Close)
	return server
}

type testEnv struct {
	server  *api.Server
	repo    *fakeRepo
	metrics *metrics.Metrics
}

func newTestEnv(t *testing.T, withRepo bool) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	keycloak := newKeycloak(t)

	cfg := &config.Config{
		Server:   config.ServerConfig{Port: "0", AllowedOrigins: []string{"http://localhost:3000"}},
		Analyzer: config.AnalyzerConfig{RequestTimeout: time.Second},
		Batch:    config.BatchConfig{MaxConcurrentRequests: 2, MaxMemoryMB: 16},
		Keycloak: config.KeycloakConfig{URL: keycloak.URL, Realm: "seo-analyzer"},
		Metrics:  config.MetricsConfig{Enabled: true, Path: "/metrics"},
		LogLevel: slog.LevelInfo,
	}

	env := &testEnv{metrics: metrics.New("seo")}
	opts := []analyzer.Option{analyzer.WithFetcher(stubFetcher), analyzer.WithMetrics(env.metrics)}

	svc := api.Services{Metrics: env.metrics}
	if withRepo {
		env.repo = &fakeRepo{}
		svc.Repo = env.repo
		opts = append(opts, analyzer.WithRecorder(env.repo))
	}
	svc.Analyzer = analyzer.New(cfg.Analyzer, logger, opts...)
	svc.Batch = analyzer.NewBatchAnalyzer(svc.Analyzer, cfg.Batch, logger)

	env.server = api.NewServer(cfg, svc, logger)
	return env
}

func (e *testEnv) do(method, target, body, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, false)

	w := env.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.Contains(t, w.Body.String(), `"history":false`)
}

func TestAnalyzeEndpoint(t *testing.T) {
	env := newTestEnv(t, true)

	t.Run("Success", func(t *testing.T) {
		w := env.do(http.MethodPost, "/api/analyze", `{"url":"example.com/page"}`, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		report := decode[models.SEOAnalysis](t, w)
		assert.Equal(t, "https://example.com/page", report.URL)
		assert.Equal(t, "API Test", report.Title)
		assert.False(t, report.ID.IsZero())
	})

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"MissingURL", `{}`, http.StatusBadRequest},
		{"MalformedJSON", `{"url":`, http.StatusBadRequest},
		{"InvalidURL", `{"url":"ftp://example.com"}`, http.StatusBadRequest},
		{"NotFound", `{"url":"https://example.com/missing"}`, http.StatusBadGateway},
		{"Timeout", `{"url":"https://example.com/slow"}`, http.StatusGatewayTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(http.MethodPost, "/api/analyze", tt.body, "")
			assert.Equal(t, tt.status, w.Code)

			resp := decode[models.ErrorResponse](t, w)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestAnalyzeHTMLEndpoint(t *testing.T) {
	env := newTestEnv(t, true)

	body := `{"url":"https://example.com/draft","html":"<title>Draft</title><h1>Draft</h1>"}`
	w := env.do(http.MethodPost, "/api/analyze/html", body, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	report := decode[models.SEOAnalysis](t, w)
	assert.Equal(t, "Draft", report.Title)
	assert.Len(t, env.repo.reports, 1)
}

func TestAnalyzeBatchEndpoint(t *testing.T) {
	env := newTestEnv(t, false)

	body := `{"urls":["https://example.com/a","https://example.com/missing","https://example.com/b"]}`
	w := env.do(http.MethodPost, "/api/analyze/batch", body, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	result := decode[models.BatchResult](t, w)
	require.Len(t, result.Reports, 2)
	assert.Equal(t, "https://example.com/a", result.Reports[0].URL)
	assert.Equal(t, "https://example.com/b", result.Reports[1].URL)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "/missing")

	w = env.do(http.MethodPost, "/api/analyze/batch", `{"urls":[]}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportHistory(t *testing.T) {
	env := newTestEnv(t, true)

	for _, path := range []string{"a", "b", "a?v=2"} {
		w := env.do(http.MethodPost, "/api/analyze", `{"url":"https://example.com/`+path+`"}`, "")
		require.Equal(t, http.StatusOK, w.Code)
	}
	stored := env.repo.reports[0]

	w := env.do(http.MethodGet, "/api/reports/"+stored.ID.Hex(), "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, stored.URL, decode[models.SEOAnalysis](t, w).URL)

	w = env.do(http.MethodGet, "/api/reports/"+primitive.NewObjectID().Hex(), "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodGet, "/api/reports/nope", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	type listing struct {
		Count   int                   `json:"count"`
		Reports []*models.SEOAnalysis `json:"reports"`
	}

	w = env.do(http.MethodGet, "/api/reports?limit=2", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decode[listing](t, w).Count)

	w = env.do(http.MethodGet, "/api/reports?url=EXAMPLE.com/b", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	byURL := decode[listing](t, w)
	require.Equal(t, 1, byURL.Count)
	assert.Equal(t, "https://example.com/b", byURL.Reports[0].URL)

	w = env.do(http.MethodGet, "/api/reports?url=mailto:x@example.com", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportHistoryFailure(t *testing.T) {
	env := newTestEnv(t, true)
	env.repo.err = errors.New("connection reset")

	w := env.do(http.MethodGet, "/api/reports", "", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "connection reset")
}

func TestHistoryDisabled(t *testing.T) {
	env := newTestEnv(t, false)

	for _, target := range []string{"/api/reports", "/api/reports/" + primitive.NewObjectID().Hex()} {
		w := env.do(http.MethodGet, target, "", "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, target)
	}
	w := env.do(http.MethodGet, "/api/admin/stats", "", "admin")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAdminEndpoints(t *testing.T) {
	env := newTestEnv(t, true)
	require.Equal(t, http.StatusOK, env.do(http.MethodPost, "/api/analyze", `{"url":"https://example.com/"}`, "").Code)

	t.Run("RequiresToken", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodDelete, "/api/admin/cache", "", "").Code)
		assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodDelete, "/api/admin/cache", "", "forged").Code)
	})

	t.Run("RequiresAdminRole", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, env.do(http.MethodGet, "/api/admin/stats", "", "user").Code)
	})

	t.Run("Stats", func(t *testing.T) {
		w := env.do(http.MethodGet, "/api/admin/stats", "", "admin")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, decode[models.Stats](t, w).TotalReports)
	})

	t.Run("InvalidateURL", func(t *testing.T) {
		w := env.do(http.MethodDelete, "/api/admin/cache?url=https://example.com/", "", "admin")
		assert.Equal(t, http.StatusNoContent, w.Code)

		// the next analysis is a fresh one and is recorded again
		require.Equal(t, http.StatusOK, env.do(http.MethodPost, "/api/analyze", `{"url":"https://example.com/"}`, "").Code)
		assert.Len(t, env.repo.reports, 2)
	})

	t.Run("InvalidateInvalidURL", func(t *testing.T) {
		w := env.do(http.MethodDelete, "/api/admin/cache?url=ftp://x", "", "admin")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("ClearAll", func(t *testing.T) {
		w := env.do(http.MethodDelete, "/api/admin/cache", "", "admin")
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, false)
	env.do(http.MethodPost, "/api/analyze", `{"url":"https://example.com/"}`, "")
	env.do(http.MethodPost, "/api/analyze", `{"url":"https://example.com/"}`, "")

	w := env.do(http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()

	assert.Contains(t, body, `seo_analyses_total{status="success"} 1`)
	assert.Contains(t, body, `seo_cache_lookups_total{result="hit"} 1`)
	assert.Contains(t, body, `seo_http_requests_total{method="POST",path="/api/analyze",status="200"} 2`)
}

func TestCORS(t *testing.T) {
	env := newTestEnv(t, false)

	req := httptest.NewRequest(http.MethodOptions, "/api/analyze", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	env.server.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
