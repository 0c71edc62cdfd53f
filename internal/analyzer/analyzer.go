package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"seoAnalyzerGO/internal/config"
	"seoAnalyzerGO/internal/extractor"
	"seoAnalyzerGO/internal/metrics"
	"seoAnalyzerGO/internal/models"
)

// Analyzer produces SEO reports for URLs and raw HTML.
// Reports for fetched URLs are cached in the Store, and concurrent
// requests for the same URL share a single fetch.
type Analyzer struct {
	fetcher  Fetcher
	probe    Probe
	store    Store
	recorder Recorder
	extract  extractor.Options
	metrics  *metrics.Metrics
	logger   *slog.Logger
	degraded bool
	timeout  time.Duration
	now      func() time.Time

	inflight singleflight.Group
}

// Option configures an Analyzer
type Option func(*Analyzer)

// WithFetcher replaces the default HTTP fetcher
func WithFetcher(f Fetcher) Option {
	return func(a *Analyzer) { a.fetcher = f }
}

// WithProbe supplies page-weight and rendering measurements
func WithProbe(p Probe) Option {
	return func(a *Analyzer) { a.probe = p }
}

// WithStore replaces the default in-memory report cache
func WithStore(s Store) Option {
	return func(a *Analyzer) { a.store = s }
}

// WithRecorder persists every fresh report
func WithRecorder(r Recorder) Option {
	return func(a *Analyzer) { a.recorder = r }
}

// WithExtractorOptions sets the duplicate and language detectors
func WithExtractorOptions(opts extractor.Options) Option {
	return func(a *Analyzer) { a.extract = opts }
}

// WithMetrics records analysis metrics
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Analyzer) { a.metrics = m }
}

// WithClock overrides the report timestamp source
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) { a.now = now }
}

// New creates a new Analyzer
func New(cfg config.AnalyzerConfig, logger *slog.Logger, opts ...Option) *Analyzer {
	a := &Analyzer{
		fetcher:  NewHTTPFetcher(cfg, logger),
		store:    NewMemoryStore(),
		logger:   logger,
		degraded: cfg.DegradedFallback,
		timeout:  requestTimeout(cfg),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze returns the report for a URL, serving it from the store when present.
// On retrieval failure it returns a *RetrievalError, or a report tagged
// Degraded when the fallback is enabled.
func (a *Analyzer) Analyze(ctx context.Context, rawURL string) (*models.SEOAnalysis, error) {
	pageURL, err := NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	if report, ok := a.cached(ctx, pageURL); ok {
		return report, nil
	}
	a.metrics.CacheMiss()

	// the shared analysis outlives any single caller; analyzeURL bounds it
	ch := a.inflight.DoChan(pageURL, func() (any, error) {
		return a.analyzeURL(context.WithoutCancel(ctx), pageURL)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return a.fallback(pageURL, res.Err)
		}
		return res.Val.(*models.SEOAnalysis), nil
	}
}

// AnalyzeHTML analyzes caller-supplied HTML as if it were served at rawURL.
// The result is persisted but never cached.
func (a *Analyzer) AnalyzeHTML(ctx context.Context, rawURL, html string) (*models.SEOAnalysis, error) {
	pageURL, err := NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	startTime := time.Now()
	evalCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	report := a.evaluate(evalCtx, pageURL, html)
	a.persist(ctx, report)

	a.metrics.ObserveAnalysis(metrics.StatusSuccess, time.Since(startTime))
	a.metrics.ObserveScore(report.Score)
	return report, nil
}

// Invalidate drops the cached report for a URL
func (a *Analyzer) Invalidate(ctx context.Context, rawURL string) error {
	pageURL, err := NormalizeURL(rawURL)
	if err != nil {
		return err
	}
	if err := a.store.Delete(ctx, pageURL); err != nil {
		return fmt.Errorf("failed to invalidate %s: %w", pageURL, err)
	}
	a.logger.Info("Invalidated cached report", "url", pageURL)
	return nil
}

// ClearCache drops every cached report
func (a *Analyzer) ClearCache(ctx context.Context) error {
	if err := a.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	a.logger.Info("Cleared report cache")
	return nil
}

func (a *Analyzer) cached(ctx context.Context, pageURL string) (*models.SEOAnalysis, bool) {
	report, ok, err := a.store.Get(ctx, pageURL)
	if err != nil {
		a.logger.Warn("Report cache lookup failed", "url", pageURL, "error", err)
		return nil, false
	}
	if ok {
		a.metrics.CacheHit()
		a.logger.Debug("Serving cached report", "url", pageURL)
	}
	return report, ok
}

// analyzeURL fetches and analyzes one page. It runs once per URL at a time.
func (a *Analyzer) analyzeURL(ctx context.Context, pageURL string) (*models.SEOAnalysis, error) {
	// a flight that finished just before this one started may have stored it
	if report, ok, err := a.store.Get(ctx, pageURL); err == nil && ok {
		return report, nil
	}

	startTime := time.Now()
	a.logger.Info("Analyzing URL", "url", pageURL)

	// fetch and probe share one deadline; persisting the result does not
	workCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	page, err := a.fetcher.Fetch(workCtx, pageURL)
	if err != nil {
		var retrievalErr *RetrievalError
		if !errors.As(err, &retrievalErr) {
			err = &RetrievalError{URL: pageURL, Err: err}
		}

		status := metrics.StatusError
		if a.degraded {
			status = metrics.StatusDegraded
		}
		a.metrics.ObserveAnalysis(status, time.Since(startTime))
		a.logger.Warn("Failed to fetch page", "url", pageURL, "error", err)
		return nil, err
	}
	a.metrics.ObserveFetch(len(page.HTML))

	// links and HTTPS are judged where the page was actually served
	report := a.evaluate(workCtx, page.finalURL(pageURL), page.HTML)
	if report.URL != pageURL {
		report.FinalURL = report.URL
		report.URL = pageURL
	}
	a.persist(ctx, report)

	if err := a.store.Set(ctx, pageURL, report); err != nil {
		a.logger.Warn("Failed to cache report", "url", pageURL, "error", err)
	}

	a.metrics.ObserveAnalysis(metrics.StatusSuccess, time.Since(startTime))
	a.metrics.ObserveScore(report.Score)
	a.logger.Info("Analysis complete", "url", pageURL, "score", report.Score, "duration", time.Since(startTime))
	return report, nil
}

func (a *Analyzer) evaluate(ctx context.Context, pageURL, html string) *models.SEOAnalysis {
	var measured ProbeResult
	if a.probe != nil {
		result, err := a.probe.Probe(ctx, pageURL)
		if err != nil {
			a.logger.Warn("Probe failed, leaving measurements unknown", "url", pageURL, "error", err)
		} else {
			measured = result
		}
	}
	return Evaluate(pageURL, html, a.extract, measured, a.now())
}

func (a *Analyzer) persist(ctx context.Context, report *models.SEOAnalysis) {
	if a.recorder == nil {
		return
	}
	if err := a.recorder.SaveReport(ctx, report); err != nil {
		a.logger.Error("Failed to save report", "url", report.URL, "error", err)
	}
}

// fallback builds a degraded placeholder for a page that could not be
// retrieved, or passes the error through when the fallback is disabled
func (a *Analyzer) fallback(pageURL string, err error) (*models.SEOAnalysis, error) {
	if !a.degraded {
		return nil, err
	}

	report := Evaluate(pageURL, "", a.extract, ProbeResult{}, a.now())
	report.Degraded = true
	report.Error = err.Error()
	return report, nil
}
