package analyzer

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"seoAnalyzerGO/internal/config"
	"seoAnalyzerGO/internal/models"
)

const (
	// pageEstimate is the memory reserved per page while it is analyzed
	pageEstimate = 1024 * 1024
	// parseOverhead accounts for the parsed tree and extracted facts
	parseOverhead = 5
)

// BatchAnalyzer analyzes many URLs concurrently with a bounded worker
// pool, a request rate limit and a memory budget
type BatchAnalyzer struct {
	analyzer   *Analyzer
	logger     *slog.Logger
	limiter    *rate.Limiter
	maxWorkers int
	memory     *semaphore.Weighted
	weight     int64
}

// NewBatchAnalyzer creates a BatchAnalyzer on top of analyzer
func NewBatchAnalyzer(analyzer *Analyzer, cfg config.BatchConfig, logger *slog.Logger) *BatchAnalyzer {
	budget := max(cfg.MaxMemoryMB, 1) * 1024 * 1024

	limit := rate.Limit(cfg.RequestsPerSecond)
	if cfg.RequestsPerSecond <= 0 {
		limit = rate.Inf
	}

	return &BatchAnalyzer{
		analyzer:   analyzer,
		logger:     logger,
		limiter:    rate.NewLimiter(limit, 1),
		maxWorkers: int(max(cfg.MaxConcurrentRequests, 1)),
		memory:     semaphore.NewWeighted(budget),
		weight:     min(pageEstimate*parseOverhead, budget),
	}
}

// AnalyzeURLs analyzes every URL and returns the reports in input order.
// A URL that fails is reported in Errors and left out of Reports; the
// returned error is set only when ctx ends before the batch finishes.
func (b *BatchAnalyzer) AnalyzeURLs(ctx context.Context, urls []string) (*models.BatchResult, error) {
	reports := make([]*models.SEOAnalysis, len(urls))
	failures := make([]error, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.maxWorkers)

	for i, pageURL := range urls {
		g.Go(func() error {
			if err := b.limiter.Wait(gctx); err != nil {
				return fmt.Errorf("rate limiter error: %w", err)
			}
			if err := b.memory.Acquire(gctx, b.weight); err != nil {
				return fmt.Errorf("resource acquisition failed: %w", err)
			}
			defer b.memory.Release(b.weight)

			report, err := b.analyzer.Analyze(gctx, pageURL)
			if err != nil {
				b.logger.Debug("Batch item failed", "url", pageURL, "error", err)
				failures[i] = err
				return nil
			}
			reports[i] = report
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &models.BatchResult{Reports: []*models.SEOAnalysis{}}
	for i := range urls {
		if failures[i] != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("error analyzing %s: %v", urls[i], failures[i]))
			continue
		}
		result.Reports = append(result.Reports, reports[i])
	}

	b.logger.Info("Batch analysis complete", "urls", len(urls), "reports", len(result.Reports), "errors", len(result.Errors))
	return result, nil
}
