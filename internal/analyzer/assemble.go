package analyzer

import (
	"time"

	"seoAnalyzerGO/internal/document"
	"seoAnalyzerGO/internal/extractor"
	"seoAnalyzerGO/internal/models"
	"seoAnalyzerGO/internal/scoring"
)

// Assemble combines the pipeline outputs into a report. The overall score
// is the rounded mean of scores.
func Assemble(
	pageURL string,
	facts models.PageFacts,
	issues models.TechnicalIssues,
	scores models.DetailedScores,
	perf models.PerformanceMetrics,
	recommendations []string,
	createdAt time.Time,
) *models.SEOAnalysis {
	return &models.SEOAnalysis{
		URL:             pageURL,
		PageFacts:       facts,
		TechnicalIssues: issues,
		Scores:          scores,
		Performance:     perf,
		Score:           scoring.Overall(scores),
		Recommendations: recommendations,
		CreatedAt:       createdAt,
	}
}

// Evaluate runs the full pipeline over raw HTML: extraction, probe facets,
// issue checks, scoring and recommendations.
func Evaluate(pageURL, html string, opts extractor.Options, probe ProbeResult, createdAt time.Time) *models.SEOAnalysis {
	facts := extractor.Extract(document.Parse(html), pageURL, opts)
	probe.apply(&facts)

	perf := probe.performance()
	issues := scoring.CheckIssues(facts)
	scores := scoring.Score(facts, issues, scoring.PerformanceScore(perf, probe.PerformanceScore))
	recs := scoring.Recommend(facts, issues, scores, perf)

	return Assemble(pageURL, facts, issues, scores, perf, recs, createdAt)
}
