package scoring

import (
	"math"

	"seoAnalyzerGO/internal/models"
)

const (
	MinWordCount         = 300
	MinReadability       = 60
	maxAltDeduction      = 30
	altDeductionPerImage = 5

	// PlaceholderPerformance is reported when nothing was measured
	PlaceholderPerformance = 100
)

// Score runs the five deduction ladders. performance is taken as is,
// see PerformanceScore.
func Score(facts models.PageFacts, issues models.TechnicalIssues, performance int) models.DetailedScores {
	return models.DetailedScores{
		Technical:     technicalScore(issues),
		Content:       contentScore(facts),
		Performance:   clamp(performance),
		Accessibility: accessibilityScore(facts),
		Social:        socialScore(facts.SocialMedia),
	}
}

// Overall is the rounded mean of the five sub-scores
func Overall(scores models.DetailedScores) int {
	sum := scores.Technical + scores.Content + scores.Performance + scores.Accessibility + scores.Social
	return int(math.Round(float64(sum) / 5))
}

func technicalScore(issues models.TechnicalIssues) int {
	score := 100
	if issues.MissingTitle {
		score -= 25
	}
	if issues.MissingMetaDescription {
		score -= 20
	}
	if issues.DuplicateH1 {
		score -= 15
	}
	if issues.MissingCanonical {
		score -= 10
	}
	if issues.TitleTooLong {
		score -= 10
	}
	if issues.DescriptionTooLong {
		score -= 10
	}
	return clamp(score)
}

func contentScore(facts models.PageFacts) int {
	score := 100
	if facts.Content.WordCount < MinWordCount {
		score -= 20
	}
	if facts.Content.ReadabilityScore < MinReadability {
		score -= 15
	}
	if len(facts.Headings.H1) == 0 {
		score -= 20
	}
	if isTrue(facts.Content.DuplicateContent) {
		score -= 25
	}
	return clamp(score)
}

func accessibilityScore(facts models.PageFacts) int {
	score := 100
	if !facts.Accessibility.HeadingStructure {
		score -= 20
	}
	if isFalse(facts.Accessibility.ColorContrast) {
		score -= 15
	}
	score -= min(facts.Images.WithoutAlt*altDeductionPerImage, maxAltDeduction)
	if !facts.Mobile.Responsive {
		score -= 25
	}
	return clamp(score)
}

func socialScore(social models.SocialMediaAnalysis) int {
	score := 100
	if !social.OpenGraph {
		score -= 30
	}
	if !social.TwitterCard {
		score -= 20
	}
	if !social.Analytics {
		score -= 15
	}
	return clamp(score)
}

// PerformanceScore turns probe measurements into a 0-100 score. An explicit
// score from the probe wins. Without one, load time, page size and request
// count deduct from 100; with nothing measured the placeholder is returned.
func PerformanceScore(metrics models.PerformanceMetrics, explicit *int) int {
	if explicit != nil {
		return clamp(*explicit)
	}
	if !metrics.Measured {
		return PlaceholderPerformance
	}

	score := 100
	if metrics.LoadTimeMs != nil {
		switch ms := *metrics.LoadTimeMs; {
		case ms > 3000:
			score -= 40
		case ms > 2000:
			score -= 30
		case ms > 1500:
			score -= 20
		case ms > 1000:
			score -= 10
		}
	}
	if metrics.PageSizeBytes != nil {
		switch kb := float64(*metrics.PageSizeBytes) / 1024; {
		case kb > 5120:
			score -= 40
		case kb > 2048:
			score -= 30
		case kb > 1024:
			score -= 20
		case kb > 500:
			score -= 10
		}
	}
	if metrics.Requests != nil {
		switch n := *metrics.Requests; {
		case n > 100:
			score -= 20
		case n > 50:
			score -= 10
		}
	}
	return clamp(score)
}

func clamp(score int) int {
	return max(0, min(100, score))
}

func isTrue(b *bool) bool {
	return b != nil && *b
}

func isFalse(b *bool) bool {
	return b != nil && !*b
}
