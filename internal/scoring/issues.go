// Package scoring evaluates extracted page facts: it flags technical
// issues, derives the five sub-scores and turns both into recommendations.
package scoring

import (
	"strings"
	"unicode/utf8"

	"seoAnalyzerGO/internal/models"
)

const (
	MaxTitleLength       = 60
	MaxDescriptionLength = 160
)

// CheckIssues evaluates the technical rules against facts.
// Lengths are counted in characters, not bytes.
func CheckIssues(facts models.PageFacts) models.TechnicalIssues {
	robots := strings.ToLower(facts.Robots)

	return models.TechnicalIssues{
		MissingTitle:           facts.Title == "",
		MissingMetaDescription: facts.MetaDescription == "",
		DuplicateH1:            len(facts.Headings.H1) > 1,
		ImagesMissingAlt:       facts.Images.WithoutAlt > 0,
		TitleTooLong:           utf8.RuneCountInString(facts.Title) > MaxTitleLength,
		DescriptionTooLong:     utf8.RuneCountInString(facts.MetaDescription) > MaxDescriptionLength,
		MissingCanonical:       facts.CanonicalURL == "",
		NoIndex:                strings.Contains(robots, "noindex"),
		NoFollow:               strings.Contains(robots, "nofollow"),
	}
}
