package scoring

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"seoAnalyzerGO/internal/models"
)

// Severity markers every recommendation starts with
const (
	Critical  = "Critical: "
	Important = "Important: "
	Info      = "Info: "
)

const (
	performanceThreshold   = 70
	socialThreshold        = 70
	accessibilityThreshold = 80
)

// Recommend maps triggered conditions to recommendations. Groups always
// come in the same order: technical, content, images, links, performance,
// social, accessibility. A clean page yields an empty list.
func Recommend(facts models.PageFacts, issues models.TechnicalIssues, scores models.DetailedScores, perf models.PerformanceMetrics) []string {
	recs := []string{}
	add := func(severity, format string, args ...any) {
		recs = append(recs, severity+fmt.Sprintf(format, args...))
	}

	// technical
	if issues.MissingTitle {
		add(Critical, "Add a title tag to the page")
	}
	if issues.MissingMetaDescription {
		add(Critical, "Add a meta description")
	}
	if issues.TitleTooLong {
		add(Important, "Shorten the title to %d characters or fewer (currently %d)",
			MaxTitleLength, utf8.RuneCountInString(facts.Title))
	}
	if issues.DescriptionTooLong {
		add(Important, "Shorten the meta description to %d characters or fewer (currently %d)",
			MaxDescriptionLength, utf8.RuneCountInString(facts.MetaDescription))
	}
	if issues.DuplicateH1 {
		add(Important, "Use a single H1 heading (found %d)", len(facts.Headings.H1))
	}
	if issues.MissingCanonical {
		add(Info, "Add a canonical URL")
	}
	if n := len(facts.StructuredData.Errors); n > 0 {
		add(Important, "Fix %d invalid JSON-LD block(s)", n)
	}
	if issues.NoIndex {
		add(Critical, "Remove noindex from the robots meta tag if the page should appear in search results")
	}
	if issues.NoFollow {
		add(Important, "Remove nofollow from the robots meta tag so crawlers follow the links on this page")
	}

	// content
	if facts.Content.WordCount < MinWordCount {
		add(Important, "Add more content (%d words, aim for at least %d)", facts.Content.WordCount, MinWordCount)
	}
	if facts.Content.ReadabilityScore < MinReadability {
		add(Info, "Use shorter sentences to improve readability (score %d)", facts.Content.ReadabilityScore)
	}
	if len(facts.Headings.H1) == 0 {
		add(Important, "Add an H1 heading")
	}
	if isTrue(facts.Content.DuplicateContent) {
		add(Critical, "Rewrite content that duplicates other pages")
	}

	// images
	if facts.Images.WithoutAlt > 0 {
		add(Important, "Add alt text to %d image(s)", facts.Images.WithoutAlt)
	}
	if n := len(facts.Images.Oversized); n > 0 {
		add(Info, "Compress %d oversized image(s)", n)
	}

	// links
	if facts.Links.Internal == 0 {
		add(Info, "Add internal links to related pages")
	}
	if facts.Links.External == 0 {
		add(Info, "Link to relevant external sources")
	}
	if facts.Links.Broken != nil && *facts.Links.Broken > 0 {
		add(Important, "Fix %d broken link(s)", *facts.Links.Broken)
	}

	if perf.Measured && scores.Performance < performanceThreshold {
		add(Important, "Improve page performance (score %d): reduce page weight and request count", scores.Performance)
	}

	if scores.Social < socialThreshold {
		add(Info, "Improve social sharing (score %d): add %s", scores.Social, strings.Join(missingSocial(facts.SocialMedia), ", "))
	}

	if scores.Accessibility < accessibilityThreshold {
		add(Important, "Improve accessibility (score %d)", scores.Accessibility)
	}

	return recs
}

func missingSocial(social models.SocialMediaAnalysis) []string {
	var missing []string
	if !social.OpenGraph {
		missing = append(missing, "Open Graph tags")
	}
	if !social.TwitterCard {
		missing = append(missing, "Twitter Card tags")
	}
	if !social.Analytics {
		missing = append(missing, "an analytics tag")
	}
	return missing
}
