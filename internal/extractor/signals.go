package extractor

import (
	"net/url"
	"strings"

	"seoAnalyzerGO/internal/document"
	"seoAnalyzerGO/internal/models"
)

// Script sources that identify an advertising pixel
var pixelSources = []string{
	"connect.facebook.net",
	"facebook.com/tr",
	"snap.licdn.com",
	"static.ads-twitter.com",
	"analytics.tiktok.com",
}

// Script sources that identify an analytics tag
var analyticsSources = []string{
	"google-analytics.com",
	"googletagmanager.com",
	"gtag/js",
	"plausible.io",
	"static.cloudflareinsights.com",
	"cdn.segment.com",
}

// Mobile reports viewport signals. The viewport tag doubles as the
// responsiveness signal; touch friendliness needs rendering and stays unknown.
func Mobile(doc *document.Document) models.MobileAnalysis {
	viewport := doc.Exists(`meta[name="viewport"]`)
	return models.MobileAnalysis{
		ViewportMeta: viewport,
		Responsive:   viewport,
	}
}

// Accessibility derives alt coverage and heading hierarchy validity.
// Color contrast needs rendering and stays unknown.
func Accessibility(sequence []models.Heading, images models.ImagesAnalysis) models.AccessibilityAnalysis {
	return models.AccessibilityAnalysis{
		AltImages:        images.WithAlt,
		HeadingStructure: ValidHeadingHierarchy(sequence),
	}
}

// Security checks the page scheme. Mixed content needs the subresource
// list and stays unknown.
func Security(pageURL string) models.SecurityAnalysis {
	u, err := url.Parse(pageURL)
	return models.SecurityAnalysis{
		HTTPS: err == nil && strings.EqualFold(u.Scheme, "https"),
	}
}

// SocialMedia detects social meta tags and tracking scripts
func SocialMedia(doc *document.Document) models.SocialMediaAnalysis {
	social := models.SocialMediaAnalysis{
		OpenGraph:   doc.Exists(`meta[property^="og:"]`),
		TwitterCard: doc.Exists(`meta[name^="twitter:"]`),
	}

	for _, script := range doc.All("script[src]") {
		src, _ := script.Attr("src")
		src = strings.ToLower(src)
		if containsAny(src, pixelSources) {
			social.Pixel = true
		}
		if containsAny(src, analyticsSources) {
			social.Analytics = true
		}
	}

	return social
}

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
