package extractor

import (
	"net/url"
	"strings"

	"seoAnalyzerGO/internal/document"
	"seoAnalyzerGO/internal/models"
)

type linkBucket int

const (
	bucketOther linkBucket = iota
	bucketInternal
	bucketExternal
)

// Links classifies every anchor with an href.
//
// Root-relative and plain relative paths are resolved against the page
// and count as internal. Absolute and scheme-relative URLs are internal
// when their host matches the page host, external otherwise. Hosts are
// compared case-insensitively and a leading "www." is ignored, so
// www.example.com and example.com count as one site; other subdomains
// stay external. Fragments, empty hrefs and non-http schemes such as
// mailto: or tel: land in Other.
func Links(doc *document.Document, pageURL string) models.LinksAnalysis {
	base, err := url.Parse(pageURL)
	if err != nil {
		base = nil
	}

	var links models.LinksAnalysis
	for _, a := range doc.All("a[href]") {
		href, _ := a.Attr("href")
		links.Total++

		switch classifyLink(href, base) {
		case bucketInternal:
			links.Internal++
		case bucketExternal:
			links.External++
		default:
			links.Other++
		}

		rel, _ := a.Attr("rel")
		if hasToken(rel, "nofollow") {
			links.Nofollow++
		} else {
			links.Dofollow++
		}
	}

	return links
}

func classifyLink(href string, base *url.URL) linkBucket {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return bucketOther
	}

	u, err := url.Parse(href)
	if err != nil {
		return bucketOther
	}

	if u.Scheme != "" && !isHTTPScheme(u.Scheme) {
		return bucketOther
	}

	if strings.HasPrefix(href, "/") && !strings.HasPrefix(href, "//") {
		return bucketInternal
	}

	if base != nil {
		u = base.ResolveReference(u)
	}

	if u.Host == "" {
		// relative path with no page URL to resolve against
		return bucketInternal
	}

	if base != nil && sameHost(u, base) {
		return bucketInternal
	}
	return bucketExternal
}

func isHTTPScheme(scheme string) bool {
	scheme = strings.ToLower(scheme)
	return scheme == "http" || scheme == "https"
}

func sameHost(a, b *url.URL) bool {
	return normalizeHost(a.Hostname()) == normalizeHost(b.Hostname())
}

func normalizeHost(host string) string {
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}

// hasToken reports whether a space-separated attribute contains token
func hasToken(attr, token string) bool {
	for _, field := range strings.Fields(attr) {
		if strings.EqualFold(field, token) {
			return true
		}
	}
	return false
}
