package extractor

import (
	"strings"

	"seoAnalyzerGO/internal/document"
	"seoAnalyzerGO/internal/models"
)

// Meta holds the head-level tags read straight off the document
type Meta struct {
	Title        string
	Description  string
	Keywords     string
	CanonicalURL string
	Robots       string
}

// ExtractMeta reads the title, description, keywords, canonical and robots tags
func ExtractMeta(doc *document.Document) Meta {
	return Meta{
		Title:        strings.TrimSpace(doc.Text("title")),
		Description:  metaContent(doc, `meta[name="description"]`),
		Keywords:     metaContent(doc, `meta[name="keywords"]`),
		CanonicalURL: attr(doc, `link[rel="canonical"]`, "href"),
		Robots:       metaContent(doc, `meta[name="robots"]`),
	}
}

// OpenGraph maps og:* meta properties onto their fields
func OpenGraph(doc *document.Document) models.OpenGraph {
	return models.OpenGraph{
		Title:       ogProperty(doc, "title"),
		Description: ogProperty(doc, "description"),
		Image:       ogProperty(doc, "image"),
		URL:         ogProperty(doc, "url"),
		Type:        ogProperty(doc, "type"),
		SiteName:    ogProperty(doc, "site_name"),
	}
}

// TwitterCard maps twitter:* meta names onto their fields
func TwitterCard(doc *document.Document) models.TwitterCard {
	return models.TwitterCard{
		Card:        twitterName(doc, "card"),
		Title:       twitterName(doc, "title"),
		Description: twitterName(doc, "description"),
		Image:       twitterName(doc, "image"),
		Site:        twitterName(doc, "site"),
		Creator:     twitterName(doc, "creator"),
	}
}

func ogProperty(doc *document.Document, name string) string {
	return metaContent(doc, `meta[property="og:`+name+`"]`)
}

func twitterName(doc *document.Document, name string) string {
	return metaContent(doc, `meta[name="twitter:`+name+`"]`)
}

func metaContent(doc *document.Document, selector string) string {
	return strings.TrimSpace(attr(doc, selector, "content"))
}

func attr(doc *document.Document, selector, name string) string {
	value, _ := doc.Attr(selector, name)
	return value
}
