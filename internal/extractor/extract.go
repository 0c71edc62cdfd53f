// Package extractor turns a parsed page into PageFacts. Every extractor is
// a pure function of the document; Extract runs them concurrently.
package extractor

import (
	"golang.org/x/sync/errgroup"

	"seoAnalyzerGO/internal/document"
	"seoAnalyzerGO/internal/models"
)

// Options carries the extension points for facets the HTML alone cannot answer
type Options struct {
	Duplicates DuplicateDetector
	Language   LanguageDetector
}

// Extract runs every extractor over doc and assembles the PageFacts
func Extract(doc *document.Document, pageURL string, opts Options) models.PageFacts {
	var (
		meta       Meta
		og         models.OpenGraph
		twitter    models.TwitterCard
		structured models.StructuredData
		sequence   []models.Heading
		images     models.ImagesAnalysis
		links      models.LinksAnalysis
		keywords   models.KeywordsAnalysis
		content    models.ContentAnalysis
		mobile     models.MobileAnalysis
		social     models.SocialMediaAnalysis
	)

	// each goroutine owns exactly one result variable
	var g errgroup.Group
	g.Go(func() error { meta = ExtractMeta(doc); return nil })
	g.Go(func() error { og = OpenGraph(doc); return nil })
	g.Go(func() error { twitter = TwitterCard(doc); return nil })
	g.Go(func() error { structured = StructuredData(doc); return nil })
	g.Go(func() error { sequence = HeadingSequence(doc); return nil })
	g.Go(func() error { images = Images(doc); return nil })
	g.Go(func() error { links = Links(doc, pageURL); return nil })
	g.Go(func() error { keywords = Keywords(doc); return nil })
	g.Go(func() error { content = Content(doc, opts.Duplicates, opts.Language); return nil })
	g.Go(func() error { mobile = Mobile(doc); return nil })
	g.Go(func() error { social = SocialMedia(doc); return nil })
	_ = g.Wait()

	return models.PageFacts{
		Title:           meta.Title,
		MetaDescription: meta.Description,
		MetaKeywords:    meta.Keywords,
		CanonicalURL:    meta.CanonicalURL,
		Robots:          meta.Robots,
		OpenGraph:       og,
		TwitterCard:     twitter,
		StructuredData:  structured,
		Headings:        Headings(sequence),
		Images:          images,
		Links:           links,
		Keywords:        keywords,
		Content:         content,
		Mobile:          mobile,
		Accessibility:   Accessibility(sequence, images),
		Security:        Security(pageURL),
		SocialMedia:     social,
	}
}
