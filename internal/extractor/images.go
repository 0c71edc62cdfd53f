package extractor

import (
	"seoAnalyzerGO/internal/document"
	"seoAnalyzerGO/internal/models"
)

// MissingSrc stands in for an image without a src attribute
const MissingSrc = "(no src)"

// Images audits alt attributes. An empty alt counts as present.
// Oversized images and total size stay unknown here; only a page-weight
// probe can fill them in.
func Images(doc *document.Document) models.ImagesAnalysis {
	images := models.ImagesAnalysis{
		MissingAlt: []string{},
	}

	for _, img := range doc.All("img") {
		images.Total++

		if _, ok := img.Attr("alt"); ok {
			images.WithAlt++
			continue
		}

		images.WithoutAlt++
		src, ok := img.Attr("src")
		if !ok {
			src = MissingSrc
		}
		images.MissingAlt = append(images.MissingAlt, src)
	}

	return images
}
