package extractor

import (
	"seoAnalyzerGO/internal/document"
	"seoAnalyzerGO/internal/models"
)

const headingSelector = "h1, h2, h3, h4, h5, h6"

// HeadingSequence returns every heading in document order with its level
func HeadingSequence(doc *document.Document) []models.Heading {
	elements := doc.All(headingSelector)
	sequence := make([]models.Heading, 0, len(elements))

	for _, el := range elements {
		tag := el.Tag()
		if len(tag) != 2 || tag[1] < '1' || tag[1] > '6' {
			continue
		}
		sequence = append(sequence, models.Heading{
			Level: int(tag[1] - '0'),
			Text:  el.Text(),
		})
	}

	return sequence
}

// Headings groups a heading sequence by level, keeping document order within each level
func Headings(sequence []models.Heading) models.HeadingsStructure {
	headings := models.HeadingsStructure{
		H1: []string{},
		H2: []string{},
		H3: []string{},
		H4: []string{},
		H5: []string{},
		H6: []string{},
	}

	for _, h := range sequence {
		switch h.Level {
		case 1:
			headings.H1 = append(headings.H1, h.Text)
		case 2:
			headings.H2 = append(headings.H2, h.Text)
		case 3:
			headings.H3 = append(headings.H3, h.Text)
		case 4:
			headings.H4 = append(headings.H4, h.Text)
		case 5:
			headings.H5 = append(headings.H5, h.Text)
		case 6:
			headings.H6 = append(headings.H6, h.Text)
		}
	}

	return headings
}

// ValidHeadingHierarchy reports whether no heading goes more than one
// level deeper than the heading right before it
func ValidHeadingHierarchy(sequence []models.Heading) bool {
	for i := 1; i < len(sequence); i++ {
		if sequence[i].Level > sequence[i-1].Level+1 {
			return false
		}
	}
	return true
}
