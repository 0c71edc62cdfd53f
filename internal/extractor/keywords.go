package extractor

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"seoAnalyzerGO/internal/document"
	"seoAnalyzerGO/internal/models"
)

const (
	keywordTextLimit  = 5000
	keywordMinLength  = 4
	maxSuggestions    = 15
	primaryKeywords   = 3
	secondaryKeywords = 10
)

type keywordCount struct {
	word  string
	count int
	first int
}

// Keywords ranks the words of the page body by density.
// Only the first 5000 characters of body text are considered.
func Keywords(doc *document.Document) models.KeywordsAnalysis {
	return KeywordsFromText(doc.Text("body"))
}

// KeywordsFromText ranks the words of text by density
func KeywordsFromText(text string) models.KeywordsAnalysis {
	analysis := models.KeywordsAnalysis{
		Density:     map[string]float64{},
		Suggestions: []string{},
		Primary:     []string{},
		Secondary:   []string{},
	}

	counts := map[string]*keywordCount{}
	var ordered []*keywordCount
	for _, word := range strings.Fields(stripPunctuation(strings.ToLower(truncate(text, keywordTextLimit)))) {
		if utf8.RuneCountInString(word) < keywordMinLength {
			continue
		}
		analysis.TotalWords++

		kc, ok := counts[word]
		if !ok {
			kc = &keywordCount{word: word, first: len(ordered)}
			counts[word] = kc
			ordered = append(ordered, kc)
		}
		kc.count++
	}

	if analysis.TotalWords == 0 {
		return analysis
	}

	for _, kc := range ordered {
		analysis.Density[kc.word] = float64(kc.count) / float64(analysis.TotalWords) * 100
	}

	// density is proportional to count, so ranking by count avoids float ties
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].count > ordered[j].count
	})

	for i := 0; i < len(ordered) && i < maxSuggestions; i++ {
		analysis.Suggestions = append(analysis.Suggestions, ordered[i].word)
	}
	analysis.Primary = append(analysis.Primary, analysis.Suggestions[:min(primaryKeywords, len(analysis.Suggestions))]...)
	if len(analysis.Suggestions) > primaryKeywords {
		analysis.Secondary = append(analysis.Secondary, analysis.Suggestions[primaryKeywords:min(secondaryKeywords, len(analysis.Suggestions))]...)
	}

	return analysis
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}

// stripPunctuation drops every rune that is not a letter, digit or whitespace
func stripPunctuation(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, s)
}
