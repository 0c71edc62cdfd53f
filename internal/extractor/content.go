package extractor

import (
	"math"
	"regexp"
	"strings"

	"seoAnalyzerGO/internal/document"
	"seoAnalyzerGO/internal/models"
)

var sentenceBoundary = regexp.MustCompile(`[.!?]+`)

// DuplicateDetector decides whether body text duplicates content elsewhere.
// A nil result means the detector could not tell.
type DuplicateDetector interface {
	Duplicate(text string) *bool
}

// LanguageDetector names the language of body text
type LanguageDetector interface {
	Language(text string) string
}

// StaticLanguage reports the same language for every page
type StaticLanguage string

// Language implements LanguageDetector
func (l StaticLanguage) Language(string) string {
	return string(l)
}

// DefaultLanguage is used when no LanguageDetector is configured
const DefaultLanguage StaticLanguage = "en"

// Content measures length and readability of the page body
func Content(doc *document.Document, duplicates DuplicateDetector, language LanguageDetector) models.ContentAnalysis {
	return ContentFromText(doc.Text("body"), duplicates, language)
}

// ContentFromText measures length and readability of text.
// Readability is 100 minus twice the average sentence length, clamped to 0-100.
func ContentFromText(text string, duplicates DuplicateDetector, language LanguageDetector) models.ContentAnalysis {
	if language == nil {
		language = DefaultLanguage
	}

	content := models.ContentAnalysis{
		WordCount:        len(strings.Fields(text)),
		SentenceCount:    countSentences(text),
		LanguageDetected: language.Language(text),
	}

	if content.SentenceCount > 0 {
		content.AvgWordsPerSentence = float64(content.WordCount) / float64(content.SentenceCount)
	}

	readability := 100 - content.AvgWordsPerSentence*2
	content.ReadabilityScore = int(math.Round(math.Max(0, math.Min(100, readability))))

	if duplicates != nil {
		content.DuplicateContent = duplicates.Duplicate(text)
	}

	return content
}

func countSentences(text string) int {
	count := 0
	for _, segment := range sentenceBoundary.Split(text, -1) {
		if strings.TrimSpace(segment) != "" {
			count++
		}
	}
	return count
}
