package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AnalyzeRequest represents the request to analyze a URL
type AnalyzeRequest struct {
	URL string `json:"url" binding:"required"`
}

// AnalyzeHTMLRequest represents the request to analyze caller-supplied HTML
type AnalyzeHTMLRequest struct {
	URL  string `json:"url" binding:"required"`
	HTML string `json:"html"`
}

// BatchRequest represents the request to analyze several URLs
type BatchRequest struct {
	URLs []string `json:"urls" binding:"required,min=1,max=50,dive,required"`
}

// TechnicalIssues is the flat result of the rule evaluation
type TechnicalIssues struct {
	MissingTitle           bool `json:"missingTitle" bson:"missing_title"`
	MissingMetaDescription bool `json:"missingMetaDescription" bson:"missing_meta_description"`
	DuplicateH1            bool `json:"duplicateH1" bson:"duplicate_h1"`
	ImagesMissingAlt       bool `json:"imagesMissingAlt" bson:"images_missing_alt"`
	TitleTooLong           bool `json:"titleTooLong" bson:"title_too_long"`
	DescriptionTooLong     bool `json:"descriptionTooLong" bson:"description_too_long"`
	MissingCanonical       bool `json:"missingCanonical" bson:"missing_canonical"`
	NoIndex                bool `json:"noIndex" bson:"no_index"`
	NoFollow               bool `json:"noFollow" bson:"no_follow"`
}

// DetailedScores holds the five 0-100 sub-scores
type DetailedScores struct {
	Technical     int `json:"technical" bson:"technical"`
	Content       int `json:"content" bson:"content"`
	Performance   int `json:"performance" bson:"performance"`
	Accessibility int `json:"accessibility" bson:"accessibility"`
	Social        int `json:"social" bson:"social"`
}

// PerformanceMetrics holds externally measured page-weight figures.
// Measured is false when no probe supplied anything.
type PerformanceMetrics struct {
	Measured      bool   `json:"measured" bson:"measured"`
	LoadTimeMs    *int64 `json:"loadTimeMs" bson:"load_time_ms"`
	PageSizeBytes *int64 `json:"pageSizeBytes" bson:"page_size_bytes"`
	Requests      *int   `json:"requests" bson:"requests"`
}

// SEOAnalysis is the final report for one page. URL is the requested URL;
// FinalURL is set only when redirects served the page from elsewhere.
type SEOAnalysis struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	URL       string             `json:"url" bson:"url"`
	FinalURL  string             `json:"finalUrl,omitempty" bson:"final_url,omitempty"`
	PageFacts `bson:",inline"`

	TechnicalIssues TechnicalIssues    `json:"technicalIssues" bson:"technical_issues"`
	Scores          DetailedScores     `json:"scores" bson:"scores"`
	Performance     PerformanceMetrics `json:"performance" bson:"performance"`
	Score           int                `json:"score" bson:"score"`
	Recommendations []string           `json:"recommendations" bson:"recommendations"`

	// Degraded marks a placeholder report built after the page could not be retrieved
	Degraded  bool      `json:"degraded,omitempty" bson:"degraded,omitempty"`
	Error     string    `json:"error,omitempty" bson:"error,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// BatchResult is the response for a batch analysis
type BatchResult struct {
	Reports []*SEOAnalysis `json:"reports"`
	Errors  []string       `json:"errors,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Error      string `json:"error,omitempty"`
}

// Stats represents report history statistics
type Stats struct {
	TotalReports    int       `json:"total_reports" bson:"total_reports"`
	UniqueURLs      int       `json:"unique_urls" bson:"unique_urls"`
	AverageScore    float64   `json:"average_score" bson:"average_score"`
	ReportsLast24h  int       `json:"reports_last_24h" bson:"reports_last_24h"`
	ReportsLast7d   int       `json:"reports_last_7d" bson:"reports_last_7d"`
	MostAnalyzedURL string    `json:"most_analyzed_url" bson:"most_analyzed_url"`
	LastUpdated     time.Time `json:"last_updated" bson:"last_updated"`
}
