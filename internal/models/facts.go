package models

// PageFacts holds every raw signal extracted from one HTML document
type PageFacts struct {
	Title           string `json:"title" bson:"title"`
	MetaDescription string `json:"metaDescription" bson:"meta_description"`
	MetaKeywords    string `json:"metaKeywords" bson:"meta_keywords"`
	CanonicalURL    string `json:"canonicalUrl" bson:"canonical_url"`
	Robots          string `json:"robots" bson:"robots"`

	OpenGraph      OpenGraph         `json:"openGraph" bson:"open_graph"`
	TwitterCard    TwitterCard       `json:"twitterCard" bson:"twitter_card"`
	StructuredData StructuredData    `json:"structuredData" bson:"structured_data"`
	Headings       HeadingsStructure `json:"headings" bson:"headings"`
	Images         ImagesAnalysis    `json:"images" bson:"images"`
	Links          LinksAnalysis     `json:"links" bson:"links"`
	Keywords       KeywordsAnalysis  `json:"keywords" bson:"keywords"`
	Content        ContentAnalysis   `json:"content" bson:"content"`

	Mobile        MobileAnalysis        `json:"mobile" bson:"mobile"`
	Accessibility AccessibilityAnalysis `json:"accessibility" bson:"accessibility"`
	Security      SecurityAnalysis      `json:"security" bson:"security"`
	SocialMedia   SocialMediaAnalysis   `json:"socialMedia" bson:"social_media"`
}

// OpenGraph mirrors the og:* meta tags
type OpenGraph struct {
	Title       string `json:"title" bson:"title"`
	Description string `json:"description" bson:"description"`
	Image       string `json:"image" bson:"image"`
	URL         string `json:"url" bson:"url"`
	Type        string `json:"type" bson:"type"`
	SiteName    string `json:"siteName" bson:"site_name"`
}

// TwitterCard mirrors the twitter:* meta tags
type TwitterCard struct {
	Card        string `json:"card" bson:"card"`
	Title       string `json:"title" bson:"title"`
	Description string `json:"description" bson:"description"`
	Image       string `json:"image" bson:"image"`
	Site        string `json:"site" bson:"site"`
	Creator     string `json:"creator" bson:"creator"`
}

// StructuredData represents the JSON-LD blocks found on the page
type StructuredData struct {
	HasSchema bool     `json:"hasSchema" bson:"has_schema"`
	Types     []string `json:"types" bson:"types"`
	Errors    []string `json:"errors" bson:"errors"`
}

// Heading is a single heading element in document order
type Heading struct {
	Level int    `json:"level" bson:"level"`
	Text  string `json:"text" bson:"text"`
}

// HeadingsStructure groups heading text by level, each list in document order
type HeadingsStructure struct {
	H1 []string `json:"h1" bson:"h1"`
	H2 []string `json:"h2" bson:"h2"`
	H3 []string `json:"h3" bson:"h3"`
	H4 []string `json:"h4" bson:"h4"`
	H5 []string `json:"h5" bson:"h5"`
	H6 []string `json:"h6" bson:"h6"`
}

// ImagesAnalysis represents the image audit.
// Oversized and TotalSize are nil unless a page-weight probe measured them.
type ImagesAnalysis struct {
	Total      int      `json:"total" bson:"total"`
	WithAlt    int      `json:"withAlt" bson:"with_alt"`
	WithoutAlt int      `json:"withoutAlt" bson:"without_alt"`
	MissingAlt []string `json:"missingAlt" bson:"missing_alt"`
	Oversized  []string `json:"oversized" bson:"oversized"`
	TotalSize  *int64   `json:"totalSize" bson:"total_size"`
}

// LinksAnalysis represents the link audit. Other counts hrefs that are
// neither internal nor external (fragments, mailto:, tel:, ...).
type LinksAnalysis struct {
	Total    int  `json:"total" bson:"total"`
	Internal int  `json:"internal" bson:"internal"`
	External int  `json:"external" bson:"external"`
	Other    int  `json:"other" bson:"other"`
	Nofollow int  `json:"nofollow" bson:"nofollow"`
	Dofollow int  `json:"dofollow" bson:"dofollow"`
	Broken   *int `json:"broken" bson:"broken"`
}

// KeywordsAnalysis represents keyword density ranking
type KeywordsAnalysis struct {
	TotalWords  int                `json:"totalWords" bson:"total_words"`
	Density     map[string]float64 `json:"density" bson:"density"`
	Suggestions []string           `json:"suggestions" bson:"suggestions"`
	Primary     []string           `json:"primary" bson:"primary"`
	Secondary   []string           `json:"secondary" bson:"secondary"`
}

// ContentAnalysis represents length and readability signals
type ContentAnalysis struct {
	WordCount           int     `json:"wordCount" bson:"word_count"`
	SentenceCount       int     `json:"sentenceCount" bson:"sentence_count"`
	AvgWordsPerSentence float64 `json:"avgWordsPerSentence" bson:"avg_words_per_sentence"`
	ReadabilityScore    int     `json:"readabilityScore" bson:"readability_score"`
	DuplicateContent    *bool   `json:"duplicateContent" bson:"duplicate_content"`
	LanguageDetected    string  `json:"languageDetected" bson:"language_detected"`
}

// MobileAnalysis represents mobile-friendliness signals
type MobileAnalysis struct {
	ViewportMeta  bool  `json:"viewportMeta" bson:"viewport_meta"`
	Responsive    bool  `json:"responsive" bson:"responsive"`
	TouchFriendly *bool `json:"touchFriendly" bson:"touch_friendly"`
}

// AccessibilityAnalysis represents accessibility signals
type AccessibilityAnalysis struct {
	AltImages        int   `json:"altImages" bson:"alt_images"`
	HeadingStructure bool  `json:"headingStructure" bson:"heading_structure"`
	ColorContrast    *bool `json:"colorContrast" bson:"color_contrast"`
}

// SecurityAnalysis represents security signals
type SecurityAnalysis struct {
	HTTPS        bool  `json:"https" bson:"https"`
	MixedContent *bool `json:"mixedContent" bson:"mixed_content"`
}

// SocialMediaAnalysis represents social media integration signals
type SocialMediaAnalysis struct {
	OpenGraph   bool `json:"openGraph" bson:"open_graph"`
	TwitterCard bool `json:"twitterCard" bson:"twitter_card"`
	Pixel       bool `json:"pixel" bson:"pixel"`
	Analytics   bool `json:"analytics" bson:"analytics"`
}
