package analyzer

import (
	"context"

	"seoAnalyzerGO/internal/models"
)

// ProbeResult carries measurements that need more than the HTML itself.
// A nil field means the probe did not measure it.
type ProbeResult struct {
	LoadTimeMs       *int64
	PageSizeBytes    *int64
	Requests         *int
	PerformanceScore *int

	Oversized       []string
	TotalImageBytes *int64
	BrokenLinks     *int
	MixedContent    *bool
	TouchFriendly   *bool
	ColorContrast   *bool
}

// Probe measures rendering and page-weight facets of a page
type Probe interface {
	Probe(ctx context.Context, pageURL string) (ProbeResult, error)
}

// StaticProbe returns the same result for every page
type StaticProbe ProbeResult

// Probe implements Probe
func (p StaticProbe) Probe(context.Context, string) (ProbeResult, error) {
	return ProbeResult(p), nil
}

// performance converts the probe's timing figures into report metrics
func (r ProbeResult) performance() models.PerformanceMetrics {
	return models.PerformanceMetrics{
		Measured:      r.LoadTimeMs != nil || r.PageSizeBytes != nil || r.Requests != nil || r.PerformanceScore != nil,
		LoadTimeMs:    r.LoadTimeMs,
		PageSizeBytes: r.PageSizeBytes,
		Requests:      r.Requests,
	}
}

// apply fills the facets of facts the probe measured, leaving the rest unknown
func (r ProbeResult) apply(facts *models.PageFacts) {
	if r.Oversized != nil {
		facts.Images.Oversized = r.Oversized
	}
	if r.TotalImageBytes != nil {
		facts.Images.TotalSize = r.TotalImageBytes
	}
	if r.BrokenLinks != nil {
		facts.Links.Broken = r.BrokenLinks
	}
	if r.MixedContent != nil {
		facts.Security.MixedContent = r.MixedContent
	}
	if r.TouchFriendly != nil {
		facts.Mobile.TouchFriendly = r.TouchFriendly
	}
	if r.ColorContrast != nil {
		facts.Accessibility.ColorContrast = r.ColorContrast
	}
}
