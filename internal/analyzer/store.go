package analyzer

import (
	"context"
	"sync"

	"seoAnalyzerGO/internal/models"
)

// Store keeps the most recent report per URL
type Store interface {
	Get(ctx context.Context, pageURL string) (*models.SEOAnalysis, bool, error)
	Set(ctx context.Context, pageURL string, report *models.SEOAnalysis) error
	Delete(ctx context.Context, pageURL string) error
	Clear(ctx context.Context) error
}

// Recorder persists finished reports to long-term history
type Recorder interface {
	SaveReport(ctx context.Context, report *models.SEOAnalysis) error
}

// MemoryStore is a process-local Store without expiry
type MemoryStore struct {
	mu      sync.RWMutex
	reports map[string]*models.SEOAnalysis
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{reports: make(map[string]*models.SEOAnalysis)}
}

func (s *MemoryStore) Get(_ context.Context, pageURL string) (*models.SEOAnalysis, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	report, ok := s.reports[pageURL]
	return report, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, pageURL string, report *models.SEOAnalysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[pageURL] = report
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, pageURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.reports, pageURL)
	return nil
}

func (s *MemoryStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = make(map[string]*models.SEOAnalysis)
	return nil
}

// Len returns the number of cached reports
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reports)
}
