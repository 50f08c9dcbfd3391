package api

import (
	"context"
	"sync"

	"github.com/OrlandoBitencourt/banderole/internal/domain"
)

// MockFetcher is an in-memory fetcher for testing
type MockFetcher struct {
	mu sync.Mutex

	// Mock behavior
	Set       *domain.FeatureSet
	Err       error
	FetchFunc func(ctx context.Context) (*domain.FeatureSet, error)

	// Call tracking
	FetchCalls int
}

// NewMockFetcher creates a mock fetcher serving the given set
func NewMockFetcher(set *domain.FeatureSet) *MockFetcher {
	return &MockFetcher{Set: set}
}

// Fetch returns the configured set or error
func (m *MockFetcher) Fetch(ctx context.Context) (*domain.FeatureSet, error) {
	m.mu.Lock()
	m.FetchCalls++
	m.mu.Unlock()

	if m.FetchFunc != nil {
		return m.FetchFunc(ctx)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Set, nil
}

// Calls returns how many times Fetch was invoked
func (m *MockFetcher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.FetchCalls
}
