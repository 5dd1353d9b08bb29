package testutils

import (
	"context"
	"sync"

	"github.com/corpusware/corpusq/pkg/vector"
)

// MockVectorDriver is a test vector driver
type MockVectorDriver struct {
	// SearchResults is returned from every Search call.
	SearchResults []vector.ScoredPoint

	// EnsureErr, UpsertErr and SearchErr inject failures.
	EnsureErr error
	UpsertErr error
	SearchErr error

	mu          sync.Mutex
	ensureCalls int
	points      []vector.Point
	searches    [][]float32
	closed      bool
}

func NewMockVectorDriver() *MockVectorDriver {
	return &MockVectorDriver{}
}

func (m *MockVectorDriver) EnsureCollection(_ context.Context) error {
	m.mu.Lock()
	m.ensureCalls++
	m.mu.Unlock()
	return m.EnsureErr
}

func (m *MockVectorDriver) UpsertPoints(_ context.Context, points []vector.Point) error {
	if m.UpsertErr != nil {
		return m.UpsertErr
	}

	m.mu.Lock()
	m.points = append(m.points, points...)
	m.mu.Unlock()
	return nil
}

func (m *MockVectorDriver) Search(_ context.Context, query []float32) ([]vector.ScoredPoint, error) {
	m.mu.Lock()
	m.searches = append(m.searches, query)
	m.mu.Unlock()

	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	return m.SearchResults, nil
}

func (m *MockVectorDriver) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

// EnsureCalls returns how many times EnsureCollection ran.
func (m *MockVectorDriver) EnsureCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ensureCalls
}

// Points returns every point upserted so far.
func (m *MockVectorDriver) Points() []vector.Point {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]vector.Point(nil), m.points...)
}

// Searches returns every query vector searched so far.
func (m *MockVectorDriver) Searches() [][]float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]float32(nil), m.searches...)
}

// Closed reports whether Close ran.
func (m *MockVectorDriver) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

var _ vector.Driver = (*MockVectorDriver)(nil)
