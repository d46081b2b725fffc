package mqtt

import (
	"context"
	"fmt"
	"sync"

	"github.com/kilianp07/parkalloc/pkg/export"
)

// Publisher delivers allocation reports to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, r export.Report) error
	Close() error
}

// NopPublisher drops every report.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, export.Report) error { return nil }
func (NopPublisher) Close() error                                 { return nil }

// MockPublisher is a simple publisher used in tests.
type MockPublisher struct {
	Reports []export.Report
	Fail    bool
	mu      sync.Mutex
}

// NewMockPublisher creates a new MockPublisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

// Publish records the report or returns an error if configured to fail.
func (m *MockPublisher) Publish(_ context.Context, r export.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return fmt.Errorf("publish failed")
	}
	m.Reports = append(m.Reports, r)
	return nil
}

func (m *MockPublisher) Close() error { return nil }
