package mocks

import (
	"context"
	"net/http"

	"github.com/content-modeling-api/internal/service"
)

// MockExportService is a mock implementation of ExportService
type MockExportService struct {
	StreamEntriesFunc func(ctx context.Context, w http.ResponseWriter, typeID, format string) error
	Counts            map[string]int
	CountError        error
}

// Verify interface compliance
var _ service.ExportService = (*MockExportService)(nil)

func NewMockExportService() *MockExportService {
	return &MockExportService{
		Counts: map[string]int{
			"content_types": 0,
			"entries":       0,
			"media":         0,
			"tags":          0,
		},
	}
}

func (m *MockExportService) StreamEntries(ctx context.Context, w http.ResponseWriter, typeID, format string) error {
	if m.StreamEntriesFunc != nil {
		return m.StreamEntriesFunc(ctx, w, typeID, format)
	}
	return nil
}

func (m *MockExportService) GetCount(ctx context.Context, resource string) (int, error) {
	if m.CountError != nil {
		return 0, m.CountError
	}
	return m.Counts[resource], nil
}

// MockSchedulerService is a mock implementation of SchedulerService
type MockSchedulerService struct {
	Published  int
	PublishErr error
	Runs       int
}

// Verify interface compliance
var _ service.SchedulerService = (*MockSchedulerService)(nil)

func (m *MockSchedulerService) StartProcessor(ctx context.Context) {}

func (m *MockSchedulerService) StopProcessor() {}

func (m *MockSchedulerService) PublishDue(ctx context.Context) (int, error) {
	m.Runs++
	return m.Published, m.PublishErr
}
