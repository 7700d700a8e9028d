package storage

import (
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/nemanja-m/gosum/internal/bench"
)

// InMemoryReportStore keeps copies of reports; callers never share a
// pointer with the store.
type InMemoryReportStore struct {
	mu      sync.RWMutex
	reports map[uuid.UUID]*bench.Report
}

func NewInMemoryReportStore() *InMemoryReportStore {
	return &InMemoryReportStore{
		reports: make(map[uuid.UUID]*bench.Report),
	}
}

func (s *InMemoryReportStore) SaveReport(report *bench.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.reports[report.ID]; exists {
		return fmt.Errorf("report already exists: %s", report.ID)
	}
	s.reports[report.ID] = report.Clone()
	return nil
}

func (s *InMemoryReportStore) UpdateReport(report *bench.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.reports[report.ID]; !exists {
		return fmt.Errorf("report not found: %s", report.ID)
	}
	s.reports[report.ID] = report.Clone()
	return nil
}

// GetReportByID returns nil, nil when no report has the given ID.
func (s *InMemoryReportStore) GetReportByID(id uuid.UUID) (*bench.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	report, exists := s.reports[id]
	if !exists {
		return nil, nil
	}
	return report.Clone(), nil
}

// GetReports returns one page of reports matching filter, newest first, and
// the total number of matches.
func (s *InMemoryReportStore) GetReports(filter bench.ReportFilter) ([]*bench.Report, int, error) {
	s.mu.RLock()
	matched := make([]*bench.Report, 0, len(s.reports))
	for _, report := range s.reports {
		if filter.Status != nil && report.Status != *filter.Status {
			continue
		}
		matched = append(matched, report.Clone())
	}
	s.mu.RUnlock()

	slices.SortFunc(matched, func(a, b *bench.Report) int {
		if c := b.SubmittedAt.Compare(a.SubmittedAt); c != 0 {
			return c
		}
		return slices.Compare(a.ID[:], b.ID[:])
	})

	total := len(matched)
	start := min(max(filter.Offset, 0), total)
	end := total
	if filter.Limit > 0 {
		end = min(start+filter.Limit, total)
	}

	return matched[start:end], total, nil
}
