// Package memory keeps written reports in process, for tests and local runs.
package memory

import (
	"context"
	"fmt"
	"sync"

	"cashflow/internal/aggregate"
	"cashflow/internal/sheets"
)

type Store struct {
	mu      sync.Mutex
	reports [][][]string
}

var _ sheets.ReportWriter = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// WriteMonthlyReport stores the rendered rows and returns a synthetic reference.
func (s *Store) WriteMonthlyReport(_ context.Context, buckets []aggregate.MonthBucket) (string, error) {
	rows := sheets.Rows(buckets)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, rows)
	return fmt.Sprintf("mem:%d", len(s.reports)), nil
}

// Last returns the most recent report, or nil.
func (s *Store) Last() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.reports) == 0 {
		return nil
	}
	return s.reports[len(s.reports)-1]
}
