package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"cashflow/internal/accounts"
	"cashflow/internal/advisor"
	"cashflow/internal/aggregate"
	applog "cashflow/internal/log"
	"cashflow/internal/sheets"
	"cashflow/internal/snapshot"
)

// MonthlyReport rolls the whole ledger up by calendar month, newest first.
func (s *BudgetService) MonthlyReport() []aggregate.MonthBucket {
	return aggregate.MonthlyRollup(s.ledger.Snapshot())
}

// ExportMonthlyReport sends the monthly report to the configured destination.
func (s *BudgetService) ExportMonthlyReport(ctx context.Context) (string, error) {
	if s.reports == nil {
		return "", ErrNoReportWriter
	}
	buckets := s.MonthlyReport()
	ref, err := s.reports.WriteMonthlyReport(ctx, buckets)
	if err != nil {
		return "", fmt.Errorf("export monthly report: %w", err)
	}
	s.logger.InfoContext(ctx, "Monthly report exported", "months", len(buckets), applog.FieldTarget, ref)
	return ref, nil
}

// WriteMonthlyCSV renders buckets with the same columns as the spreadsheet report.
func WriteMonthlyCSV(w io.Writer, buckets []aggregate.MonthBucket) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(sheets.Rows(buckets)); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// Export encodes the full state as a backup document.
func (s *BudgetService) Export() ([]byte, error) {
	return snapshot.Encode(s.Snapshot())
}

// Import replaces the full state with a backup document. Collections with
// the wrong shape are reset to their defaults and reported as warnings; a
// document without a transactions array is rejected.
func (s *BudgetService) Import(ctx context.Context, data []byte) ([]snapshot.Warning, error) {
	snap, warns, err := snapshot.Restore(data, s.now())
	if err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}
	snap.Transactions, _ = accounts.Backfill(snap.Transactions, snap.Accounts)
	s.apply(snap)

	s.logger.InfoContext(ctx, "Backup imported",
		applog.FieldTxCount, len(snap.Transactions),
		"warnings", len(warns))
	s.persist(ctx, "import", snapshot.Keys...)
	return warns, nil
}

// Advise asks the advisor about the active period.
func (s *BudgetService) Advise(ctx context.Context, question string) (string, error) {
	if s.advisor == nil {
		return "", ErrAdvisorUnavailable
	}
	if strings.TrimSpace(question) == "" {
		return "", advisor.ErrEmptyQuestion
	}
	txs := s.Transactions()
	return s.advisor.Advise(ctx, question, aggregate.Summarize(txs), txs)
}
