// Package sheets renders monthly rollups as rows and ships them to report sinks.
package sheets

import (
	"context"

	"cashflow/internal/aggregate"
)

// ReportWriter publishes a monthly report and returns a reference to where it landed.
type ReportWriter interface {
	WriteMonthlyReport(ctx context.Context, buckets []aggregate.MonthBucket) (ref string, err error)
}

// Header is the first row of every monthly report.
var Header = []string{"Month", "Income", "Expenses", "Savings", "Net", "Top category", "Top category amount"}

// Rows renders buckets in the given order, header first. Amounts use two decimals.
func Rows(buckets []aggregate.MonthBucket) [][]string {
	rows := make([][]string, 0, len(buckets)+1)
	rows = append(rows, append([]string(nil), Header...))
	for _, b := range buckets {
		topName, topAmount := "", ""
		if top := b.TopCategories(); len(top) > 0 {
			topName, topAmount = top[0].Name, top[0].Amount.StringFixed(2)
		}
		rows = append(rows, []string{
			b.Month,
			b.Income.StringFixed(2),
			b.Expenses.StringFixed(2),
			b.Savings.StringFixed(2),
			b.Net.StringFixed(2),
			topName,
			topAmount,
		})
	}
	return rows
}
