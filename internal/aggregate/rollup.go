package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"

	"cashflow/internal/core"
)

// MonthBucket holds the totals of one calendar month across the whole ledger.
type MonthBucket struct {
	Month      string                     `json:"month"`
	Income     decimal.Decimal            `json:"income"`
	Expenses   decimal.Decimal            `json:"expenses"`
	Savings    decimal.Decimal            `json:"savings"`
	Net        decimal.Decimal            `json:"net"`
	ByCategory map[string]decimal.Decimal `json:"byCategory"`
}

// MonthlyRollup buckets transactions by the YYYY-MM prefix of their date.
//
// Transfers and records whose date is too short to carry a month are skipped.
// Totals follow Summarize; expense actuals are additionally split by category.
// Buckets are returned newest month first.
func MonthlyRollup(txs []core.Transaction) []MonthBucket {
	buckets := make(map[string]*MonthBucket)
	for _, tx := range txs {
		if tx.Type == core.Transfer {
			continue
		}
		key := tx.Date.Month()
		if key == "" {
			continue
		}
		b, ok := buckets[key]
		if !ok {
			b = &MonthBucket{Month: key, ByCategory: make(map[string]decimal.Decimal)}
			buckets[key] = b
		}
		amt := core.Amount(tx.ActualAmount)
		switch {
		case tx.Type == core.Income:
			b.Income = b.Income.Add(amt)
		case tx.Type.IsExpense():
			b.Expenses = b.Expenses.Add(amt)
			cat := tx.CategoryOrOther()
			b.ByCategory[cat] = b.ByCategory[cat].Add(amt)
		case tx.Type == core.Saving:
			b.Savings = b.Savings.Add(amt)
		}
	}

	out := make([]MonthBucket, 0, len(buckets))
	for _, b := range buckets {
		b.Net = b.Income.Sub(b.Expenses).Sub(b.Savings)
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month > out[j].Month })
	return out
}

// TopCategories returns the expense categories of a bucket, largest first.
func (b MonthBucket) TopCategories() []CategoryShare {
	out := make([]CategoryShare, 0, len(b.ByCategory))
	for name, amt := range b.ByCategory {
		s := CategoryShare{Name: name, Amount: amt, Percent: decimal.Zero}
		if b.Expenses.IsPositive() {
			s.Percent = amt.Div(b.Expenses).Mul(hundred)
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Amount.Equal(out[j].Amount) {
			return out[i].Amount.GreaterThan(out[j].Amount)
		}
		return out[i].Name < out[j].Name
	})
	return out
}
