// Package aggregate derives read-only totals from a set of transactions.
//
// Every function here is pure: it never mutates its input and returns the
// same result for the same arguments. Amounts are accumulated as decimals.
package aggregate

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"cashflow/internal/core"
)

// Summary totals the realized (actual) amounts of a period.
type Summary struct {
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	TotalExpenses    decimal.Decimal `json:"totalExpenses"`
	VariableExpenses decimal.Decimal `json:"variableExpenses"`
	TotalSavings     decimal.Decimal `json:"totalSavings"`
	Balance          decimal.Decimal `json:"balance"`
}

// Summarize sums actual amounts by type. Transfers are ignored.
// Balance is always TotalIncome - TotalExpenses - TotalSavings and may be negative.
func Summarize(txs []core.Transaction) Summary {
	var s Summary
	for _, tx := range txs {
		amt := core.Amount(tx.ActualAmount)
		switch tx.Type {
		case core.Income:
			s.TotalIncome = s.TotalIncome.Add(amt)
		case core.Expense:
			s.TotalExpenses = s.TotalExpenses.Add(amt)
			s.VariableExpenses = s.VariableExpenses.Add(amt)
		case core.FixedExpense:
			s.TotalExpenses = s.TotalExpenses.Add(amt)
		case core.Saving:
			s.TotalSavings = s.TotalSavings.Add(amt)
		}
	}
	s.Balance = s.TotalIncome.Sub(s.TotalExpenses).Sub(s.TotalSavings)
	return s
}

// Insights describes how much can still be spent per day until the period ends.
type Insights struct {
	DaysLeft     int             `json:"daysLeft"`
	DailyBudget  decimal.Decimal `json:"dailyBudget"`
	WeeklyBudget decimal.Decimal `json:"weeklyBudget"`
}

const msPerDay = float64(24 * time.Hour / time.Millisecond)

// SpendingInsights spreads a positive balance over the days left in the period.
//
// DaysLeft counts from the start of now's day to the last millisecond of
// periodEnd, both in now's location, rounded up and never below 1. A
// periodEnd that does not parse counts as today. A balance <= 0 yields zero
// budgets.
func SpendingInsights(balance decimal.Decimal, periodEnd core.Day, now time.Time) Insights {
	loc := now.Location()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	end := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, int(999*time.Millisecond), loc)
	if y, m, d, err := periodEnd.Parts(); err == nil {
		end = time.Date(y, time.Month(m), d, 23, 59, 59, int(999*time.Millisecond), loc)
	}

	diffMs := float64(end.Sub(startOfToday) / time.Millisecond)
	days := int(math.Ceil(diffMs / msPerDay))
	if days < 1 {
		days = 1
	}

	in := Insights{DaysLeft: days, DailyBudget: decimal.Zero, WeeklyBudget: decimal.Zero}
	if balance.IsPositive() {
		in.DailyBudget = balance.Div(decimal.NewFromInt(int64(days)))
		in.WeeklyBudget = in.DailyBudget.Mul(decimal.NewFromInt(7))
	}
	return in
}
