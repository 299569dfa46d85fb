package aggregate

import (
	"testing"

	"github.com/shopspring/decimal"

	"cashflow/internal/core"
)

func TestCategoryBreakdown(t *testing.T) {
	txs := []core.Transaction{
		{Type: core.Expense, Category: "Groceries", ActualAmount: 200},
		{Type: core.FixedExpense, Category: "Housing", ActualAmount: 600},
		{Type: core.Expense, Category: "", ActualAmount: 200},
		{Type: core.Expense, Category: "Dining", ActualAmount: 0},
		{Type: core.Income, Category: "Salary", ActualAmount: 5000},
		{Type: core.Saving, Category: "Savings", ActualAmount: 300},
	}

	got := CategoryBreakdown(txs)
	want := []struct {
		name    string
		amount  string
		percent string
	}{
		{"Housing", "600", "60"},
		{"Groceries", "200", "20"},
		{core.OtherCategory, "200", "20"},
	}
	if len(got) != len(want) {
		t.Fatalf("CategoryBreakdown() = %+v", got)
	}
	sum := decimal.Zero
	for i, w := range want {
		if got[i].Name != w.name || !got[i].Amount.Equal(dec(w.amount)) || !got[i].Percent.Equal(dec(w.percent)) {
			t.Errorf("share[%d] = %s %s %s%%, want %s %s %s%%",
				i, got[i].Name, got[i].Amount, got[i].Percent, w.name, w.amount, w.percent)
		}
		sum = sum.Add(got[i].Percent)
	}
	if !sum.Equal(dec("100")) {
		t.Errorf("percentages sum to %s, want 100", sum)
	}
}

func TestCategoryBreakdown_NoSpend(t *testing.T) {
	txs := []core.Transaction{
		{Type: core.Expense, Category: "Groceries", PlannedAmount: 300},
	}
	if got := CategoryBreakdown(txs); len(got) != 0 {
		t.Fatalf("CategoryBreakdown() = %+v, want empty", got)
	}
}

func TestBudgetVsActual(t *testing.T) {
	txs := []core.Transaction{
		{Type: core.Expense, Category: "Groceries", PlannedAmount: 300, ActualAmount: 120},
		{Type: core.Expense, Category: "Groceries", ActualAmount: 80},
		{Type: core.FixedExpense, Category: "Housing", PlannedAmount: 1000, ActualAmount: 1000},
		{Type: core.Expense, Category: "Travel", PlannedAmount: 500},
		{Type: core.Saving, Category: "Savings", PlannedAmount: 100, ActualAmount: 100},
	}

	got := BudgetVsActual(txs)
	if len(got) != 3 {
		t.Fatalf("BudgetVsActual() returned %d rows: %+v", len(got), got)
	}
	if got[0].Name != "Housing" || got[1].Name != "Groceries" || got[2].Name != "Travel" {
		t.Fatalf("unexpected order: %+v", got)
	}
	if !got[1].Planned.Equal(dec("300")) || !got[1].Actual.Equal(dec("200")) {
		t.Errorf("Groceries = %s/%s, want 300/200", got[1].Planned, got[1].Actual)
	}
	if !got[2].Actual.IsZero() {
		t.Errorf("Travel actual = %s, want 0", got[2].Actual)
	}
}
