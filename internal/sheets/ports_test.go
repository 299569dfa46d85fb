package sheets

import (
	"testing"

	"cashflow/internal/aggregate"
	"cashflow/internal/core"
)

func TestRows(t *testing.T) {
	buckets := aggregate.MonthlyRollup([]core.Transaction{
		{ID: "1", Name: "Salary", Type: core.Income, ActualAmount: 3000, Date: "2024-03-01"},
		{ID: "2", Name: "Rent", Type: core.FixedExpense, ActualAmount: 1000, Date: "2024-03-02", Category: "Housing"},
		{ID: "3", Name: "Food", Type: core.Expense, ActualAmount: 250.5, Date: "2024-03-10", Category: "Groceries"},
		{ID: "4", Name: "Salary", Type: core.Income, ActualAmount: 3000, Date: "2024-02-01"},
	})

	rows := Rows(buckets)
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}
	if rows[0][0] != "Month" {
		t.Errorf("header = %v", rows[0])
	}

	want := []string{"2024-03", "3000.00", "1250.50", "0.00", "1749.50", "Housing", "1000.00"}
	for i, cell := range want {
		if rows[1][i] != cell {
			t.Errorf("rows[1][%d] = %q, want %q", i, rows[1][i], cell)
		}
	}
	if rows[2][0] != "2024-02" || rows[2][5] != "" {
		t.Errorf("month without expenses = %v", rows[2])
	}
}

func TestRows_Empty(t *testing.T) {
	rows := Rows(nil)
	if len(rows) != 1 {
		t.Errorf("Rows(nil) = %v, want header only", rows)
	}
}
