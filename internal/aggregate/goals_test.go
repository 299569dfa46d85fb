package aggregate

import (
	"testing"

	"cashflow/internal/core"
)

func TestGoalProgress(t *testing.T) {
	ledger := []core.Transaction{
		{Type: core.Saving, Category: "GoalSavings", SubCategory: "Car Fund", ActualAmount: 300},
		{Type: core.Saving, Category: "GoalSavings", SubCategory: "Vacation Fund", ActualAmount: 200},
		{Type: core.Expense, Category: "GoalSavings", ActualAmount: 1000},
		{Type: core.Saving, Category: "Savings", ActualAmount: 50},
	}

	tests := []struct {
		name      string
		goal      core.SavingsGoal
		saved     string
		percent   string
		remaining string
		hasTarget bool
		completed bool
	}{
		{
			name:  "whole category",
			goal:  core.SavingsGoal{Category: "GoalSavings", TargetAmount: 1000, InitialAmount: 100},
			saved: "600", percent: "60", remaining: "400", hasTarget: true,
		},
		{
			name:  "subcategory only",
			goal:  core.SavingsGoal{Category: "GoalSavings", SubCategory: "Car Fund", TargetAmount: 200},
			saved: "300", percent: "100", remaining: "0", hasTarget: true, completed: true,
		},
		{
			name:  "open ended",
			goal:  core.SavingsGoal{Category: "Savings", InitialAmount: 10},
			saved: "60", percent: "0", remaining: "0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := GoalProgress(tt.goal, ledger)
			if !p.Saved.Equal(dec(tt.saved)) || !p.Percent.Equal(dec(tt.percent)) || !p.Remaining.Equal(dec(tt.remaining)) {
				t.Fatalf("GoalProgress() = saved %s, percent %s, remaining %s", p.Saved, p.Percent, p.Remaining)
			}
			if p.HasTarget != tt.hasTarget || p.Completed != tt.completed {
				t.Fatalf("flags = %v/%v", p.HasTarget, p.Completed)
			}
		})
	}
}
