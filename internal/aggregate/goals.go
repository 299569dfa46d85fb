package aggregate

import (
	"github.com/shopspring/decimal"

	"cashflow/internal/core"
)

// Progress reports how far a savings goal has come.
type Progress struct {
	Saved     decimal.Decimal `json:"saved"`
	Percent   decimal.Decimal `json:"percent"`
	Remaining decimal.Decimal `json:"remaining"`
	HasTarget bool            `json:"hasTarget"`
	Completed bool            `json:"completed"`
}

// GoalProgress adds the actuals of every SAVING transaction in the ledger that
// matches the goal's category (and subcategory, when the goal sets one) to the
// goal's initial amount. A zero target means an open-ended goal: no percentage
// and nothing remaining.
func GoalProgress(goal core.SavingsGoal, ledger []core.Transaction) Progress {
	saved := core.Amount(goal.InitialAmount)
	for _, tx := range ledger {
		if tx.Type != core.Saving || tx.Category != goal.Category {
			continue
		}
		if goal.SubCategory != "" && tx.SubCategory != goal.SubCategory {
			continue
		}
		saved = saved.Add(core.Amount(tx.ActualAmount))
	}

	p := Progress{Saved: saved, Percent: decimal.Zero, Remaining: decimal.Zero}
	target := core.Amount(goal.TargetAmount)
	if !target.IsPositive() {
		return p
	}
	p.HasTarget = true
	p.Percent = decimal.Min(saved.Div(target).Mul(hundred), hundred)
	p.Remaining = decimal.Max(target.Sub(saved), decimal.Zero)
	p.Completed = saved.GreaterThanOrEqual(target)
	return p
}
