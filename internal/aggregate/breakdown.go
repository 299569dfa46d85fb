package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"

	"cashflow/internal/core"
)

// CategoryShare is one slice of the expense breakdown.
type CategoryShare struct {
	Name    string          `json:"name"`
	Amount  decimal.Decimal `json:"amount"`
	Percent decimal.Decimal `json:"percent"`
}

// CategoryBudget compares planned and actual spend for one category.
type CategoryBudget struct {
	Name    string          `json:"name"`
	Planned decimal.Decimal `json:"planned"`
	Actual  decimal.Decimal `json:"actual"`
}

var hundred = decimal.NewFromInt(100)

// groupOrder accumulates values per key while remembering first-seen order,
// so ties sort deterministically.
type groupOrder struct {
	keys  []string
	index map[string]int
}

func (g *groupOrder) slot(key string) (int, bool) {
	if g.index == nil {
		g.index = make(map[string]int)
	}
	if i, ok := g.index[key]; ok {
		return i, false
	}
	g.index[key] = len(g.keys)
	g.keys = append(g.keys, key)
	return len(g.keys) - 1, true
}

// CategoryBreakdown groups actual expense amounts (EXPENSE and FIXED_EXPENSE)
// by category. Blank categories fall into core.OtherCategory. Groups whose
// total is not positive are dropped. The result is sorted by amount,
// descending, and each share carries its percentage of the grand total.
func CategoryBreakdown(txs []core.Transaction) []CategoryShare {
	var order groupOrder
	var shares []CategoryShare
	for _, tx := range txs {
		if !tx.Type.IsExpense() {
			continue
		}
		i, fresh := order.slot(tx.CategoryOrOther())
		if fresh {
			shares = append(shares, CategoryShare{Name: order.keys[i]})
		}
		shares[i].Amount = shares[i].Amount.Add(core.Amount(tx.ActualAmount))
	}

	out := shares[:0:0]
	total := decimal.Zero
	for _, s := range shares {
		if s.Amount.IsPositive() {
			out = append(out, s)
			total = total.Add(s.Amount)
		}
	}
	for i := range out {
		if total.IsPositive() {
			out[i].Percent = out[i].Amount.Div(total).Mul(hundred)
		} else {
			out[i].Percent = decimal.Zero
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Amount.GreaterThan(out[b].Amount)
	})
	return out
}

// BudgetVsActual lists planned against actual per expense category, sorted by
// actual spend descending. The full list is returned; callers trim for display.
func BudgetVsActual(txs []core.Transaction) []CategoryBudget {
	var order groupOrder
	var rows []CategoryBudget
	for _, tx := range txs {
		if !tx.Type.IsExpense() {
			continue
		}
		i, fresh := order.slot(tx.CategoryOrOther())
		if fresh {
			rows = append(rows, CategoryBudget{Name: order.keys[i]})
		}
		rows[i].Planned = rows[i].Planned.Add(core.Amount(tx.PlannedAmount))
		rows[i].Actual = rows[i].Actual.Add(core.Amount(tx.ActualAmount))
	}
	sort.SliceStable(rows, func(a, b int) bool {
		return rows[a].Actual.GreaterThan(rows[b].Actual)
	})
	return rows
}
