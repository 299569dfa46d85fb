package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"

	"cashflow/internal/categories"
	"cashflow/internal/core"
)

type GroupKind string

const (
	GroupFixed    GroupKind = "fixed"
	GroupVariable GroupKind = "variable"
	GroupSavings  GroupKind = "savings"
)

// CategoryLine is one category row of the budget overview.
type CategoryLine struct {
	Category string               `json:"category"`
	Name     string               `json:"name"`
	Icon     string               `json:"icon"`
	Type     core.TransactionType `json:"type"`
	Planned  decimal.Decimal      `json:"planned"`
	Actual   decimal.Decimal      `json:"actual"`
}

type Group struct {
	Kind    GroupKind       `json:"kind"`
	Lines   []CategoryLine  `json:"lines"`
	Planned decimal.Decimal `json:"planned"`
	Actual  decimal.Decimal `json:"actual"`
}

type Overview struct {
	Groups  []Group         `json:"groups"`
	Planned decimal.Decimal `json:"planned"`
	Actual  decimal.Decimal `json:"actual"`
}

// BudgetOverview arranges the non-income categories of a period into fixed,
// variable and savings groups.
//
// Every category referenced by a non-income transaction appears, plus every
// known category that is not income-only, so unbudgeted categories still show
// up with zero totals. A line's type is the last non-EXPENSE type seen on its
// transactions; a plain EXPENSE line is upgraded from the category definition
// (FIXED_EXPENSE first, then SAVING). References that no longer resolve keep
// their key as name and get the fallback icon.
func BudgetOverview(txs []core.Transaction, reg *categories.Registry) Overview {
	var order groupOrder
	var lines []CategoryLine
	add := func(ref string) int {
		i, fresh := order.slot(ref)
		if fresh {
			lines = append(lines, CategoryLine{Category: ref, Type: core.Expense})
		}
		return i
	}

	for _, tx := range txs {
		if tx.Type == core.Income || tx.Type == core.Transfer {
			continue
		}
		add(tx.CategoryOrOther())
	}
	for _, c := range reg.All() {
		if len(c.Types) == 1 && c.Types[0] == core.Income {
			continue
		}
		add(c.ID)
	}

	for _, tx := range txs {
		if tx.Type == core.Income || tx.Type == core.Transfer {
			continue
		}
		i, _ := order.slot(tx.CategoryOrOther())
		lines[i].Planned = lines[i].Planned.Add(core.Amount(tx.PlannedAmount))
		lines[i].Actual = lines[i].Actual.Add(core.Amount(tx.ActualAmount))
		if tx.Type != core.Expense {
			lines[i].Type = tx.Type
		}
	}

	groups := map[GroupKind]*Group{
		GroupFixed:    {Kind: GroupFixed},
		GroupVariable: {Kind: GroupVariable},
		GroupSavings:  {Kind: GroupSavings},
	}
	for _, line := range lines {
		def, known := reg.Lookup(line.Category)
		if known && line.Type == core.Expense {
			switch {
			case categories.Supports(def, core.FixedExpense):
				line.Type = core.FixedExpense
			case categories.Supports(def, core.Saving):
				line.Type = core.Saving
			}
		}
		line.Name = reg.Name(line.Category)
		line.Icon = reg.Icon(line.Category)

		kind := GroupVariable
		switch line.Type {
		case core.Saving:
			kind = GroupSavings
		case core.FixedExpense:
			kind = GroupFixed
		}
		g := groups[kind]
		g.Lines = append(g.Lines, line)
		g.Planned = g.Planned.Add(line.Planned)
		g.Actual = g.Actual.Add(line.Actual)
	}

	var ov Overview
	for _, kind := range []GroupKind{GroupFixed, GroupVariable, GroupSavings} {
		g := groups[kind]
		sortLines(g.Lines)
		ov.Groups = append(ov.Groups, *g)
		ov.Planned = ov.Planned.Add(g.Planned)
		ov.Actual = ov.Actual.Add(g.Actual)
	}
	return ov
}

// sortLines puts budgeted lines first, then lines with spend, then by actual descending.
func sortLines(lines []CategoryLine) {
	rank := func(l CategoryLine) int {
		switch {
		case l.Planned.IsPositive():
			return 0
		case l.Actual.IsPositive():
			return 1
		}
		return 2
	}
	sort.SliceStable(lines, func(i, j int) bool {
		ri, rj := rank(lines[i]), rank(lines[j])
		if ri != rj {
			return ri < rj
		}
		return lines[i].Actual.GreaterThan(lines[j].Actual)
	})
}
