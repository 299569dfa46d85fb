// Package budget sets and clears the planned amount of a category within a period.
package budget

import (
	"fmt"
	"math"
	"strings"

	"cashflow/internal/core"
	"cashflow/internal/period"
)

// Assignment is a request to plan Amount for NewCategory. When OldCategory is
// set and differs from NewCategory, the category is being renamed.
type Assignment struct {
	OldCategory string               `json:"oldCategory,omitempty"`
	NewCategory string               `json:"category"`
	Amount      float64              `json:"amount"`
	Type        core.TransactionType `json:"type"`
}

// Validate is the input-boundary check; Set assumes it passed.
func (a Assignment) Validate() error {
	if strings.TrimSpace(a.NewCategory) == "" {
		return core.ErrEmptyCategory
	}
	if math.IsNaN(a.Amount) || math.IsInf(a.Amount, 0) || a.Amount < 0 {
		return fmt.Errorf("%w: %v", core.ErrInvalidAmount, a.Amount)
	}
	if !a.Type.IsValid() || a.Type == core.Transfer {
		return fmt.Errorf("%w: %q", core.ErrInvalidType, a.Type)
	}
	return nil
}

func (a Assignment) renaming() bool {
	return a.OldCategory != "" && a.OldCategory != a.NewCategory
}

// Placeholder supplies what Set needs when it has to create a holder.
type Placeholder struct {
	ID        string
	AccountID string
}

// PlaceholderName is the name given to a created budget holder.
func PlaceholderName(category string) string {
	return category + " Budget"
}

// Set applies a to the in-period transactions of the ledger and returns the new ledger.
//
// On rename, every in-period transaction of OldCategory moves to NewCategory.
// The holder is the first in-period transaction of the category, in ledger
// order, that has planned > 0 or actual == 0. It receives the full amount and
// every other in-period transaction of the category gets planned 0, so the
// category's planned total equals the amount exactly once. Every in-period
// transaction of the category takes the assignment's type. Without a holder
// a placeholder dated at r.Start is appended. Out-of-period transactions are
// never touched.
func Set(ledger []core.Transaction, a Assignment, r period.Range, ph Placeholder) []core.Transaction {
	out := append(make([]core.Transaction, 0, len(ledger)+1), ledger...)

	if a.renaming() {
		for i := range out {
			if r.Contains(out[i].Date) && out[i].Category == a.OldCategory {
				out[i].Category = a.NewCategory
			}
		}
	}

	holder := -1
	for i, tx := range out {
		if !r.Contains(tx.Date) || tx.Category != a.NewCategory {
			continue
		}
		if tx.PlannedAmount > 0 || tx.ActualAmount == 0 {
			holder = i
			break
		}
	}

	if holder == -1 {
		for i := range out {
			if r.Contains(out[i].Date) && out[i].Category == a.NewCategory {
				out[i].PlannedAmount = 0
				out[i].Type = a.Type
			}
		}
		return append(out, core.Transaction{
			ID:            ph.ID,
			Name:          PlaceholderName(a.NewCategory),
			PlannedAmount: a.Amount,
			Type:          a.Type,
			Category:      a.NewCategory,
			Date:          r.Start,
			AccountID:     ph.AccountID,
		})
	}

	for i := range out {
		if !r.Contains(out[i].Date) || out[i].Category != a.NewCategory {
			continue
		}
		out[i].Type = a.Type
		if i == holder {
			out[i].PlannedAmount = a.Amount
		} else {
			out[i].PlannedAmount = 0
		}
	}
	return out
}

// Remove clears the plan for category in r. In-period transactions of the
// category with zero actual are deleted; the rest keep their actual and get
// planned 0. Out-of-period transactions are never touched.
func Remove(ledger []core.Transaction, category string, r period.Range) []core.Transaction {
	out := make([]core.Transaction, 0, len(ledger))
	for _, tx := range ledger {
		if !r.Contains(tx.Date) || tx.Category != category {
			out = append(out, tx)
			continue
		}
		if tx.ActualAmount == 0 {
			continue
		}
		tx.PlannedAmount = 0
		out = append(out, tx)
	}
	return out
}

// Current reports the planned total of category among periodTxs and the type
// an edit form should default to: the first budgeted item's type, else the
// first item's, else EXPENSE.
func Current(periodTxs []core.Transaction, category string) (float64, core.TransactionType) {
	total := core.Amount(0)
	typ := core.TransactionType("")
	fallback := core.Expense
	seen := false
	for _, tx := range periodTxs {
		if tx.Category != category {
			continue
		}
		if !seen {
			fallback = tx.Type
			seen = true
		}
		if typ == "" && tx.PlannedAmount > 0 {
			typ = tx.Type
		}
		total = total.Add(core.Amount(tx.PlannedAmount))
	}
	if typ == "" {
		typ = fallback
	}
	return core.Float(total), typ
}
