// Package accounts computes account balances and enforces the account lifecycle rules.
package accounts

import (
	"fmt"

	"github.com/shopspring/decimal"

	"cashflow/internal/core"
)

// BalanceOf returns the initial balance plus income minus expenses and savings
// of every transaction assigned to acc, regardless of date. Planned amounts
// and transfers do not count.
func BalanceOf(acc core.Account, all []core.Transaction) decimal.Decimal {
	bal := core.Amount(acc.InitialBalance)
	for _, tx := range all {
		if tx.AccountID != acc.ID {
			continue
		}
		amt := core.Amount(tx.ActualAmount)
		switch {
		case tx.Type == core.Income:
			bal = bal.Add(amt)
		case tx.Type.IsExpense(), tx.Type == core.Saving:
			bal = bal.Sub(amt)
		}
	}
	return bal
}

// NetWorth sums the balances of every account.
func NetWorth(accs []core.Account, all []core.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accs {
		total = total.Add(BalanceOf(a, all))
	}
	return total
}

type Balance struct {
	Account core.Account    `json:"account"`
	Current decimal.Decimal `json:"currentBalance"`
}

func Balances(accs []core.Account, all []core.Transaction) []Balance {
	out := make([]Balance, 0, len(accs))
	for _, a := range accs {
		out = append(out, Balance{Account: a, Current: BalanceOf(a, all)})
	}
	return out
}

// Default returns the account flagged as default, or the first account.
func Default(accs []core.Account) (core.Account, bool) {
	for _, a := range accs {
		if a.IsDefault {
			return a, true
		}
	}
	if len(accs) > 0 {
		return accs[0], true
	}
	return core.Account{}, false
}

// Normalize makes sure exactly one account is flagged as default, keeping the
// first flagged one or promoting the first account.
func Normalize(accs []core.Account) []core.Account {
	out := append([]core.Account(nil), accs...)
	found := false
	for i := range out {
		if out[i].IsDefault && !found {
			found = true
			continue
		}
		out[i].IsDefault = false
	}
	if !found && len(out) > 0 {
		out[0].IsDefault = true
	}
	return out
}

// Save inserts acc or replaces the account with the same ID. The first
// account ever saved becomes the default.
func Save(accs []core.Account, acc core.Account) []core.Account {
	out := append([]core.Account(nil), accs...)
	for i := range out {
		if out[i].ID == acc.ID {
			acc.IsDefault = out[i].IsDefault
			out[i] = acc
			return out
		}
	}
	acc.IsDefault = len(out) == 0
	return append(out, acc)
}

// SetDefault flags id as the only default account.
func SetDefault(accs []core.Account, id string) ([]core.Account, error) {
	out := append([]core.Account(nil), accs...)
	found := false
	for i := range out {
		out[i].IsDefault = out[i].ID == id
		found = found || out[i].IsDefault
	}
	if !found {
		return accs, fmt.Errorf("set default account %q: %w", id, core.ErrNotFound)
	}
	return out, nil
}

// Delete removes the account with the given ID. The default account cannot
// be deleted. Transactions are not touched: those pointing at the removed
// account keep the stale reference and count toward no balance.
func Delete(accs []core.Account, id string) ([]core.Account, error) {
	for i, a := range accs {
		if a.ID != id {
			continue
		}
		if a.IsDefault {
			return accs, fmt.Errorf("delete account %q: %w", id, core.ErrDefaultAccount)
		}
		out := make([]core.Account, 0, len(accs)-1)
		out = append(out, accs[:i]...)
		return append(out, accs[i+1:]...), nil
	}
	return accs, fmt.Errorf("delete account %q: %w", id, core.ErrNotFound)
}

// Backfill assigns transactions without an account to the default account.
// It reports how many were changed.
func Backfill(txs []core.Transaction, accs []core.Account) ([]core.Transaction, int) {
	def, ok := Default(accs)
	if !ok {
		return txs, 0
	}
	n := 0
	out := append([]core.Transaction(nil), txs...)
	for i := range out {
		if out[i].AccountID == "" {
			out[i].AccountID = def.ID
			n++
		}
	}
	return out, n
}
