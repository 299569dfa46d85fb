// Package rollover opens a new budgeting period, either empty or seeded from
// the plan of the current one.
package rollover

import (
	"fmt"
	"math"

	"cashflow/internal/core"
	"cashflow/internal/period"
	"cashflow/internal/recurrence"
)

type Mode string

const (
	// ModeBlank clears the target window.
	ModeBlank Mode = "blank"
	// ModeRollover copies the current plan into the target window.
	ModeRollover Mode = "rollover"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeBlank, ModeRollover:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", core.ErrInvalidMode, s)
}

// duplicateEpsilon is the planned-amount tolerance when matching an existing target item.
const duplicateEpsilon = 0.01

type Request struct {
	Current period.Range
	Target  period.Range
	Mode    Mode
}

func (r Request) Validate() error {
	if _, err := ParseMode(string(r.Mode)); err != nil {
		return err
	}
	if err := r.Target.Validate(); err != nil {
		return fmt.Errorf("target period: %w", err)
	}
	if r.Mode == ModeRollover {
		if err := r.Current.Validate(); err != nil {
			return fmt.Errorf("current period: %w", err)
		}
	}
	return nil
}

// Result is the new ledger plus what happened to it.
type Result struct {
	Transactions []core.Transaction
	Target       period.Range
	Added        []core.Transaction
	Removed      int
	Skipped      int
	// Fallbacks counts copies whose date could not be shifted and were placed on Target.Start.
	Fallbacks int
}

type Engine struct {
	newID core.IDFunc
}

func NewEngine(newID core.IDFunc) *Engine {
	if newID == nil {
		newID = core.NewID
	}
	return &Engine{newID: newID}
}

// Apply computes the ledger for req without touching the input slice.
//
// Blank mode drops every transaction dated inside the target range. Rollover
// mode copies each template of the current range (planned > 0 or recurring)
// into the target month, keeping its day-of-month where the month allows,
// with a fresh ID and zero actual. Copies that match an item already in the
// target range by name, category and planned amount are skipped, which makes
// repeated rollovers into the same range idempotent. Transactions outside
// the target range are never modified.
func (e *Engine) Apply(ledger []core.Transaction, req Request) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}
	res := Result{Target: req.Target}

	if req.Mode == ModeBlank {
		kept := make([]core.Transaction, 0, len(ledger))
		for _, tx := range ledger {
			if req.Target.Contains(tx.Date) {
				res.Removed++
				continue
			}
			kept = append(kept, tx)
		}
		res.Transactions = kept
		return res, nil
	}

	existing := period.Filter(ledger, req.Target)
	out := append(make([]core.Transaction, 0, len(ledger)), ledger...)
	for _, tpl := range period.Filter(ledger, req.Current) {
		if !tpl.IsTemplate() {
			continue
		}
		if isDuplicate(existing, tpl) {
			res.Skipped++
			continue
		}

		date, err := ShiftDate(tpl.Date, req.Target.Start)
		if err != nil {
			date = req.Target.Start
			res.Fallbacks++
		}

		cp := tpl
		cp.ID = e.newID(core.PrefixRollover)
		cp.Date = date
		cp.ActualAmount = 0
		if tpl.Recurrence != nil {
			r := *tpl.Recurrence
			if adv, err := recurrence.Advance(r, req.Target.Start); err == nil {
				r = adv
			}
			cp.Recurrence = &r
		}

		out = append(out, cp)
		res.Added = append(res.Added, cp)
	}
	res.Transactions = out
	return res, nil
}

// ShiftDate keeps the day-of-month of d and moves it into the year and month
// of targetStart, clamping to the last day of that month.
func ShiftDate(d, targetStart core.Day) (core.Day, error) {
	_, _, day, err := d.Parts()
	if err != nil {
		return "", err
	}
	y, m, _, err := targetStart.Parts()
	if err != nil {
		return "", err
	}
	return core.ClampDay(y, m, day), nil
}

func isDuplicate(existing []core.Transaction, tpl core.Transaction) bool {
	for _, ex := range existing {
		if ex.Name == tpl.Name && ex.Category == tpl.Category &&
			math.Abs(ex.PlannedAmount-tpl.PlannedAmount) < duplicateEpsilon {
			return true
		}
	}
	return false
}
