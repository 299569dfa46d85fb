// Package period selects and moves the active reporting window.
package period

import (
	"fmt"
	"time"

	"cashflow/internal/core"
)

// Direction moves a period backwards or forwards by one month.
type Direction int

const (
	Prev Direction = -1
	Next Direction = 1
)

// ParseDirection accepts "prev"/"next" (and their long forms).
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "prev", "previous", "-1":
		return Prev, nil
	case "next", "1", "+1":
		return Next, nil
	}
	return 0, fmt.Errorf("invalid direction %q", s)
}

// Range is an inclusive [Start, End] window of calendar days.
type Range struct {
	Start core.Day `json:"startDate"`
	End   core.Day `json:"endDate"`
}

// Validate checks that both bounds parse and Start <= End.
func (r Range) Validate() error {
	if err := r.Start.Validate(); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	if err := r.End.Validate(); err != nil {
		return fmt.Errorf("end: %w", err)
	}
	if r.Start > r.End {
		return fmt.Errorf("%w: %s after %s", core.ErrInvalidRange, r.Start, r.End)
	}
	return nil
}

// Contains reports whether d falls inside the range, bounds included.
func (r Range) Contains(d core.Day) bool {
	return d.Between(r.Start, r.End)
}

// Of extracts the range from period settings.
func Of(s core.PeriodSettings) Range {
	return Range{Start: s.StartDate, End: s.EndDate}
}

// Filter returns the transactions whose date lies in r, in their original order.
// Records with malformed dates are compared as strings like any other and
// simply fall outside most ranges.
func Filter(txs []core.Transaction, r Range) []core.Transaction {
	out := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		if r.Contains(tx.Date) {
			out = append(out, tx)
		}
	}
	return out
}

// MonthOf returns the full calendar month year/month.
func MonthOf(year, month int) Range {
	return Range{
		Start: core.NewDay(year, month, 1),
		End:   core.NewDay(year, month, core.DaysInMonth(year, month)),
	}
}

// CurrentMonth is the month containing now, in now's location.
func CurrentMonth(now time.Time) Range {
	return MonthOf(now.Year(), int(now.Month()))
}

// ShiftMonth returns the full calendar month one step away from the month of start.
//
// Only the month component moves; the day of start is ignored, so a period
// beginning on the 31st never overflows into the following month.
func ShiftMonth(start core.Day, dir Direction) (Range, error) {
	y, m, _, err := start.Parts()
	if err != nil {
		return Range{}, fmt.Errorf("shift month: %w", err)
	}
	t := time.Date(y, time.Month(m)+time.Month(dir), 1, 0, 0, 0, 0, time.UTC)
	return MonthOf(t.Year(), int(t.Month())), nil
}
