// Package recurrence steps the advisory next-date of recurring transactions.
//
// Each frequency has its own Stepper. Nothing in this package creates
// transactions; it only answers "when is this due next".
package recurrence

import (
	"fmt"
	"time"

	"cashflow/internal/core"
)

// Stepper advances a due date by one occurrence.
type Stepper interface {
	Next(d core.Day) (core.Day, error)
}

// WeeklyStepper adds seven days.
type WeeklyStepper struct{}

func (WeeklyStepper) Next(d core.Day) (core.Day, error) {
	y, m, day, err := d.Parts()
	if err != nil {
		return "", err
	}
	return core.DayOf(time.Date(y, time.Month(m), day+7, 0, 0, 0, 0, time.UTC)), nil
}

// MonthlyStepper moves to the same day next month, clamped to the month's length.
type MonthlyStepper struct{}

func (MonthlyStepper) Next(d core.Day) (core.Day, error) {
	y, m, day, err := d.Parts()
	if err != nil {
		return "", err
	}
	first := time.Date(y, time.Month(m)+1, 1, 0, 0, 0, 0, time.UTC)
	return core.ClampDay(first.Year(), int(first.Month()), day), nil
}

// YearlyStepper moves to the same date next year; Feb 29 becomes Feb 28.
type YearlyStepper struct{}

func (YearlyStepper) Next(d core.Day) (core.Day, error) {
	y, m, day, err := d.Parts()
	if err != nil {
		return "", err
	}
	return core.ClampDay(y+1, m, day), nil
}

var steppers = map[core.Frequency]Stepper{
	core.Weekly:  WeeklyStepper{},
	core.Monthly: MonthlyStepper{},
	core.Yearly:  YearlyStepper{},
}

// For returns the stepper registered for a frequency.
func For(f core.Frequency) (Stepper, error) {
	s, ok := steppers[f]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrInvalidFrequency, f)
	}
	return s, nil
}

// Next steps d by one occurrence of f.
func Next(f core.Frequency, d core.Day) (core.Day, error) {
	s, err := For(f)
	if err != nil {
		return "", err
	}
	return s.Next(d)
}

// maxSteps bounds Advance for descriptors far in the past.
const maxSteps = 1000

// Advance steps r.NextDate forward until it is on or after notBefore.
// A descriptor already on or after notBefore is returned unchanged.
func Advance(r core.Recurrence, notBefore core.Day) (core.Recurrence, error) {
	s, err := For(r.Frequency)
	if err != nil {
		return r, err
	}
	if err := r.NextDate.Validate(); err != nil {
		return r, err
	}
	next := r.NextDate
	for i := 0; next < notBefore; i++ {
		if i == maxSteps {
			return r, fmt.Errorf("advance %s from %s: too many steps", r.Frequency, r.NextDate)
		}
		if next, err = s.Next(next); err != nil {
			return r, err
		}
	}
	r.NextDate = next
	return r, nil
}
