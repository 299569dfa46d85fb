package core

import (
	"fmt"
	"time"
)

// DayLayout is the calendar-date format used everywhere a Day is stored.
const DayLayout = "2006-01-02"

// Day is a calendar date in YYYY-MM-DD form.
//
// Because the format is fixed-width and zero-padded, two valid Days compare
// correctly as plain strings. Range filtering relies on that and never
// converts to time.Time, so no timezone can shift a date across a boundary.
type Day string

// NewDay builds a Day from calendar components without normalization.
func NewDay(year, month, day int) Day {
	return Day(fmt.Sprintf("%04d-%02d-%02d", year, month, day))
}

// DayOf returns the calendar date of t in t's own location.
func DayOf(t time.Time) Day {
	return NewDay(t.Year(), int(t.Month()), t.Day())
}

// Parts splits the day into its calendar components.
func (d Day) Parts() (year, month, day int, err error) {
	t, err := time.Parse(DayLayout, string(d))
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidDate, string(d))
	}
	return t.Year(), int(t.Month()), t.Day(), nil
}

// Validate reports whether the day is a real calendar date.
func (d Day) Validate() error {
	_, _, _, err := d.Parts()
	return err
}

// Month returns the YYYY-MM prefix, or "" when the value is too short to carry one.
func (d Day) Month() string {
	if len(d) < 7 {
		return ""
	}
	return string(d[:7])
}

// Between reports whether start <= d <= end using string ordering.
func (d Day) Between(start, end Day) bool {
	return d >= start && d <= end
}

func (d Day) String() string { return string(d) }

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampDay builds a Day in year/month, pulling day back to the month's last day when it overflows.
func ClampDay(year, month, day int) Day {
	if last := DaysInMonth(year, month); day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return NewDay(year, month, day)
}
