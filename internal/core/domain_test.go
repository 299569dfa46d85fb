package core

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestDay_Parts(t *testing.T) {
	tests := []struct {
		in      Day
		y, m, d int
		wantErr bool
	}{
		{"2024-01-31", 2024, 1, 31, false},
		{"2024-02-29", 2024, 2, 29, false},
		{"2023-02-29", 0, 0, 0, true},
		{"2024-1-5", 0, 0, 0, true},
		{"", 0, 0, 0, true},
		{"garbage", 0, 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			y, m, d, err := tt.in.Parts()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDate) {
					t.Fatalf("Parts() error = %v, want ErrInvalidDate", err)
				}
				return
			}
			if err != nil || y != tt.y || m != tt.m || d != tt.d {
				t.Fatalf("Parts() = %d-%d-%d, %v", y, m, d, err)
			}
		})
	}
}

func TestDay_Between(t *testing.T) {
	start, end := Day("2024-03-01"), Day("2024-03-31")
	cases := map[Day]bool{
		"2024-03-01": true,
		"2024-03-31": true,
		"2024-03-15": true,
		"2024-02-29": false,
		"2024-04-01": false,
	}
	for d, want := range cases {
		if got := d.Between(start, end); got != want {
			t.Errorf("%s.Between() = %v, want %v", d, got, want)
		}
	}
}

func TestDay_Month(t *testing.T) {
	if got := Day("2024-07-09").Month(); got != "2024-07" {
		t.Errorf("Month() = %q", got)
	}
	if got := Day("2024").Month(); got != "" {
		t.Errorf("Month() of short value = %q, want empty", got)
	}
}

func TestClampDay(t *testing.T) {
	tests := []struct {
		y, m, d int
		want    Day
	}{
		{2024, 2, 31, "2024-02-29"},
		{2023, 2, 31, "2023-02-28"},
		{2024, 4, 31, "2024-04-30"},
		{2024, 5, 15, "2024-05-15"},
	}
	for _, tt := range tests {
		if got := ClampDay(tt.y, tt.m, tt.d); got != tt.want {
			t.Errorf("ClampDay(%d, %d, %d) = %s, want %s", tt.y, tt.m, tt.d, got, tt.want)
		}
	}
}

func TestDayOf(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	now := time.Date(2024, 6, 30, 23, 30, 0, 0, loc)
	if got := DayOf(now); got != "2024-06-30" {
		t.Errorf("DayOf() = %s, want 2024-06-30", got)
	}
}

func TestTransaction_Validate(t *testing.T) {
	valid := Transaction{
		ID: "t1", Name: "Rent", PlannedAmount: 1000, Type: FixedExpense,
		Category: "Housing", Date: "2024-01-01",
	}

	tests := []struct {
		name   string
		mutate func(*Transaction)
		want   error
	}{
		{"valid", func(*Transaction) {}, nil},
		{"empty name", func(tx *Transaction) { tx.Name = "  " }, ErrEmptyName},
		{"negative planned", func(tx *Transaction) { tx.PlannedAmount = -1 }, ErrInvalidAmount},
		{"NaN actual", func(tx *Transaction) { tx.ActualAmount = math.NaN() }, ErrInvalidAmount},
		{"unknown type", func(tx *Transaction) { tx.Type = "BOGUS" }, ErrInvalidType},
		{"empty category", func(tx *Transaction) { tx.Category = "" }, ErrEmptyCategory},
		{"bad date", func(tx *Transaction) { tx.Date = "2024-13-01" }, ErrInvalidDate},
		{"bad frequency", func(tx *Transaction) {
			tx.Recurrence = &Recurrence{Frequency: "DAILY", NextDate: "2024-02-01"}
		}, ErrInvalidFrequency},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid
			tt.mutate(&tx)
			err := tx.Validate()
			if tt.want == nil {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestTransaction_IsTemplate(t *testing.T) {
	if (Transaction{}).IsTemplate() {
		t.Error("zero transaction should not be a template")
	}
	if !(Transaction{PlannedAmount: 1}).IsTemplate() {
		t.Error("planned > 0 should be a template")
	}
	if !(Transaction{Recurrence: &Recurrence{Frequency: Monthly}}).IsTemplate() {
		t.Error("recurring item should be a template")
	}
}

func TestPeriodSettings_Validate(t *testing.T) {
	if err := (PeriodSettings{StartDate: "2024-01-01", EndDate: "2024-01-31", BaseCurrency: "EUR"}).Validate(); err != nil {
		t.Fatalf("valid settings: %v", err)
	}
	if err := (PeriodSettings{StartDate: "2024-02-01", EndDate: "2024-01-31"}).Validate(); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("inverted range error = %v", err)
	}
	if err := (PeriodSettings{StartDate: "2024-01-01", EndDate: "2024-01-31", BaseCurrency: "XYZ"}).Validate(); !errors.Is(err, ErrInvalidCurrency) {
		t.Fatalf("bad currency error = %v", err)
	}
}

func TestDefaults(t *testing.T) {
	accs := DefaultAccounts()
	defaults := 0
	for _, a := range accs {
		if err := a.Validate(); err != nil {
			t.Errorf("default account %s invalid: %v", a.ID, err)
		}
		if a.IsDefault {
			defaults++
		}
	}
	if defaults != 1 {
		t.Errorf("default accounts flagged as default = %d, want 1", defaults)
	}

	seen := map[string]bool{}
	for _, c := range DefaultCategories() {
		if seen[c.ID] {
			t.Errorf("duplicate category id %s", c.ID)
		}
		seen[c.ID] = true
		if c.IsCustom {
			t.Errorf("built-in category %s marked custom", c.ID)
		}
	}
	if !seen[OtherCategory] {
		t.Error("built-in categories must include Other")
	}
}
