package core

import (
	"errors"
	"math"
	"strings"
)

const (
	Income       TransactionType = "INCOME"
	Expense      TransactionType = "EXPENSE"
	FixedExpense TransactionType = "FIXED_EXPENSE"
	Saving       TransactionType = "SAVING"
	Transfer     TransactionType = "TRANSFER"
)

const (
	Weekly  Frequency = "WEEKLY"
	Monthly Frequency = "MONTHLY"
	Yearly  Frequency = "YEARLY"
)

const (
	Checking   AccountType = "CHECKING"
	Savings    AccountType = "SAVINGS"
	CreditCard AccountType = "CREDIT_CARD"
	Cash       AccountType = "CASH"
	Investment AccountType = "INVESTMENT"
	Loan       AccountType = "LOAN"
)

// OtherCategory is the bucket for records whose category is empty or unknown.
const OtherCategory = "Other"

type (
	TransactionType string
	Frequency       string
	AccountType     string

	// Recurrence is advisory: nothing materializes transactions from it.
	Recurrence struct {
		Frequency Frequency `json:"frequency"`
		NextDate  Day       `json:"nextDate"`
	}

	// Transaction is a single budget line. PlannedAmount is the intent for the
	// period, ActualAmount the realized value.
	Transaction struct {
		ID            string          `json:"id"`
		Name          string          `json:"name"`
		PlannedAmount float64         `json:"plannedAmount"`
		ActualAmount  float64         `json:"actualAmount"`
		Type          TransactionType `json:"type"`
		Category      string          `json:"category"`
		SubCategory   string          `json:"subCategory,omitempty"`
		Note          string          `json:"note,omitempty"`
		Date          Day             `json:"date"`
		Recurrence    *Recurrence     `json:"recurrence,omitempty"`
		AccountID     string          `json:"accountId,omitempty"`
	}

	Account struct {
		ID             string      `json:"id"`
		Name           string      `json:"name"`
		Type           AccountType `json:"type"`
		InitialBalance float64     `json:"initialBalance"`
		Currency       string      `json:"currency"`
		Color          string      `json:"color"`
		IsDefault      bool        `json:"isDefault,omitempty"`
	}

	Category struct {
		ID            string            `json:"id"`
		Name          string            `json:"name"`
		Icon          string            `json:"icon"`
		Types         []TransactionType `json:"types"`
		SubCategories []string          `json:"subCategories,omitempty"`
		IsCustom      bool              `json:"isCustom,omitempty"`
	}

	SavingsGoal struct {
		ID            string  `json:"id"`
		Name          string  `json:"name"`
		TargetAmount  float64 `json:"targetAmount"`
		InitialAmount float64 `json:"initialAmount"`
		Deadline      Day     `json:"deadline,omitempty"`
		Category      string  `json:"category"`
		SubCategory   string  `json:"subCategory,omitempty"`
		Color         string  `json:"color"`
	}

	// PeriodSettings is the active reporting window. Both bounds are inclusive.
	PeriodSettings struct {
		StartDate    Day    `json:"startDate"`
		EndDate      Day    `json:"endDate"`
		BaseCurrency string `json:"baseCurrency"`
	}
)

var (
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidRange       = errors.New("invalid date range")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidType        = errors.New("invalid transaction type")
	ErrInvalidFrequency   = errors.New("invalid recurrence frequency")
	ErrEmptyName          = errors.New("empty name")
	ErrEmptyCategory      = errors.New("empty category")
	ErrNotFound           = errors.New("not found")
	ErrDefaultAccount     = errors.New("default account cannot be deleted")
	ErrBuiltinCategory    = errors.New("built-in category cannot be deleted")
	ErrNothingToUndo      = errors.New("nothing to undo")
	ErrInvalidMode        = errors.New("invalid new period mode")
	ErrInvalidCurrency    = errors.New("unsupported currency")
	ErrInvalidAccountType = errors.New("invalid account type")
)

// IsValid reports whether t is one of the known transaction types.
func (t TransactionType) IsValid() bool {
	switch t {
	case Income, Expense, FixedExpense, Saving, Transfer:
		return true
	}
	return false
}

// IsExpense reports whether t counts toward expenses.
func (t TransactionType) IsExpense() bool {
	return t == Expense || t == FixedExpense
}

func (f Frequency) IsValid() bool {
	switch f {
	case Weekly, Monthly, Yearly:
		return true
	}
	return false
}

func (a AccountType) IsValid() bool {
	switch a {
	case Checking, Savings, CreditCard, Cash, Investment, Loan:
		return true
	}
	return false
}

// IsTemplate reports whether the transaction is carried into a new period.
func (t Transaction) IsTemplate() bool {
	return t.PlannedAmount > 0 || t.Recurrence != nil
}

// CategoryOrOther returns the category, or OtherCategory when it is blank.
func (t Transaction) CategoryOrOther() string {
	if strings.TrimSpace(t.Category) == "" {
		return OtherCategory
	}
	return t.Category
}

func validAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return ErrEmptyName
	}
	if len(t.Name) > 200 {
		return errors.New("name too long (max 200 characters)")
	}
	if !validAmount(t.PlannedAmount) || !validAmount(t.ActualAmount) {
		return ErrInvalidAmount
	}
	if !t.Type.IsValid() {
		return ErrInvalidType
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if t.Recurrence != nil {
		if !t.Recurrence.Frequency.IsValid() {
			return ErrInvalidFrequency
		}
		if err := t.Recurrence.NextDate.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if !a.Type.IsValid() {
		return ErrInvalidAccountType
	}
	if math.IsNaN(a.InitialBalance) || math.IsInf(a.InitialBalance, 0) {
		return ErrInvalidAmount
	}
	if !IsSupportedCurrency(a.Currency) {
		return ErrInvalidCurrency
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	for _, t := range c.Types {
		if !t.IsValid() {
			return ErrInvalidType
		}
	}
	return nil
}

func (g SavingsGoal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if !validAmount(g.TargetAmount) || !validAmount(g.InitialAmount) {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(g.Category) == "" {
		return ErrEmptyCategory
	}
	if g.Deadline != "" {
		return g.Deadline.Validate()
	}
	return nil
}

// Validate checks that both bounds parse and start does not come after end.
func (s PeriodSettings) Validate() error {
	if err := s.StartDate.Validate(); err != nil {
		return err
	}
	if err := s.EndDate.Validate(); err != nil {
		return err
	}
	if s.StartDate > s.EndDate {
		return ErrInvalidRange
	}
	if s.BaseCurrency != "" && !IsSupportedCurrency(s.BaseCurrency) {
		return ErrInvalidCurrency
	}
	return nil
}
