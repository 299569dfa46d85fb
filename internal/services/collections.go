package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"cashflow/internal/accounts"
	"cashflow/internal/aggregate"
	"cashflow/internal/budget"
	"cashflow/internal/categories"
	"cashflow/internal/core"
	applog "cashflow/internal/log"
	"cashflow/internal/period"
	"cashflow/internal/snapshot"
)

// SetBudget plans a.Amount for a category in the active period, renaming
// the category's period transactions when a.OldCategory differs.
func (s *BudgetService) SetBudget(ctx context.Context, a budget.Assignment) error {
	if err := a.Validate(); err != nil {
		return fmt.Errorf("set budget: %w", err)
	}
	ph := budget.Placeholder{ID: s.newID(core.PrefixBudget)}
	s.mu.RLock()
	r := period.Of(s.settings)
	if acc, ok := accounts.Default(s.accounts); ok {
		ph.AccountID = acc.ID
	}
	err := s.ledger.UpdateUndoable("set budget "+a.NewCategory, func(items []core.Transaction) ([]core.Transaction, error) {
		return budget.Set(items, a, r, ph), nil
	})
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("set budget: %w", err)
	}
	s.logger.InfoContext(ctx, "Budget set",
		applog.FieldCategory, a.NewCategory,
		"amount", a.Amount,
		applog.FieldPeriodStart, r.Start)
	s.persist(ctx, "budget", snapshot.KeyTransactions)
	return nil
}

// RemoveBudget zeroes the plan of a category in the active period.
func (s *BudgetService) RemoveBudget(ctx context.Context, category string) error {
	if strings.TrimSpace(category) == "" {
		return fmt.Errorf("remove budget: %w", core.ErrEmptyCategory)
	}
	s.mu.RLock()
	r := period.Of(s.settings)
	err := s.ledger.UpdateUndoable("remove budget "+category, func(items []core.Transaction) ([]core.Transaction, error) {
		return budget.Remove(items, category, r), nil
	})
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("remove budget: %w", err)
	}
	s.persist(ctx, "budget", snapshot.KeyTransactions)
	return nil
}

// CurrentBudget is the planned amount and type a category has in the active period.
func (s *BudgetService) CurrentBudget(category string) (float64, core.TransactionType) {
	return budget.Current(s.Transactions(), category)
}

func (s *BudgetService) BudgetOverview() aggregate.Overview {
	s.mu.RLock()
	reg := categories.NewRegistry(s.categories)
	s.mu.RUnlock()
	return aggregate.BudgetOverview(s.Transactions(), reg)
}

func (s *BudgetService) Accounts() []core.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Account(nil), s.accounts...)
}

// AccountBalances returns every account's balance over the whole ledger and their sum.
func (s *BudgetService) AccountBalances() ([]accounts.Balance, decimal.Decimal) {
	all := s.ledger.Snapshot()
	accs := s.Accounts()
	return accounts.Balances(accs, all), accounts.NetWorth(accs, all)
}

func (s *BudgetService) SaveAccount(ctx context.Context, acc core.Account) (core.Account, error) {
	if acc.Currency == "" {
		acc.Currency = s.Settings().BaseCurrency
	}
	if err := acc.Validate(); err != nil {
		return core.Account{}, fmt.Errorf("save account: %w", err)
	}
	if acc.ID == "" {
		acc.ID = s.newID(core.PrefixAccount)
	}

	s.mu.Lock()
	s.accounts = accounts.Save(s.accounts, acc)
	for _, a := range s.accounts {
		if a.ID == acc.ID {
			acc = a
		}
	}
	s.bumpState()
	s.mu.Unlock()

	s.persist(ctx, "accounts", snapshot.KeyAccounts)
	return acc, nil
}

// DeleteAccount removes an account. Transactions keep their reference.
func (s *BudgetService) DeleteAccount(ctx context.Context, id string) error {
	s.mu.Lock()
	next, err := accounts.Delete(s.accounts, id)
	if err == nil {
		s.accounts = next
		s.bumpState()
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Account deleted", applog.FieldAccountID, id, applog.FieldOperation, applog.OpDelete)
	s.persist(ctx, "accounts", snapshot.KeyAccounts)
	return nil
}

func (s *BudgetService) SetDefaultAccount(ctx context.Context, id string) error {
	s.mu.Lock()
	next, err := accounts.SetDefault(s.accounts, id)
	if err == nil {
		s.accounts = next
		s.bumpState()
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.persist(ctx, "accounts", snapshot.KeyAccounts)
	return nil
}

func (s *BudgetService) Categories() []core.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Category(nil), s.categories...)
}

// SaveCategory upserts a category. Categories created here are custom and
// can be deleted later; updates never change whether a category is built in.
func (s *BudgetService) SaveCategory(ctx context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, fmt.Errorf("save category: %w", err)
	}
	if c.ID == "" {
		c.ID = s.newID(core.PrefixCategory)
	}
	if c.Icon == "" {
		c.Icon = categories.FallbackIcon
	}

	s.mu.Lock()
	s.categories = categories.Save(s.categories, c)
	for _, saved := range s.categories {
		if saved.ID == c.ID {
			c = saved
		}
	}
	s.bumpState()
	s.mu.Unlock()

	s.persist(ctx, "categories", snapshot.KeyCategories)
	return c, nil
}

func (s *BudgetService) DeleteCategory(ctx context.Context, id string) error {
	s.mu.Lock()
	next, err := categories.Delete(s.categories, id)
	if err == nil {
		s.categories = next
		s.bumpState()
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.persist(ctx, "categories", snapshot.KeyCategories)
	return nil
}

// GoalView pairs a savings goal with its progress over the whole ledger.
type GoalView struct {
	Goal     core.SavingsGoal   `json:"goal"`
	Progress aggregate.Progress `json:"progress"`
}

func (s *BudgetService) Goals() []GoalView {
	all := s.ledger.Snapshot()
	s.mu.RLock()
	goals := append([]core.SavingsGoal(nil), s.goals...)
	s.mu.RUnlock()

	out := make([]GoalView, 0, len(goals))
	for _, g := range goals {
		out = append(out, GoalView{Goal: g, Progress: aggregate.GoalProgress(g, all)})
	}
	return out
}

func (s *BudgetService) SaveGoal(ctx context.Context, g core.SavingsGoal) (core.SavingsGoal, error) {
	if err := g.Validate(); err != nil {
		return core.SavingsGoal{}, fmt.Errorf("save goal: %w", err)
	}
	if g.ID == "" {
		g.ID = s.newID(core.PrefixGoal)
	}

	s.mu.Lock()
	replaced := false
	for i := range s.goals {
		if s.goals[i].ID == g.ID {
			s.goals[i] = g
			replaced = true
		}
	}
	if !replaced {
		s.goals = append(s.goals, g)
	}
	s.bumpState()
	s.mu.Unlock()

	s.persist(ctx, "goals", snapshot.KeyGoals)
	return g, nil
}

func (s *BudgetService) DeleteGoal(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := -1
	for i, g := range s.goals {
		if g.ID == id {
			idx = i
			break
		}
	}
	if idx >= 0 {
		s.goals = append(s.goals[:idx:idx], s.goals[idx+1:]...)
		s.bumpState()
	}
	s.mu.Unlock()
	if idx < 0 {
		return fmt.Errorf("delete goal %q: %w", id, core.ErrNotFound)
	}
	s.persist(ctx, "goals", snapshot.KeyGoals)
	return nil
}
