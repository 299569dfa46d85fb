package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"cashflow/internal/accounts"
	"cashflow/internal/budget"
	"cashflow/internal/core"
	applog "cashflow/internal/log"
)

func (s *Server) handleBudgetOverview(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(s.svc.BudgetOverview()).Write(w)
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	var a budget.Assignment
	if err := decodeJSON(w, r, &a); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	a.NewCategory = sanitizeInput(a.NewCategory)
	a.OldCategory = sanitizeInput(a.OldCategory)
	if err := s.svc.SetBudget(r.Context(), a); err != nil {
		writeError(w, r, applog.OpUpdate, err)
		return
	}
	s.writeBudget(w, a.NewCategory)
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	s.writeBudget(w, pathValue(r, "category"))
}

type budgetView struct {
	Category string               `json:"category"`
	Amount   float64              `json:"amount"`
	Type     core.TransactionType `json:"type,omitempty"`
}

func (s *Server) writeBudget(w http.ResponseWriter, category string) {
	amount, typ := s.svc.CurrentBudget(category)
	NewJSONResponse().Body(budgetView{Category: category, Amount: amount, Type: typ}).Write(w)
}

func (s *Server) handleRemoveBudget(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.RemoveBudget(r.Context(), pathValue(r, "category")); err != nil {
		writeError(w, r, applog.OpDelete, err)
		return
	}
	NoContent().Write(w)
}

type accountsView struct {
	Accounts []accounts.Balance `json:"accounts"`
	NetWorth decimal.Decimal    `json:"netWorth"`
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	balances, netWorth := s.svc.AccountBalances()
	NewJSONResponse().Body(accountsView{Accounts: balances, NetWorth: netWorth}).Write(w)
}

// handleSaveAccount serves both create (POST) and update (PUT with {id}).
func (s *Server) handleSaveAccount(w http.ResponseWriter, r *http.Request) {
	var acc core.Account
	if err := decodeJSON(w, r, &acc); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	acc.ID = pathValue(r, "id")
	saved, err := s.svc.SaveAccount(r.Context(), acc)
	if err != nil {
		writeError(w, r, opFor(r), err)
		return
	}
	NewJSONResponse().Status(statusForSave(r)).Body(saved).Write(w)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteAccount(r.Context(), pathValue(r, "id")); err != nil {
		writeError(w, r, applog.OpDelete, err)
		return
	}
	NoContent().Write(w)
}

func (s *Server) handleSetDefaultAccount(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.SetDefaultAccount(r.Context(), pathValue(r, "id")); err != nil {
		writeError(w, r, applog.OpUpdate, err)
		return
	}
	NewJSONResponse().Body(s.svc.Accounts()).Write(w)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(s.svc.Categories()).Write(w)
}

func (s *Server) handleSaveCategory(w http.ResponseWriter, r *http.Request) {
	var c core.Category
	if err := decodeJSON(w, r, &c); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	c.ID = pathValue(r, "id")
	saved, err := s.svc.SaveCategory(r.Context(), c)
	if err != nil {
		writeError(w, r, opFor(r), err)
		return
	}
	NewJSONResponse().Status(statusForSave(r)).Body(saved).Write(w)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteCategory(r.Context(), pathValue(r, "id")); err != nil {
		writeError(w, r, applog.OpDelete, err)
		return
	}
	NoContent().Write(w)
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(s.svc.Goals()).Write(w)
}

func (s *Server) handleSaveGoal(w http.ResponseWriter, r *http.Request) {
	var g core.SavingsGoal
	if err := decodeJSON(w, r, &g); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	g.ID = pathValue(r, "id")
	saved, err := s.svc.SaveGoal(r.Context(), g)
	if err != nil {
		writeError(w, r, opFor(r), err)
		return
	}
	NewJSONResponse().Status(statusForSave(r)).Body(saved).Write(w)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteGoal(r.Context(), pathValue(r, "id")); err != nil {
		writeError(w, r, applog.OpDelete, err)
		return
	}
	NoContent().Write(w)
}

func opFor(r *http.Request) string {
	if r.Method == http.MethodPost {
		return applog.OpCreate
	}
	return applog.OpUpdate
}

func statusForSave(r *http.Request) int {
	if r.Method == http.MethodPost {
		return http.StatusCreated
	}
	return http.StatusOK
}
