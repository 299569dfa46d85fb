package http

import (
	"net/http"

	"cashflow/internal/core"
	applog "cashflow/internal/log"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(s.svc.Dashboard(r.Context())).Write(w)
}

// handleListTransactions returns the active period, or every record with ?all=true.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs := s.svc.Transactions()
	if queryBool(r, "all") {
		txs = s.svc.AllTransactions()
	}
	if txs == nil {
		txs = []core.Transaction{}
	}
	NewJSONResponse().Body(txs).Write(w)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var tx core.Transaction
	if err := decodeJSON(w, r, &tx); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	tx.ID = ""
	saved, err := s.svc.SaveTransaction(r.Context(), tx)
	if err != nil {
		writeError(w, r, applog.OpCreate, err)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).Body(saved).Write(w)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var tx core.Transaction
	if err := decodeJSON(w, r, &tx); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	tx.ID = pathValue(r, "id")
	saved, err := s.svc.SaveTransaction(r.Context(), tx)
	if err != nil {
		writeError(w, r, applog.OpUpdate, err)
		return
	}
	NewJSONResponse().Body(saved).Write(w)
}

type deleteResult struct {
	Deleted int `json:"deleted"`
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	n, err := s.svc.DeleteTransactions(r.Context(), pathValue(r, "id"))
	if err != nil {
		writeError(w, r, applog.OpDelete, err)
		return
	}
	NewJSONResponse().Body(deleteResult{Deleted: n}).Write(w)
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

func (s *Server) handleBulkDelete(w http.ResponseWriter, r *http.Request) {
	var req bulkDeleteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	ids := make([]string, 0, len(req.IDs))
	for _, id := range req.IDs {
		if id = sanitizeInput(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		BadRequestError("no ids given").Write(w)
		return
	}
	n, err := s.svc.DeleteTransactions(r.Context(), ids...)
	if err != nil {
		writeError(w, r, applog.OpDelete, err)
		return
	}
	NewJSONResponse().Body(deleteResult{Deleted: n}).Write(w)
}

type undoResult struct {
	Undone string `json:"undone"`
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	desc, err := s.svc.Undo(r.Context())
	if err != nil {
		writeError(w, r, applog.OpUndo, err)
		return
	}
	NewJSONResponse().Body(undoResult{Undone: desc}).Write(w)
}
