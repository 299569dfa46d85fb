package http

import (
	"net/http"

	"cashflow/internal/core"
	applog "cashflow/internal/log"
	"cashflow/internal/period"
	"cashflow/internal/rollover"
)

func (s *Server) handleGetPeriod(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(s.svc.Settings()).Write(w)
}

func (s *Server) handleSetPeriod(w http.ResponseWriter, r *http.Request) {
	var rng period.Range
	if err := decodeJSON(w, r, &rng); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	if err := s.svc.SetPeriod(r.Context(), rng); err != nil {
		writeError(w, r, applog.OpNavigate, err)
		return
	}
	NewJSONResponse().Body(s.svc.Settings()).Write(w)
}

type navigateRequest struct {
	Direction string `json:"direction"`
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req navigateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	dir, err := period.ParseDirection(sanitizeInput(req.Direction))
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	rng, err := s.svc.Navigate(r.Context(), dir)
	if err != nil {
		writeError(w, r, applog.OpNavigate, err)
		return
	}
	NewJSONResponse().Body(rng).Write(w)
}

// newPeriodRequest starts the next calendar month unless both dates are given.
type newPeriodRequest struct {
	Mode      string   `json:"mode"`
	StartDate core.Day `json:"startDate,omitempty"`
	EndDate   core.Day `json:"endDate,omitempty"`
}

type newPeriodResult struct {
	Period  period.Range `json:"period"`
	Added   int          `json:"added"`
	Removed int          `json:"removed"`
	Skipped int          `json:"skipped"`
}

func (s *Server) handleNewPeriod(w http.ResponseWriter, r *http.Request) {
	var req newPeriodRequest
	if err := decodeJSON(w, r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	mode, err := rollover.ParseMode(sanitizeInput(req.Mode))
	if err != nil {
		writeError(w, r, applog.OpRollover, err)
		return
	}
	target := period.Range{
		Start: core.Day(sanitizeInput(string(req.StartDate))),
		End:   core.Day(sanitizeInput(string(req.EndDate))),
	}
	res, err := s.svc.StartPeriod(r.Context(), mode, target)
	if err != nil {
		writeError(w, r, applog.OpRollover, err)
		return
	}
	NewJSONResponse().Body(newPeriodResult{
		Period:  res.Target,
		Added:   len(res.Added),
		Removed: res.Removed,
		Skipped: res.Skipped,
	}).Write(w)
}
