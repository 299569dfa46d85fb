package http

import (
	"bytes"
	"net/http"
	"strings"

	"cashflow/internal/advisor"
	applog "cashflow/internal/log"
	"cashflow/internal/services"
)

// handleMonthlyReport returns the per-month rollup as JSON, or CSV with ?format=csv.
func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	buckets := s.svc.MonthlyReport()
	if strings.EqualFold(r.URL.Query().Get("format"), "csv") {
		var buf bytes.Buffer
		if err := services.WriteMonthlyCSV(&buf, buckets); err != nil {
			writeError(w, r, "report", err)
			return
		}
		NewJSONResponse().
			Raw("text/csv; charset=utf-8", buf.Bytes()).
			Header("Content-Disposition", `attachment; filename="monthly-report.csv"`).
			Write(w)
		return
	}
	NewJSONResponse().Body(buckets).Write(w)
}

type exportResult struct {
	Ref string `json:"ref"`
}

func (s *Server) handleExportMonthlyReport(w http.ResponseWriter, r *http.Request) {
	ref, err := s.svc.ExportMonthlyReport(r.Context())
	if err != nil {
		writeError(w, r, "report", err)
		return
	}
	NewJSONResponse().Body(exportResult{Ref: ref}).Write(w)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := s.svc.Export()
	if err != nil {
		writeError(w, r, applog.OpBackup, err)
		return
	}
	NewJSONResponse().
		Raw("application/json", data).
		Header("Content-Disposition", `attachment; filename="cashflow-backup.json"`).
		Write(w)
}

type importResult struct {
	Warnings []string `json:"warnings"`
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	warns, err := s.svc.Import(r.Context(), data)
	if err != nil {
		writeError(w, r, applog.OpBackup, err)
		return
	}
	res := importResult{Warnings: make([]string, 0, len(warns))}
	for _, wn := range warns {
		res.Warnings = append(res.Warnings, wn.String())
	}
	NewJSONResponse().Body(res).Write(w)
}

type adviceRequest struct {
	Question string `json:"question"`
}

type adviceResult struct {
	Reply                string `json:"reply"`
	NeedsReconfiguration bool   `json:"needsReconfiguration"`
}

func (s *Server) handleAdvice(w http.ResponseWriter, r *http.Request) {
	var req adviceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	reply, err := s.svc.Advise(r.Context(), sanitizeInput(req.Question))
	if err != nil {
		writeError(w, r, "advise", err)
		return
	}
	text, reconfigure := advisor.NeedsReconfiguration(reply)
	NewJSONResponse().Body(adviceResult{Reply: text, NeedsReconfiguration: reconfigure}).Write(w)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(s.Metrics()).Write(w)
}
