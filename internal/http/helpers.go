package http

import (
	"errors"
	"net/http"
	"strings"

	"cashflow/internal/advisor"
	"cashflow/internal/core"
	applog "cashflow/internal/log"
	"cashflow/internal/services"
	"cashflow/internal/snapshot"
)

var (
	badRequestErrors = []error{
		core.ErrInvalidDate, core.ErrInvalidRange, core.ErrInvalidAmount,
		core.ErrInvalidType, core.ErrInvalidFrequency, core.ErrEmptyName,
		core.ErrEmptyCategory, core.ErrInvalidMode, core.ErrInvalidCurrency,
		core.ErrInvalidAccountType, snapshot.ErrInvalidBackup, advisor.ErrEmptyQuestion,
	}
	conflictErrors = []error{
		core.ErrDefaultAccount, core.ErrBuiltinCategory, core.ErrNothingToUndo,
	}
	unavailableErrors = []error{
		services.ErrAdvisorUnavailable, services.ErrNoReportWriter,
	}
)

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// statusFor maps a service error to an HTTP status.
func statusFor(err error) int {
	switch {
	case isAny(err, badRequestErrors):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case isAny(err, conflictErrors):
		return http.StatusConflict
	case isAny(err, unavailableErrors):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError logs err and sends it to the client. Internal errors are not
// echoed back.
func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := statusFor(err)
	logger := applog.FromContext(r.Context())
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed", applog.FieldOperation, op, applog.FieldError, err)
		msg = "internal error"
	} else {
		logger.DebugContext(r.Context(), "Request rejected", applog.FieldOperation, op, applog.FieldError, err)
	}
	ErrorResponse(status, msg).Write(w)
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
