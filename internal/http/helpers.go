package http

import (
	"errors"
	"net/http"
	"strings"

	"urmoney/internal/core"
	"urmoney/internal/log"
)

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

// errorMessages are the per-resource texts for missing input and unknown ids.
type errorMessages struct {
	missing  string
	notFound string
	conflict string
}

var (
	transactionErrors = errorMessages{
		missing:  "Missing required fields",
		notFound: "Transaction not found",
	}
	categoryErrors = errorMessages{
		missing:  "Category name is required",
		notFound: "Category not found",
		conflict: "Category already exists",
	}
)

// errorResponse maps ledger errors onto status codes and bodies.
func errorResponse(err error, msgs errorMessages) *JSONResponseBuilder {
	var ve *core.ValidationError
	switch {
	case errors.Is(err, core.ErrMissingFields):
		return BadRequestError(msgs.missing)
	case errors.Is(err, errInvalidBody):
		return BadRequestError("Invalid request body")
	case errors.As(err, &ve):
		return BadRequestError(ve.Error())
	case errors.Is(err, core.ErrNotFound):
		return NotFoundError(msgs.notFound)
	case errors.Is(err, core.ErrConflict):
		msg := msgs.conflict
		if msg == "" {
			msg = "Conflict"
		}
		return ConflictError(msg)
	default:
		return InternalServerError(err.Error())
	}
}

// errorType classifies err for structured logs.
func errorType(err error) string {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return log.ErrorTypeNotFound
	case errors.Is(err, core.ErrConflict):
		return log.ErrorTypeConflict
	case errors.Is(err, core.ErrMissingFields), errors.Is(err, errInvalidBody), core.IsValidation(err):
		return log.ErrorTypeValidation
	default:
		return log.ErrorTypeDatabase
	}
}

// fail logs err and writes the mapped response. Server faults log at error
// level, client mistakes at debug.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, op string, err error, msgs errorMessages) {
	resp := errorResponse(err, msgs)
	fields := log.NewFields().
		WithOperation(op).
		WithError(err).
		WithErrorType(errorType(err)).
		WithHTTPRequest(r.Method, r.URL.Path, "", "", "")

	logger := log.FromContext(r.Context()).WithComponent(log.ComponentHTTP)
	if resp.StatusCode() >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed", fields.ToSlice()...)
	} else {
		logger.DebugContext(r.Context(), "Request rejected", fields.ToSlice()...)
	}
	resp.Write(w)
}
