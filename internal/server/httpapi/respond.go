package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/dbx"
	"github.com/dmitrijs2005/portfolio/internal/server/services"
)

// envelope is the body of every JSON response.
type envelope struct {
	Success    bool   `json:"success"`
	Message    string `json:"message,omitempty"`
	Data       any    `json:"data,omitempty"`
	Pagination any    `json:"pagination,omitempty"`
	Count      *int   `json:"count,omitempty"`
	Error      string `json:"error,omitempty"`
	Details    any    `json:"details,omitempty"`
}

type pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func ok(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

func created(w http.ResponseWriter, msg string, data any) {
	writeJSON(w, http.StatusCreated, envelope{Success: true, Message: msg, Data: data})
}

func message(w http.ResponseWriter, msg string, data any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: msg, Data: data})
}

func list[T any](w http.ResponseWriter, items []T) {
	n := len(items)
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: items, Count: &n})
}

func paged(w http.ResponseWriter, items any, p pagination) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: items, Pagination: p})
}

func fail(w http.ResponseWriter, status int, msg string, details any) {
	writeJSON(w, status, envelope{Error: msg, Details: details})
}

// errorStatus maps a service error to its HTTP status and public message.
func errorStatus(err error) (int, string) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, "Validation failed"
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest, "Validation failed"
	case errors.Is(err, common.ErrAccountLocked):
		return http.StatusUnauthorized, "Account is temporarily locked due to too many failed login attempts"
	case errors.Is(err, common.ErrAccountInactive):
		return http.StatusUnauthorized, "Account is deactivated"
	case errors.Is(err, common.ErrTokenExpired), errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized, "Invalid token"
	case errors.Is(err, common.ErrMissingBearerHeader):
		return http.StatusUnauthorized, "No token provided"
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden, "Access denied"
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, common.ErrConflict):
		return http.StatusConflict, conflictMessage(err)
	case errors.Is(err, common.ErrUnavailable), dbx.IsUnavailable(err):
		return http.StatusServiceUnavailable, "Service temporarily unavailable"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// conflictMessage strips the sentinel prefix so callers see the reason only.
func conflictMessage(err error) string {
	msg := err.Error()
	prefix := common.ErrConflict.Error() + ": "
	if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
		return msg[len(prefix):]
	}
	return "Conflict"
}

func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := errorStatus(err)

	var details any
	var ve *services.ValidationError
	if errors.As(err, &ve) {
		details = ve.Violations
	}

	if status >= http.StatusInternalServerError {
		a.log.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		a.log.Debug(r.Context(), "request rejected", "status", status, "error", err)
	}
	fail(w, status, msg, details)
}

// decodeJSON reads a JSON body into v. Unknown fields are ignored.
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return &services.ValidationError{Violations: map[string]string{"body": "is required"}}
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return &services.ValidationError{Violations: map[string]string{"body": "is required"}}
		}
		return &services.ValidationError{Violations: map[string]string{"body": "invalid JSON: " + err.Error()}}
	}
	return nil
}

func queryInt(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func queryBool(r *http.Request, name string) bool {
	b, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return b
}
