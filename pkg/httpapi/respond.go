package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/vectordb"
)

// Boundary error codes outside the access-layer taxonomy.
const (
	codeBadRequest    = "bad_request"
	codePointNotFound = "point_not_found"
	codeInternal      = "internal_error"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string, details map[string]any) {
	if details == nil {
		details = map[string]any{}
	}
	writeJSON(w, status, vectordb.ErrorResponse{
		Error:   code,
		Message: message,
		Details: details,
	})
}

// writeDomainError renders classified errors with their own status and
// envelope. Anything else is logged and reported as a bare 500.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var e *vectordb.Error
	if errors.As(err, &e) {
		if e.Status() >= http.StatusInternalServerError {
			s.requestLogger(r).Warn("vector database unavailable", zap.Error(err))
		}
		writeJSON(w, e.Status(), e.Response())
		return
	}
	s.requestLogger(r).Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternal, "internal error", nil)
}

// decodeJSON reads a request body. Numbers are kept as json.Number so
// payloads and filters can be normalized to int64 or float64.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	return dec.Decode(v)
}

func writeBadRequest(w http.ResponseWriter, err error) {
	writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error(), nil)
}
