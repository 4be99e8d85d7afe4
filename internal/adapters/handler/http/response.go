package http

import (
	"encoding/json"
	"net/http"

	"github.com/vncsmyrnk/pollcontract/internal/core/domain"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

var kindStatus = map[domain.ErrorKind]int{
	domain.KindNotFound:        http.StatusNotFound,
	domain.KindConflict:        http.StatusConflict,
	domain.KindStateViolation:  http.StatusConflict,
	domain.KindAuthorization:   http.StatusForbidden,
	domain.KindOperationalGate: http.StatusServiceUnavailable,
	domain.KindUpgradeFailure:  http.StatusUnprocessableEntity,
}

// writeError maps contract errors to their status. Anything else is an
// internal error and its detail is not exposed.
func writeError(w http.ResponseWriter, err error) {
	status, ok := kindStatus[domain.KindOf(err)]
	if !ok {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal", Message: "internal error"})
		return
	}
	writeJSON(w, status, errorResponse{Error: domain.CodeOf(err), Message: err.Error()})
}

func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: "BadRequest", Message: message})
}

func unauthorized(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Unauthorized", Message: message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
