package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

// Stable error codes returned in the "error" field of failure
// responses. Clients branch on these; the message is for humans.
const (
	CodeInvalidInput     = "invalid_input"
	CodeInvalidOperation = "invalid_operation"
	CodeUnauthorized     = "unauthorized"
	CodeForbidden        = "forbidden"
	CodeNotFound         = "not_found"
	CodeConflict         = "conflict"
	CodeInternalError    = "internal_error"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logrus.WithError(err).Error("Failed to encode response")
	}
}

// respondSuccess merges payload into a {"success": true} envelope.
func respondSuccess(w http.ResponseWriter, payload map[string]interface{}) {
	body := map[string]interface{}{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	respondJSON(w, http.StatusOK, body)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	body := map[string]interface{}{"error": code}
	if message != "" {
		body["message"] = message
	}
	respondJSON(w, status, body)
}

func invalidInput(w http.ResponseWriter, message string) {
	respondError(w, http.StatusBadRequest, CodeInvalidInput, message)
}

func invalidOperation(w http.ResponseWriter, message string) {
	respondError(w, http.StatusBadRequest, CodeInvalidOperation, message)
}

func unauthorized(w http.ResponseWriter, message string) {
	respondError(w, http.StatusUnauthorized, CodeUnauthorized, message)
}

func forbidden(w http.ResponseWriter, message string) {
	respondError(w, http.StatusForbidden, CodeForbidden, message)
}

func notFound(w http.ResponseWriter, message string) {
	respondError(w, http.StatusNotFound, CodeNotFound, message)
}

func conflict(w http.ResponseWriter, message string) {
	respondError(w, http.StatusConflict, CodeConflict, message)
}

// internalError logs the cause and hides it from the caller.
func internalError(w http.ResponseWriter, context string, err error) {
	logrus.WithError(err).Error(context)
	respondError(w, http.StatusInternalServerError, CodeInternalError, "Internal server error")
}
