// Package handlers serves the adoption REST surface over chi.
//
// Responses are {success, statusCode, message, data} envelopes. The handlers
// only parse requests and shape responses, the business rules live behind
// the service interfaces each handler declares.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// Error is a service failure carrying the HTTP status and message to respond with
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// NewError creates a service failure
func NewError(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

type envelope struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message,omitempty"`
	Data       any    `json:"data,omitempty"`
}

type BaseHandler struct {
	logger *zap.Logger
}

// respondJSON sends a success envelope
func (h *BaseHandler) respondJSON(w http.ResponseWriter, status int, message string, data any) {
	h.write(w, envelope{Success: true, StatusCode: status, Message: message, Data: data})
}

// respondError sends a failure envelope
func (h *BaseHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.write(w, envelope{Success: false, StatusCode: status, Message: message})
}

// respondServiceError maps a service error to its envelope, logging unexpected ones
func (h *BaseHandler) respondServiceError(w http.ResponseWriter, err error, operation string) {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		h.respondError(w, svcErr.Status, svcErr.Message)
		return
	}
	h.logger.Error("failed to "+operation, zap.Error(err))
	h.respondError(w, http.StatusInternalServerError, "Server error")
}

func (h *BaseHandler) write(w http.ResponseWriter, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(body.StatusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// decodeJSON reads a JSON request body into v
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode request body: %w", err)
	}
	return nil
}
