package controllers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"postbrowser/app/services"
	"postbrowser/app/store"
)

// Helper functions for consistent response handling

func sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func sendError(w http.ResponseWriter, message string, status int) {
	sendJSON(w, status, map[string]string{"error": message})
}

// sendServiceError maps a service error onto an HTTP status.
func sendServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		sendError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, services.ErrInvalidInput):
		sendError(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error("request failed", "error", err)
		sendError(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
