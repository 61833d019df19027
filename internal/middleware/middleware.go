// Package middleware holds the request pipeline applied to every route:
// CORS, body parsing and request logging.
package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain wraps h so that the first middleware sees the request first.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// errorResponse mirrors the API error envelope for failures raised before
// a request reaches a handler.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(errorResponse{Error: errorDetail{Code: code, Message: message}}); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}
