package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/tbtran/vocabd/internal/handler/dto"
	"github.com/tbtran/vocabd/internal/middleware"
	"github.com/tbtran/vocabd/internal/service"
)

// Pinger reports whether the backing database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	db           Pinger
	vocabService *service.VocabService
}

// New creates a new Handler over the given vocab store.
func New(store service.VocabStore, db Pinger) *Handler {
	return &Handler{
		db:           db,
		vocabService: service.NewVocabService(store),
	}
}

// RegisterRoutes registers the vocab routes on mux. It never starts listening.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /healthz", h.handleHealthz)

	mux.HandleFunc("GET /vocabs", h.handleListVocabs)
	mux.HandleFunc("POST /vocabs", h.handleCreateVocab)
	mux.HandleFunc("GET /vocabs/{vocabId}", h.handleGetVocab)
	mux.HandleFunc("PUT /vocabs/{vocabId}", h.handleUpdateVocab)
	mux.HandleFunc("DELETE /vocabs/{vocabId}", h.handleDeleteVocab)
}

// Router assembles the full request pipeline: logging, CORS, URL-encoded
// and JSON body parsing, then the routes with the not-found fallback.
func (h *Handler) Router(allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	mux.HandleFunc("/", h.handleNotFound)

	return middleware.Chain(mux,
		middleware.Logging,
		middleware.CORS(allowedOrigins),
		middleware.URLEncoded,
		middleware.JSON,
	)
}

// handleHealthz returns 200 OK if the database is reachable.
func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		slog.Error("database health check failed", "error", err)
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// handleNotFound answers unmatched GET requests with the requested URL.
// Other methods get the plain default 404.
func (h *Handler) handleNotFound(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.NotFound(w, r)
		return
	}

	respondJSON(w, http.StatusNotFound, dto.NotFoundResponse{
		URL: r.URL.RequestURI() + " not found",
	})
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// respondError writes a standard error response.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, dto.NewErrorResponse(code, message))
}

// respondDomainError maps err through dto.MapDomainError.
func respondDomainError(w http.ResponseWriter, err error) {
	status, code, message := dto.MapDomainError(err)
	respondError(w, status, code, message)
}
