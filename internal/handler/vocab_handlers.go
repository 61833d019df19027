package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/tbtran/vocabd/internal/handler/dto"
	"github.com/tbtran/vocabd/internal/middleware"
	"github.com/tbtran/vocabd/internal/repository"
	"github.com/tbtran/vocabd/internal/service"
)

// decodeRequest decodes the parsed body into v.
// Returns false if the body is missing or malformed (error already sent to client).
func decodeRequest(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := middleware.DecodeBody(r.Context(), v); err != nil {
		if errors.Is(err, middleware.ErrNoBody) {
			respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "request body is required")
			return false
		}
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return false
	}
	return true
}

// handleListVocabs lists vocabs with optional word prefix filtering.
// Query: word, limit (1-200, default 50), offset (default 0).
func (h *Handler) handleListVocabs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	params := repository.VocabListParams{
		WordPrefix: query.Get("word"),
	}
	if n, err := strconv.Atoi(query.Get("limit")); err == nil {
		params.Limit = n
	}
	if n, err := strconv.Atoi(query.Get("offset")); err == nil {
		params.Offset = n
	}

	vocabs, total, params, err := h.vocabService.ListVocabs(r.Context(), params)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToVocabsListResponse(vocabs, total, params.Limit, params.Offset))
}

// handleCreateVocab creates a new vocab from a JSON or form body.
func (h *Handler) handleCreateVocab(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateVocabRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	vocab, err := h.vocabService.CreateVocab(r.Context(), service.CreateVocabParams{
		Word:          req.Word,
		Meaning:       req.Meaning,
		PartOfSpeech:  req.PartOfSpeech,
		Pronunciation: req.Pronunciation,
		Examples:      req.Examples,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToVocabResponse(vocab))
}

// handleGetVocab returns a single vocab.
func (h *Handler) handleGetVocab(w http.ResponseWriter, r *http.Request) {
	vocab, err := h.vocabService.GetVocab(r.Context(), r.PathValue("vocabId"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToVocabResponse(vocab))
}

// handleUpdateVocab merges the body fields into an existing vocab.
func (h *Handler) handleUpdateVocab(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateVocabRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	vocab, err := h.vocabService.UpdateVocab(r.Context(), r.PathValue("vocabId"), req.ToPatch())
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToVocabResponse(vocab))
}

// handleDeleteVocab removes a vocab.
func (h *Handler) handleDeleteVocab(w http.ResponseWriter, r *http.Request) {
	if err := h.vocabService.DeleteVocab(r.Context(), r.PathValue("vocabId")); err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.MessageResponse{Message: "Vocab successfully deleted"})
}
