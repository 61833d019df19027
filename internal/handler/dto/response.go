package dto

import (
	"time"

	"github.com/tbtran/vocabd/internal/domain"
)

// VocabResponse represents a vocab document.
type VocabResponse struct {
	ID            string    `json:"id"`
	Word          string    `json:"word"`
	Meaning       string    `json:"meaning"`
	PartOfSpeech  string    `json:"part_of_speech"`
	Pronunciation string    `json:"pronunciation"`
	Examples      []string  `json:"examples"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// VocabsListResponse represents the response for GET /vocabs.
type VocabsListResponse struct {
	Vocabs []VocabResponse `json:"vocabs"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

// MessageResponse carries a human readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// NotFoundResponse is returned for unmatched GET requests.
type NotFoundResponse struct {
	URL string `json:"url"`
}

// ToVocabResponse converts domain.Vocab to VocabResponse.
func ToVocabResponse(vocab *domain.Vocab) VocabResponse {
	examples := vocab.Examples
	if examples == nil {
		examples = []string{}
	}
	return VocabResponse{
		ID:            vocab.ID,
		Word:          vocab.Word,
		Meaning:       vocab.Meaning,
		PartOfSpeech:  vocab.PartOfSpeech,
		Pronunciation: vocab.Pronunciation,
		Examples:      examples,
		CreatedAt:     vocab.CreatedAt,
		UpdatedAt:     vocab.UpdatedAt,
	}
}

// ToVocabsListResponse converts a page of vocabs to VocabsListResponse.
func ToVocabsListResponse(vocabs []*domain.Vocab, total, limit, offset int) VocabsListResponse {
	resp := VocabsListResponse{
		Vocabs: make([]VocabResponse, len(vocabs)),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
	for i, v := range vocabs {
		resp.Vocabs[i] = ToVocabResponse(v)
	}
	return resp
}
