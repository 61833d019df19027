package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tbtran/vocabd/internal/domain"
	"github.com/tbtran/vocabd/internal/repository"
)

const (
	// DefaultListLimit is the page size used when the caller gives none.
	DefaultListLimit = 50
	// MaxListLimit caps the page size.
	MaxListLimit = 200
)

// VocabStore persists vocab documents.
type VocabStore interface {
	List(ctx context.Context, params repository.VocabListParams) ([]*domain.Vocab, int, error)
	GetByID(ctx context.Context, vocabID string) (*domain.Vocab, error)
	Create(ctx context.Context, vocab *domain.Vocab) (*domain.Vocab, error)
	Update(ctx context.Context, vocabID string, patch *domain.VocabPatch) (*domain.Vocab, error)
	Delete(ctx context.Context, vocabID string) error
}

// VocabService coordinates vocab CRUD operations.
type VocabService struct {
	store VocabStore
}

// NewVocabService creates a new VocabService.
func NewVocabService(store VocabStore) *VocabService {
	return &VocabService{store: store}
}

// CreateVocabParams contains the fields of a new vocab.
type CreateVocabParams struct {
	Word          string
	Meaning       string
	PartOfSpeech  string
	Pronunciation string
	Examples      []string
}

// ListVocabs returns a page of vocabs and the total count. Out of range
// limits fall back to DefaultListLimit and negative offsets to zero.
func (s *VocabService) ListVocabs(ctx context.Context, params repository.VocabListParams) ([]*domain.Vocab, int, repository.VocabListParams, error) {
	if params.Limit <= 0 || params.Limit > MaxListLimit {
		params.Limit = DefaultListLimit
	}
	if params.Offset < 0 {
		params.Offset = 0
	}

	vocabs, total, err := s.store.List(ctx, params)
	if err != nil {
		return nil, 0, params, fmt.Errorf("list vocabs: %w", err)
	}
	return vocabs, total, params, nil
}

// GetVocab retrieves a single vocab.
func (s *VocabService) GetVocab(ctx context.Context, vocabID string) (*domain.Vocab, error) {
	return s.store.GetByID(ctx, vocabID)
}

// CreateVocab validates and stores a new vocab.
func (s *VocabService) CreateVocab(ctx context.Context, params CreateVocabParams) (*domain.Vocab, error) {
	vocab := &domain.Vocab{
		Word:          params.Word,
		Meaning:       params.Meaning,
		PartOfSpeech:  params.PartOfSpeech,
		Pronunciation: params.Pronunciation,
		Examples:      params.Examples,
	}
	vocab.Normalize()
	if err := vocab.Validate(); err != nil {
		return nil, err
	}

	created, err := s.store.Create(ctx, vocab)
	if err != nil {
		return nil, fmt.Errorf("create vocab: %w", err)
	}

	slog.Info("vocab created", "vocab_id", created.ID, "word", created.Word)

	return created, nil
}

// UpdateVocab merges the given fields into an existing vocab.
func (s *VocabService) UpdateVocab(ctx context.Context, vocabID string, patch *domain.VocabPatch) (*domain.Vocab, error) {
	patch.Normalize()
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.store.Update(ctx, vocabID, patch)
	if err != nil {
		return nil, fmt.Errorf("update vocab %s: %w", vocabID, err)
	}

	slog.Info("vocab updated", "vocab_id", updated.ID)

	return updated, nil
}

// DeleteVocab removes a vocab.
func (s *VocabService) DeleteVocab(ctx context.Context, vocabID string) error {
	if err := s.store.Delete(ctx, vocabID); err != nil {
		return fmt.Errorf("delete vocab %s: %w", vocabID, err)
	}

	slog.Info("vocab deleted", "vocab_id", vocabID)

	return nil
}
