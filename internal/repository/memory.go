package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tbtran/vocabd/internal/domain"
)

// MemoryVocabRepository keeps vocabs in process memory. It mirrors
// VocabRepository semantics and backs handler and service tests.
type MemoryVocabRepository struct {
	mu     sync.RWMutex
	vocabs map[string]*domain.Vocab
	now    func() time.Time
	last   time.Time
}

// NewMemoryVocabRepository creates an empty MemoryVocabRepository.
func NewMemoryVocabRepository() *MemoryVocabRepository {
	return &MemoryVocabRepository{
		vocabs: map[string]*domain.Vocab{},
		now:    time.Now,
	}
}

func cloneVocab(v *domain.Vocab) *domain.Vocab {
	c := *v
	c.Examples = append([]string{}, v.Examples...)
	return &c
}

// tick returns a timestamp strictly after the previous one so creation order is stable.
// Callers hold r.mu.
func (r *MemoryVocabRepository) tick() time.Time {
	t := r.now()
	if !t.After(r.last) {
		t = r.last.Add(time.Nanosecond)
	}
	r.last = t
	return t
}

// List returns one page of vocabs ordered by creation time, and the total number matching.
func (r *MemoryVocabRepository) List(_ context.Context, params VocabListParams) ([]*domain.Vocab, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	prefix := strings.ToLower(params.WordPrefix)
	matched := make([]*domain.Vocab, 0, len(r.vocabs))
	for _, v := range r.vocabs {
		if strings.HasPrefix(strings.ToLower(v.Word), prefix) {
			matched = append(matched, v)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	total := len(matched)
	start := min(params.Offset, total)
	end := min(start+params.Limit, total)

	page := make([]*domain.Vocab, 0, end-start)
	for _, v := range matched[start:end] {
		page = append(page, cloneVocab(v))
	}
	return page, total, nil
}

// GetByID retrieves a vocab by ID.
func (r *MemoryVocabRepository) GetByID(_ context.Context, vocabID string) (*domain.Vocab, error) {
	id, err := parseVocabID(vocabID)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.vocabs[id]
	if !ok {
		return nil, domain.ErrVocabNotFound
	}
	return cloneVocab(v), nil
}

// Create stores a copy of vocab with a fresh ID and timestamps.
func (r *MemoryVocabRepository) Create(_ context.Context, vocab *domain.Vocab) (*domain.Vocab, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v := cloneVocab(vocab)
	v.ID = uuid.NewString()
	v.CreatedAt = r.tick()
	v.UpdatedAt = v.CreatedAt
	r.vocabs[v.ID] = v
	return cloneVocab(v), nil
}

// Update merges the patch into the stored vocab.
func (r *MemoryVocabRepository) Update(_ context.Context, vocabID string, patch *domain.VocabPatch) (*domain.Vocab, error) {
	id, err := parseVocabID(vocabID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.vocabs[id]
	if !ok {
		return nil, domain.ErrVocabNotFound
	}
	patch.Apply(v)
	v.UpdatedAt = r.tick()
	return cloneVocab(v), nil
}

// Delete removes a vocab.
func (r *MemoryVocabRepository) Delete(_ context.Context, vocabID string) error {
	id, err := parseVocabID(vocabID)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.vocabs[id]; !ok {
		return domain.ErrVocabNotFound
	}
	delete(r.vocabs, id)
	return nil
}
