package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tbtran/vocabd/internal/domain"
)

// psql builds PostgreSQL statements with $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var vocabColumns = []string{"id", "doc", "created_at", "updated_at"}

// VocabListParams filters and pages a vocab listing.
type VocabListParams struct {
	WordPrefix string
	Limit      int
	Offset     int
}

// VocabRepository handles database operations for vocab documents.
type VocabRepository struct {
	pool *pgxpool.Pool
}

// NewVocabRepository creates a new VocabRepository.
func NewVocabRepository(pool *pgxpool.Pool) *VocabRepository {
	return &VocabRepository{pool: pool}
}

func scanVocab(row pgx.Row) (*domain.Vocab, error) {
	var (
		vocab domain.Vocab
		doc   []byte
	)
	err := row.Scan(&vocab.ID, &doc, &vocab.CreatedAt, &vocab.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVocabNotFound
		}
		return nil, fmt.Errorf("scan vocab: %w", err)
	}
	if err := decodeVocab(doc, &vocab); err != nil {
		return nil, err
	}
	return &vocab, nil
}

// parseVocabID validates vocabID and returns it in canonical form.
func parseVocabID(vocabID string) (string, error) {
	id, err := uuid.Parse(vocabID)
	if err != nil {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidVocabID, vocabID)
	}
	return id.String(), nil
}

// escapeLike escapes LIKE wildcards so a prefix matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (p VocabListParams) apply(b sq.SelectBuilder) sq.SelectBuilder {
	if p.WordPrefix != "" {
		b = b.Where("lower(doc->>'word') LIKE ?", strings.ToLower(escapeLike(p.WordPrefix))+"%")
	}
	return b
}

// List returns one page of vocabs ordered by creation time, and the total number matching.
func (r *VocabRepository) List(ctx context.Context, params VocabListParams) ([]*domain.Vocab, int, error) {
	countQuery, countArgs, err := params.apply(psql.Select("COUNT(*)").From("vocabs")).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count vocabs: %w", err)
	}

	query, args, err := params.apply(psql.Select(vocabColumns...).From("vocabs")).
		OrderBy("created_at ASC", "id ASC").
		Limit(uint64(params.Limit)).
		Offset(uint64(params.Offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build List query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query vocabs: %w", err)
	}
	defer rows.Close()

	vocabs := []*domain.Vocab{}
	for rows.Next() {
		vocab, err := scanVocab(rows)
		if err != nil {
			return nil, 0, err
		}
		vocabs = append(vocabs, vocab)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate rows: %w", err)
	}

	return vocabs, total, nil
}

// GetByID retrieves a vocab by ID.
func (r *VocabRepository) GetByID(ctx context.Context, vocabID string) (*domain.Vocab, error) {
	id, err := parseVocabID(vocabID)
	if err != nil {
		return nil, err
	}

	query, args, err := psql.
		Select(vocabColumns...).
		From("vocabs").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for vocab %s: %w", vocabID, err)
	}

	return scanVocab(r.pool.QueryRow(ctx, query, args...))
}

// Create inserts a new vocab and returns it with ID and timestamps populated.
func (r *VocabRepository) Create(ctx context.Context, vocab *domain.Vocab) (*domain.Vocab, error) {
	doc, err := encodeVocab(vocab)
	if err != nil {
		return nil, err
	}

	query, args, err := psql.
		Insert("vocabs").
		Columns("id", "doc").
		Values(uuid.NewString(), string(doc)).
		Suffix("RETURNING " + strings.Join(vocabColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for vocab: %w", err)
	}

	return scanVocab(r.pool.QueryRow(ctx, query, args...))
}

// Update merges the patch into the stored document in a single statement
// and returns the updated vocab.
func (r *VocabRepository) Update(ctx context.Context, vocabID string, patch *domain.VocabPatch) (*domain.Vocab, error) {
	id, err := parseVocabID(vocabID)
	if err != nil {
		return nil, err
	}

	doc, err := encodePatch(patch)
	if err != nil {
		return nil, err
	}

	query, args, err := psql.
		Update("vocabs").
		Set("doc", sq.Expr("doc || ?::jsonb", string(doc))).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(vocabColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Update query for vocab %s: %w", vocabID, err)
	}

	return scanVocab(r.pool.QueryRow(ctx, query, args...))
}

// Delete removes a vocab. Returns ErrVocabNotFound if nothing was deleted.
func (r *VocabRepository) Delete(ctx context.Context, vocabID string) error {
	id, err := parseVocabID(vocabID)
	if err != nil {
		return err
	}

	query, args, err := psql.
		Delete("vocabs").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Delete query for vocab %s: %w", vocabID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete vocab: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrVocabNotFound
	}

	return nil
}
