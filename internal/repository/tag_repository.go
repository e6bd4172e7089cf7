package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"oohunt/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrTagNotFound  = errors.New("tag not found")
	ErrTagSlugTaken = errors.New("tag with this slug already exists")
)

// TagRepository defines the interface for tag data access
type TagRepository interface {
	Create(ctx context.Context, tag *domain.Tag) error
	Update(ctx context.Context, tag *domain.Tag) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Tag, error)
	List(ctx context.Context, filter TagFilter) ([]*domain.Tag, error)
}

type tagRepository struct {
	db *sql.DB
}

// NewTagRepository creates a new instance of TagRepository
func NewTagRepository(db *sql.DB) TagRepository {
	return &tagRepository{db: db}
}

func scanTag(row rowScanner) (*domain.Tag, error) {
	tag := &domain.Tag{}
	err := row.Scan(&tag.ID, &tag.Name, &tag.Slug, &tag.CreatedAt, &tag.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return tag, nil
}

// Create inserts a new tag
func (r *tagRepository) Create(ctx context.Context, tag *domain.Tag) error {
	query := `
		INSERT INTO content_tags (id, name, slug, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query, tag.ID, tag.Name, tag.Slug, tag.CreatedAt, tag.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrTagSlugTaken
		}
		return fmt.Errorf("failed to create tag: %w", err)
	}

	return nil
}

// Update overwrites name and slug of a tag
func (r *tagRepository) Update(ctx context.Context, tag *domain.Tag) error {
	query := `UPDATE content_tags SET name = $2, slug = $3, updated_at = $4 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, tag.ID, tag.Name, tag.Slug, tag.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrTagSlugTaken
		}
		return fmt.Errorf("failed to update tag: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrTagNotFound
	}

	return nil
}

// Delete removes a tag
func (r *tagRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM content_tags WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrTagNotFound
	}

	return nil
}

// FindByID retrieves a tag by ID
func (r *tagRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Tag, error) {
	query := `SELECT id, name, slug, created_at, updated_at FROM content_tags WHERE id = $1`

	tag, err := scanTag(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTagNotFound
		}
		return nil, fmt.Errorf("failed to find tag by ID: %w", err)
	}

	return tag, nil
}

// List retrieves tags matching an optional case-insensitive search on name
// or slug, ordered by name
func (r *tagRepository) List(ctx context.Context, filter TagFilter) ([]*domain.Tag, error) {
	var where whereBuilder
	if filter.Search != "" {
		where.add(`(name ILIKE $%d OR slug ILIKE $%d)`, likePattern(filter.Search))
	}

	query := `
		SELECT id, name, slug, created_at, updated_at
		FROM content_tags
		` + where.String() + `
		ORDER BY name ASC
	`

	rows, err := r.db.QueryContext(ctx, query, where.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	tags := []*domain.Tag{}
	for rows.Next() {
		tag, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, tag)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tags: %w", err)
	}

	return tags, nil
}
