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
	ErrCategoryNotFound    = errors.New("category not found")
	ErrCategorySlugTaken   = errors.New("category with this slug already exists")
	ErrCategoryHasChildren = errors.New("category still has child categories")
	ErrCategoryParent      = errors.New("parent category does not exist")
)

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	List(ctx context.Context, filter CategoryFilter) ([]*domain.Category, int, error)
	CountChildren(ctx context.Context, id uuid.UUID) (int, error)
}

const categoryColumns = `id, name, slug, description, parent_id, created_at, updated_at`

type categoryRepository struct {
	db *sql.DB
}

// NewCategoryRepository creates a new instance of CategoryRepository
func NewCategoryRepository(db *sql.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func scanCategory(row rowScanner) (*domain.Category, error) {
	category := &domain.Category{}
	var parentID uuid.NullUUID

	err := row.Scan(
		&category.ID,
		&category.Name,
		&category.Slug,
		&category.Description,
		&parentID,
		&category.CreatedAt,
		&category.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if parentID.Valid {
		id := parentID.UUID
		category.ParentID = &id
	}

	return category, nil
}

func nullableUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func categoryWriteError(err error, action string) error {
	switch {
	case isUniqueViolation(err):
		return ErrCategorySlugTaken
	case isForeignKeyViolation(err):
		return ErrCategoryParent
	default:
		return fmt.Errorf("failed to %s category: %w", action, err)
	}
}

// Create inserts a new category using parameterized queries
func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	query := `
		INSERT INTO content_categories (` + categoryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		category.ID,
		category.Name,
		category.Slug,
		category.Description,
		nullableUUID(category.ParentID),
		category.CreatedAt,
		category.UpdatedAt,
	)
	if err != nil {
		return categoryWriteError(err, "create")
	}

	return nil
}

// Update overwrites the mutable columns of a category
func (r *categoryRepository) Update(ctx context.Context, category *domain.Category) error {
	query := `
		UPDATE content_categories
		SET name = $2, slug = $3, description = $4, parent_id = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		category.ID,
		category.Name,
		category.Slug,
		category.Description,
		nullableUUID(category.ParentID),
		category.UpdatedAt,
	)
	if err != nil {
		return categoryWriteError(err, "update")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrCategoryNotFound
	}

	return nil
}

// Delete removes a category. Children block deletion via the parent key.
func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM content_categories WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrCategoryHasChildren
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrCategoryNotFound
	}

	return nil
}

// FindByID retrieves a category by ID using parameterized queries
func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM content_categories WHERE id = $1`

	category, err := scanCategory(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category by ID: %w", err)
	}

	return category, nil
}

// List retrieves categories matching the filter ordered by name
func (r *categoryRepository) List(ctx context.Context, filter CategoryFilter) ([]*domain.Category, int, error) {
	var where whereBuilder

	if filter.Search != "" {
		where.add(`(name ILIKE $%d OR slug ILIKE $%d OR description ILIKE $%d)`, likePattern(filter.Search))
	}
	if filter.Parent.IsRoot() {
		where.addRaw(`parent_id IS NULL`)
	} else if id, ok := filter.Parent.ID(); ok {
		where.add(`parent_id = $%d`, id)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM content_categories ` + where.String()
	if err := r.db.QueryRowContext(ctx, countQuery, where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count categories: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM content_categories
		%s
		ORDER BY name ASC
		LIMIT $%d OFFSET $%d
	`, categoryColumns, where.String(), where.next(), where.next()+1)

	args := append(where.args, filter.PageSize, filter.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []*domain.Category{}
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, total, nil
}

// CountChildren counts categories whose parent is id
func (r *categoryRepository) CountChildren(ctx context.Context, id uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM content_categories WHERE parent_id = $1`, id).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count child categories: %w", err)
	}
	return count, nil
}
