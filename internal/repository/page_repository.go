package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"oohunt/internal/domain"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

var (
	ErrPageNotFound  = errors.New("page not found")
	ErrPageSlugTaken = errors.New("page with this slug already exists")
)

// PageRepository defines the interface for content page data access
type PageRepository interface {
	Create(ctx context.Context, page *domain.ContentPage) error
	Update(ctx context.Context, page *domain.ContentPage) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.ContentPage, error)
	FindBySlug(ctx context.Context, slug string) (*domain.ContentPage, error)
	FindPublishedBySlug(ctx context.Context, slug string) (*domain.ContentPage, error)
	ListPublished(ctx context.Context, limit int) ([]*domain.ContentPage, error)
	List(ctx context.Context, filter PageFilter) ([]*domain.ContentPage, int, error)
	CountPublishedByTaxonomy(ctx context.Context, kind domain.TaxonomyKind) (map[string]int, error)
	CountReferences(ctx context.Context, kind domain.TaxonomyKind, id string) (int, error)
}

const pageColumns = `id, title, slug, content, excerpt, status, author, categories, tags,
	product_ids, featured_image, seo_data, created_at, updated_at, published_at`

// pageSummaryColumns leaves the content body out of list queries
const pageSummaryColumns = `id, title, slug, '' AS content, excerpt, status, author, categories, tags,
	product_ids, featured_image, seo_data, created_at, updated_at, published_at`

type pageRepository struct {
	db *sql.DB
}

// NewPageRepository creates a new instance of PageRepository
func NewPageRepository(db *sql.DB) PageRepository {
	return &pageRepository{db: db}
}

func scanPage(row rowScanner) (*domain.ContentPage, error) {
	page := &domain.ContentPage{}
	var (
		excerpt       sql.NullString
		featuredImage sql.NullString
		seoData       []byte
		publishedAt   sql.NullTime
		status        string
	)

	err := row.Scan(
		&page.ID,
		&page.Title,
		&page.Slug,
		&page.Content,
		&excerpt,
		&status,
		&page.Author,
		textArray(&page.Categories),
		textArray(&page.Tags),
		textArray(&page.ProductIDs),
		&featuredImage,
		&seoData,
		&page.CreatedAt,
		&page.UpdatedAt,
		&publishedAt,
	)
	if err != nil {
		return nil, err
	}

	page.Status = domain.PageStatus(status)
	if excerpt.Valid {
		page.Excerpt = &excerpt.String
	}
	if featuredImage.Valid {
		page.FeaturedImage = &featuredImage.String
	}
	if publishedAt.Valid {
		page.PublishedAt = &publishedAt.Time
	}
	if len(seoData) > 0 {
		seo := &domain.SEOData{}
		if err := json.Unmarshal(seoData, seo); err != nil {
			return nil, fmt.Errorf("failed to decode seo data: %w", err)
		}
		page.SEOData = seo
	}

	return page, nil
}

func encodeSEO(seo *domain.SEOData) ([]byte, error) {
	if seo == nil {
		return nil, nil
	}
	return json.Marshal(seo)
}

// Create inserts a new page using parameterized queries
func (r *pageRepository) Create(ctx context.Context, page *domain.ContentPage) error {
	seo, err := encodeSEO(page.SEOData)
	if err != nil {
		return fmt.Errorf("failed to encode seo data: %w", err)
	}

	query := `
		INSERT INTO content_pages (` + pageColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err = r.db.ExecContext(
		ctx,
		query,
		page.ID,
		page.Title,
		page.Slug,
		page.Content,
		page.Excerpt,
		string(page.Status),
		page.Author,
		orEmpty(page.Categories),
		orEmpty(page.Tags),
		orEmpty(page.ProductIDs),
		page.FeaturedImage,
		seo,
		page.CreatedAt,
		page.UpdatedAt,
		page.PublishedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrPageSlugTaken
		}
		return fmt.Errorf("failed to create page: %w", err)
	}

	return nil
}

// Update overwrites every mutable column of an existing page
func (r *pageRepository) Update(ctx context.Context, page *domain.ContentPage) error {
	seo, err := encodeSEO(page.SEOData)
	if err != nil {
		return fmt.Errorf("failed to encode seo data: %w", err)
	}

	query := `
		UPDATE content_pages
		SET title = $2, slug = $3, content = $4, excerpt = $5, status = $6, author = $7,
		    categories = $8, tags = $9, product_ids = $10, featured_image = $11, seo_data = $12,
		    updated_at = $13, published_at = $14
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		page.ID,
		page.Title,
		page.Slug,
		page.Content,
		page.Excerpt,
		string(page.Status),
		page.Author,
		orEmpty(page.Categories),
		orEmpty(page.Tags),
		orEmpty(page.ProductIDs),
		page.FeaturedImage,
		seo,
		page.UpdatedAt,
		page.PublishedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrPageSlugTaken
		}
		return fmt.Errorf("failed to update page: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrPageNotFound
	}

	return nil
}

// Delete removes a page
func (r *pageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM content_pages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete page: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrPageNotFound
	}

	return nil
}

func (r *pageRepository) findOne(ctx context.Context, where string, arg interface{}) (*domain.ContentPage, error) {
	query := `SELECT ` + pageColumns + ` FROM content_pages WHERE ` + where

	page, err := scanPage(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPageNotFound
		}
		return nil, fmt.Errorf("failed to find page: %w", err)
	}

	return page, nil
}

// FindByID retrieves a page of any status
func (r *pageRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.ContentPage, error) {
	return r.findOne(ctx, `id = $1`, id)
}

// FindBySlug retrieves a page of any status. Slugs compare byte for byte.
func (r *pageRepository) FindBySlug(ctx context.Context, slug string) (*domain.ContentPage, error) {
	return r.findOne(ctx, `slug = $1`, slug)
}

// FindPublishedBySlug retrieves a page only when it is published
func (r *pageRepository) FindPublishedBySlug(ctx context.Context, slug string) (*domain.ContentPage, error) {
	return r.findOne(ctx, `slug = $1 AND status = 'published'`, slug)
}

func (r *pageRepository) queryPages(ctx context.Context, query string, args ...interface{}) ([]*domain.ContentPage, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	defer rows.Close()

	pages := []*domain.ContentPage{}
	for rows.Next() {
		page, err := scanPage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		pages = append(pages, page)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pages: %w", err)
	}

	return pages, nil
}

// ListPublished returns published pages newest first, without content
func (r *pageRepository) ListPublished(ctx context.Context, limit int) ([]*domain.ContentPage, error) {
	query := `
		SELECT ` + pageSummaryColumns + `
		FROM content_pages
		WHERE status = 'published'
		ORDER BY published_at DESC NULLS LAST, created_at DESC
		LIMIT $1
	`
	return r.queryPages(ctx, query, limit)
}

// List returns pages of any status for the admin listing, without content
func (r *pageRepository) List(ctx context.Context, filter PageFilter) ([]*domain.ContentPage, int, error) {
	var where whereBuilder
	if filter.Status != nil {
		where.add(`status = $%d`, string(*filter.Status))
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM content_pages ` + where.String()
	if err := r.db.QueryRowContext(ctx, countQuery, where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count pages: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM content_pages
		%s
		ORDER BY updated_at DESC
		LIMIT $%d OFFSET $%d
	`, pageSummaryColumns, where.String(), where.next(), where.next()+1)

	args := append(where.args, filter.PageSize, filter.Offset())
	pages, err := r.queryPages(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}

	return pages, total, nil
}

func taxonomyColumn(kind domain.TaxonomyKind) (string, error) {
	switch kind {
	case domain.TaxonomyTags:
		return "tags", nil
	case domain.TaxonomyCategories:
		return "categories", nil
	default:
		return "", fmt.Errorf("unknown taxonomy kind %q", kind)
	}
}

// CountPublishedByTaxonomy groups published pages by each taxonomy id they
// reference. A page listing the same id twice is counted once.
func (r *pageRepository) CountPublishedByTaxonomy(ctx context.Context, kind domain.TaxonomyKind) (map[string]int, error) {
	column, err := taxonomyColumn(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT ref, COUNT(DISTINCT p.id)
		FROM content_pages p
		CROSS JOIN LATERAL unnest(p.%s) AS ref
		WHERE p.status = 'published'
		GROUP BY ref
	`, column)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count pages by %s: %w", column, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			ref   string
			count int
		)
		if err := rows.Scan(&ref, &count); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[ref] = count
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating counts: %w", err)
	}

	return counts, nil
}

// CountReferences counts pages of any status that reference id
func (r *pageRepository) CountReferences(ctx context.Context, kind domain.TaxonomyKind, id string) (int, error) {
	column, err := taxonomyColumn(kind)
	if err != nil {
		return 0, err
	}

	var count int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM content_pages WHERE $1 = ANY(%s)`, column)
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count page references: %w", err)
	}

	return count, nil
}
