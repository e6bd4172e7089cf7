package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"oohunt/internal/domain"
)

// FavoriteRepository defines the interface for authenticated user favorites
type FavoriteRepository interface {
	Upsert(ctx context.Context, userID, productID string, now time.Time) error
	Delete(ctx context.Context, userID, productID string) error
	ListByUser(ctx context.Context, userID string) ([]*domain.Favorite, error)
	ReplaceAll(ctx context.Context, userID string, productIDs []string, now time.Time) error
}

type favoriteRepository struct {
	db *sql.DB
}

// NewFavoriteRepository creates a new instance of FavoriteRepository
func NewFavoriteRepository(db *sql.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

// Upsert saves a favorite, refreshing updated_at when it already exists
func (r *favoriteRepository) Upsert(ctx context.Context, userID, productID string, now time.Time) error {
	query := `
		INSERT INTO user_favorites (user_id, product_id, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (user_id, product_id) DO UPDATE SET updated_at = EXCLUDED.updated_at
	`

	if _, err := r.db.ExecContext(ctx, query, userID, productID, now); err != nil {
		return fmt.Errorf("failed to upsert favorite: %w", err)
	}
	return nil
}

// Delete removes a favorite. Deleting a missing favorite is not an error.
func (r *favoriteRepository) Delete(ctx context.Context, userID, productID string) error {
	query := `DELETE FROM user_favorites WHERE user_id = $1 AND product_id = $2`

	if _, err := r.db.ExecContext(ctx, query, userID, productID); err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}
	return nil
}

// ListByUser returns the favorites of a user, most recent first
func (r *favoriteRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Favorite, error) {
	query := `
		SELECT user_id, product_id, created_at, updated_at
		FROM user_favorites
		WHERE user_id = $1
		ORDER BY updated_at DESC, product_id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer rows.Close()

	favorites := []*domain.Favorite{}
	for rows.Next() {
		favorite := &domain.Favorite{}
		if err := rows.Scan(&favorite.OwnerID, &favorite.ProductID, &favorite.CreatedAt, &favorite.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		favorites = append(favorites, favorite)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating favorites: %w", err)
	}

	return favorites, nil
}

// ReplaceAll deletes every favorite of the user and inserts productIDs in
// one transaction. productIDs must already be de-duplicated.
func (r *favoriteRepository) ReplaceAll(ctx context.Context, userID string, productIDs []string, now time.Time) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM user_favorites WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to clear favorites: %w", err)
	}

	if len(productIDs) > 0 {
		query := `
			INSERT INTO user_favorites (user_id, product_id, created_at, updated_at)
			SELECT $1, product_id, $3, $3
			FROM unnest($2::text[]) AS product_id
		`
		if _, err = tx.ExecContext(ctx, query, userID, productIDs, now); err != nil {
			return fmt.Errorf("failed to insert favorites: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit favorites: %w", err)
	}

	return nil
}
