package favorites

import (
	"context"
	"strings"
	"time"

	"oohunt/internal/domain"
	"oohunt/internal/repository"
)

// DBStore keeps signed-in users' favorites in the user_favorites table
type DBStore struct {
	repo repository.FavoriteRepository
	now  func() time.Time
}

// NewDBStore creates a DBStore on repo
func NewDBStore(repo repository.FavoriteRepository) *DBStore {
	return &DBStore{repo: repo, now: time.Now}
}

func requireOwner(owner string) error {
	if strings.TrimSpace(owner) == "" {
		return domain.NewUnauthorizedError("authentication required")
	}
	return nil
}

// Add implements Store
func (s *DBStore) Add(ctx context.Context, owner, productID string) error {
	if err := requireOwner(owner); err != nil {
		return err
	}
	productID, err := requireProductID(productID)
	if err != nil {
		return err
	}
	if err := s.repo.Upsert(ctx, owner, productID, s.now().UTC()); err != nil {
		return domain.NewInternalError("failed to save favorite", err)
	}
	return nil
}

// Remove implements Store
func (s *DBStore) Remove(ctx context.Context, owner, productID string) error {
	if err := requireOwner(owner); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, owner, strings.TrimSpace(productID)); err != nil {
		return domain.NewInternalError("failed to remove favorite", err)
	}
	return nil
}

// List implements Store
func (s *DBStore) List(ctx context.Context, owner string) ([]*domain.Favorite, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	favorites, err := s.repo.ListByUser(ctx, owner)
	if err != nil {
		return nil, domain.NewInternalError("failed to list favorites", err)
	}
	return favorites, nil
}

// Sync implements Store
func (s *DBStore) Sync(ctx context.Context, owner string, productIDs []string) error {
	if err := requireOwner(owner); err != nil {
		return err
	}
	if err := s.repo.ReplaceAll(ctx, owner, NormalizeIDs(productIDs), s.now().UTC()); err != nil {
		return domain.NewInternalError("failed to sync favorites", err)
	}
	return nil
}
