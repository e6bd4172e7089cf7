// Package favorites stores saved products per owner. Anonymous browsers are
// identified by an x-client-id header, signed-in users by their session id.
package favorites

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"oohunt/internal/domain"
)

// Store is the favorites capability shared by every owner kind
type Store interface {
	// Add saves productID for owner; adding twice keeps one favorite
	Add(ctx context.Context, owner, productID string) error
	// Remove deletes productID for owner; removing a missing one is a no-op
	Remove(ctx context.Context, owner, productID string) error
	// List returns the owner's favorites, most recently updated first
	List(ctx context.Context, owner string) ([]*domain.Favorite, error)
	// Sync replaces every favorite of owner with productIDs
	Sync(ctx context.Context, owner string, productIDs []string) error
}

// Stores selects the implementation for an owner kind
type Stores struct {
	Anonymous Store
	User      Store
}

// For returns the store serving kind
func (s Stores) For(kind domain.OwnerKind) (Store, error) {
	switch kind {
	case domain.OwnerAnonymous:
		return s.Anonymous, nil
	case domain.OwnerUser:
		return s.User, nil
	default:
		return nil, fmt.Errorf("unknown owner kind %d", kind)
	}
}

// ClientIDValidator checks anonymous client ids: the configured prefix
// followed by 1 to 64 characters of [A-Za-z0-9_-]
type ClientIDValidator struct {
	pattern *regexp.Regexp
}

// NewClientIDValidator builds a validator for prefix
func NewClientIDValidator(prefix string) *ClientIDValidator {
	return &ClientIDValidator{
		pattern: regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `[A-Za-z0-9_-]{1,64}$`),
	}
}

// Valid reports whether id is an acceptable client id
func (v *ClientIDValidator) Valid(id string) bool {
	return v.pattern.MatchString(id)
}

// NormalizeIDs trims ids and drops empty and repeated ones, keeping the
// first occurrence order
func NormalizeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func requireProductID(productID string) (string, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return "", domain.NewValidationError("productId is required")
	}
	return productID, nil
}
