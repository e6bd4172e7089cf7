package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category classifies content pages. ParentID allows one level of nesting
// per reference; cycles are not prevented.
type Category struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description,omitempty"`
	ParentID    *uuid.UUID `json:"parentId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	// PostCount is computed at read time and never stored
	PostCount int `json:"postCount"`
}

// Tag is a flat label on content pages
type Tag struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// PostCount is computed at read time and never stored
	PostCount int `json:"postCount"`
}

// TaxonomyKind selects which page array a count refers to
type TaxonomyKind string

const (
	TaxonomyTags       TaxonomyKind = "tags"
	TaxonomyCategories TaxonomyKind = "categories"
)
