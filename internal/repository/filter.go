package repository

import (
	"oohunt/internal/domain"

	"github.com/google/uuid"
)

// Pagination is a 1-based page of pageSize items
type Pagination struct {
	Page     int
	PageSize int
}

// Offset returns the number of rows to skip
func (p Pagination) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// parentKind enumerates the three states of a category parent filter
type parentKind int

const (
	parentAny parentKind = iota
	parentRoot
	parentID
)

// ParentFilter restricts categories by parent. The zero value matches any
// parent.
type ParentFilter struct {
	kind parentKind
	id   uuid.UUID
}

// AnyParent matches every category
func AnyParent() ParentFilter {
	return ParentFilter{kind: parentAny}
}

// RootOnly matches categories without a parent
func RootOnly() ParentFilter {
	return ParentFilter{kind: parentRoot}
}

// ChildrenOf matches categories whose parent is id
func ChildrenOf(id uuid.UUID) ParentFilter {
	return ParentFilter{kind: parentID, id: id}
}

// IsRoot reports whether the filter selects top-level categories
func (f ParentFilter) IsRoot() bool {
	return f.kind == parentRoot
}

// ID returns the parent id and whether the filter selects a specific parent
func (f ParentFilter) ID() (uuid.UUID, bool) {
	return f.id, f.kind == parentID
}

// CategoryFilter selects categories for listing
type CategoryFilter struct {
	Search string
	Parent ParentFilter
	Pagination
}

// TagFilter selects tags for listing
type TagFilter struct {
	Search string
}

// PageFilter selects pages for the admin listing
type PageFilter struct {
	Status *domain.PageStatus
	Pagination
}
