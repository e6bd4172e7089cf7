package domain

import (
	"time"

	"github.com/google/uuid"
)

// PageStatus is the publication state of a content page
type PageStatus string

const (
	PageStatusDraft     PageStatus = "draft"
	PageStatusPublished PageStatus = "published"
	PageStatusArchived  PageStatus = "archived"
)

// Valid reports whether s is one of the known statuses
func (s PageStatus) Valid() bool {
	switch s {
	case PageStatusDraft, PageStatusPublished, PageStatusArchived:
		return true
	}
	return false
}

// SEOData holds optional search-engine metadata of a page
type SEOData struct {
	MetaTitle       string `json:"metaTitle,omitempty"`
	MetaDescription string `json:"metaDescription,omitempty"`
	CanonicalURL    string `json:"canonicalUrl,omitempty"`
	OGImage         string `json:"ogImage,omitempty"`
}

// ContentPage is a CMS article
type ContentPage struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Content       string     `json:"content"`
	Excerpt       *string    `json:"excerpt,omitempty"`
	Status        PageStatus `json:"status"`
	Author        string     `json:"author"`
	Categories    []string   `json:"categories"`
	Tags          []string   `json:"tags"`
	ProductIDs    []string   `json:"productIds"`
	FeaturedImage *string    `json:"featuredImage,omitempty"`
	SEOData       *SEOData   `json:"seoData,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	PublishedAt   *time.Time `json:"publishedAt,omitempty"`
}

// SetStatus changes the status and stamps PublishedAt on the first
// transition into published. PublishedAt is never cleared.
func (p *ContentPage) SetStatus(status PageStatus, now time.Time) {
	p.Status = status
	if status == PageStatusPublished && p.PublishedAt == nil {
		published := now
		p.PublishedAt = &published
	}
}

// Summary projects the page to its list-display fields
func (p *ContentPage) Summary() PageSummary {
	s := PageSummary{
		ID:            p.ID,
		Title:         p.Title,
		Slug:          p.Slug,
		Excerpt:       p.Excerpt,
		Status:        p.Status,
		Author:        p.Author,
		Categories:    p.Categories,
		Tags:          p.Tags,
		FeaturedImage: p.FeaturedImage,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		PublishedAt:   p.PublishedAt,
	}
	if p.SEOData != nil && p.SEOData.OGImage != "" {
		og := p.SEOData.OGImage
		s.OGImage = &og
	}
	return s
}

// PageSummary is the list projection of a page. It deliberately has no
// content field.
type PageSummary struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Excerpt       *string    `json:"excerpt,omitempty"`
	Status        PageStatus `json:"status"`
	Author        string     `json:"author"`
	Categories    []string   `json:"categories"`
	Tags          []string   `json:"tags"`
	FeaturedImage *string    `json:"featuredImage,omitempty"`
	OGImage       *string    `json:"ogImage,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	PublishedAt   *time.Time `json:"publishedAt,omitempty"`
}

// ResolvedPage is a page together with its embedded product references
type ResolvedPage struct {
	*ContentPage
	Products []ProductReference `json:"products,omitempty"`
}
