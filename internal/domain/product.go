package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProductStatus is the visibility of a catalog product
type ProductStatus string

const (
	ProductStatusPublished ProductStatus = "published"
	ProductStatusDraft     ProductStatus = "draft"
)

// Product represents a product in the local catalog mirror
type Product struct {
	ID           uuid.UUID     `json:"id"`
	Slug         string        `json:"slug,omitempty"`
	Title        string        `json:"title"`
	Price        *float64      `json:"price,omitempty"`
	Image        string        `json:"image,omitempty"`
	PrimaryImage string        `json:"primaryImage,omitempty"`
	Images       []string      `json:"images,omitempty"`
	Rating       *float64      `json:"rating,omitempty"`
	Status       ProductStatus `json:"status"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// ProductReference is the display-only projection embedded into content
type ProductReference struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Price  float64 `json:"price"`
	Image  *string `json:"image"`
	Rating float64 `json:"rating"`
	URL    string  `json:"url"`
}

// Reference projects the product for embedding.
// Image falls back from image to primaryImage to the first of images.
func (p *Product) Reference() ProductReference {
	ref := ProductReference{
		ID:    p.ID.String(),
		Title: p.Title,
		URL:   "/product/" + p.ID.String(),
	}
	if p.Slug != "" {
		ref.URL = "/product/" + p.Slug
	}
	if p.Price != nil {
		ref.Price = *p.Price
	}
	if p.Rating != nil {
		ref.Rating = *p.Rating
	}

	var image string
	switch {
	case p.Image != "":
		image = p.Image
	case p.PrimaryImage != "":
		image = p.PrimaryImage
	case len(p.Images) > 0:
		image = p.Images[0]
	}
	if image != "" {
		ref.Image = &image
	}

	return ref
}
