package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestProductReferenceImageFallback(t *testing.T) {
	tests := []struct {
		name    string
		product Product
		want    string
	}{
		{"explicit image wins", Product{Image: "a.png", PrimaryImage: "b.png", Images: []string{"c.png"}}, "a.png"},
		{"primary image next", Product{PrimaryImage: "b.png", Images: []string{"c.png"}}, "b.png"},
		{"first of images", Product{Images: []string{"c.png", "d.png"}}, "c.png"},
		{"no image", Product{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.product.ID = uuid.New()
			ref := tt.product.Reference()
			if tt.want == "" {
				if ref.Image != nil {
					t.Fatalf("expected nil image, got %q", *ref.Image)
				}
				return
			}
			if ref.Image == nil || *ref.Image != tt.want {
				t.Fatalf("expected image %q, got %v", tt.want, ref.Image)
			}
		})
	}
}

func TestProductReferenceDefaultsAndURL(t *testing.T) {
	id := uuid.New()
	ref := (&Product{ID: id, Title: "Kettle"}).Reference()

	if ref.Price != 0 || ref.Rating != 0 {
		t.Errorf("expected zero price and rating, got %v %v", ref.Price, ref.Rating)
	}
	if ref.URL != "/product/"+id.String() {
		t.Errorf("expected id url, got %s", ref.URL)
	}

	price, rating := 19.99, 4.5
	ref = (&Product{ID: id, Slug: "kettle", Price: &price, Rating: &rating}).Reference()
	if ref.URL != "/product/kettle" {
		t.Errorf("expected slug url, got %s", ref.URL)
	}
	if ref.Price != price || ref.Rating != rating {
		t.Errorf("expected price %v rating %v, got %v %v", price, rating, ref.Price, ref.Rating)
	}
}
