package domain

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestProperty_PublishedAtIsSetExactlyOnce(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("publishedAt is stamped at the first publish and never moves", prop.ForAll(
		func(transitions []string) bool {
			page := &ContentPage{Status: PageStatusDraft}
			start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

			var firstPublish *time.Time
			for i, s := range transitions {
				now := start.Add(time.Duration(i) * time.Hour)
				page.SetStatus(PageStatus(s), now)

				if PageStatus(s) == PageStatusPublished && firstPublish == nil {
					firstPublish = &now
				}

				if firstPublish == nil {
					if page.PublishedAt != nil {
						t.Logf("FAIL: publishedAt set before any publish")
						return false
					}
					continue
				}
				if page.PublishedAt == nil || !page.PublishedAt.Equal(*firstPublish) {
					t.Logf("FAIL: publishedAt changed after first publish")
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.OneConstOf("draft", "published", "archived")),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestPageStatusValid(t *testing.T) {
	for _, s := range []PageStatus{PageStatusDraft, PageStatusPublished, PageStatusArchived} {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	for _, s := range []PageStatus{"", "Published", "deleted"} {
		if s.Valid() {
			t.Errorf("%q should be invalid", s)
		}
	}
}

func TestSummaryCarriesOGImage(t *testing.T) {
	page := &ContentPage{
		Title:   "Deals",
		Slug:    "deals",
		Content: "<p>long body</p>",
		SEOData: &SEOData{OGImage: "https://cdn.example.com/og.png"},
	}

	summary := page.Summary()
	if summary.OGImage == nil || *summary.OGImage != "https://cdn.example.com/og.png" {
		t.Fatalf("expected og image in summary, got %v", summary.OGImage)
	}
	if summary.Slug != "deals" || summary.Title != "Deals" {
		t.Errorf("summary fields not copied: %+v", summary)
	}
}
