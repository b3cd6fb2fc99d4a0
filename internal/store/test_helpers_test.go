package store

import (
	"context"
	"testing"

	"github.com/roach88/vitrine/internal/catalog"
)

// testProducts is a small fixed catalog covering every filterable
// attribute. Prices are integer cents.
var testProducts = []catalog.Product{
	{ID: "p-phone", Name: "Aurora 15 Pro", Slug: "aurora-15-pro", Price: 99900, Category: "Smartphones", Color: "Natural Titanium", Storage: 256},
	{ID: "p-phone-mini", Name: "Aurora 15 Mini", Slug: "aurora-15-mini", Price: 69900, Category: "Smartphones", Color: "Pink", Storage: 128},
	{ID: "p-laptop", Name: "Polaris Air", Slug: "polaris-air", Price: 129900, Category: "Laptops", Color: "Silver", Storage: 512},
	{ID: "p-laptop-pro", Name: "Polaris Pro", Slug: "polaris-pro", Price: 249900, Category: "Laptops", Color: "Space Black", Storage: 1000},
	{ID: "p-buds", Name: "Halo Buds", Slug: "halo-buds", Price: 19900, Category: "Audio", Color: "White"},
}

var testImages = []catalog.Image{
	{ID: "p-phone-img-0", ProductID: "p-phone", URL: "https://img.example.com/aurora-front.jpg", Primary: true},
	{ID: "p-phone-img-1", ProductID: "p-phone", URL: "https://img.example.com/aurora-back.jpg"},
	{ID: "p-laptop-img-0", ProductID: "p-laptop", URL: "https://img.example.com/polaris.jpg", Primary: true},
}

// newSeededStore opens an in-memory store loaded with the test catalog.
func newSeededStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	ctx := context.Background()
	for _, p := range testProducts {
		if err := s.InsertProduct(ctx, p); err != nil {
			t.Fatalf("InsertProduct(%s) failed: %v", p.ID, err)
		}
	}
	for _, img := range testImages {
		if err := s.InsertImage(ctx, img); err != nil {
			t.Fatalf("InsertImage(%s) failed: %v", img.ID, err)
		}
	}

	return s
}
