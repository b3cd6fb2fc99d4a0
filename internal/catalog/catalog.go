// Package catalog defines the product catalog and loads seed data into it.
//
// Seed files are YAML, validated against an embedded CUE schema before
// anything is decoded: malformed catalogs fail loudly at load time with
// position-annotated errors instead of surfacing later as odd store rows.
package catalog

import "fmt"

// Product is one sellable item. Price is integer cents; no floats enter
// the store. Color and Storage are optional attributes: the empty string
// and zero mean "not applicable" (a speaker has no storage tier).
type Product struct {
	ID       string
	Name     string
	Slug     string
	Price    int64
	Category string
	Color    string
	Storage  int64 // gigabytes
}

// Image is one product photo. At most one per product is primary.
type Image struct {
	ID        string
	ProductID string
	URL       string
	Primary   bool
}

// Seed is the decoded form of a catalog seed file.
type Seed struct {
	Products []SeedProduct `yaml:"products"`
}

// SeedProduct mirrors one products entry in the seed YAML.
type SeedProduct struct {
	ID       string      `yaml:"id"`
	Name     string      `yaml:"name"`
	Slug     string      `yaml:"slug"`
	Price    int64       `yaml:"price"`
	Category string      `yaml:"category"`
	Color    string      `yaml:"color"`
	Storage  int64       `yaml:"storage"`
	Images   []SeedImage `yaml:"images"`
}

// SeedImage mirrors one image entry in the seed YAML.
type SeedImage struct {
	URL     string `yaml:"url"`
	Primary bool   `yaml:"primary"`
}

// Flatten converts the seed into store-ready rows. Image IDs are derived
// from the product ID and position so re-seeding the same file is
// idempotent.
func (s Seed) Flatten() ([]Product, []Image) {
	products := make([]Product, 0, len(s.Products))
	var images []Image

	for _, sp := range s.Products {
		products = append(products, Product{
			ID:       sp.ID,
			Name:     sp.Name,
			Slug:     sp.Slug,
			Price:    sp.Price,
			Category: sp.Category,
			Color:    sp.Color,
			Storage:  sp.Storage,
		})
		for i, img := range sp.Images {
			images = append(images, Image{
				ID:        fmt.Sprintf("%s-img-%d", sp.ID, i),
				ProductID: sp.ID,
				URL:       img.URL,
				Primary:   img.Primary,
			})
		}
	}

	return products, images
}
