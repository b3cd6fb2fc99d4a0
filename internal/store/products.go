package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/roach88/vitrine/internal/catalog"
	"github.com/roach88/vitrine/internal/query"
	"github.com/roach88/vitrine/internal/querysql"
)

// InsertProduct upserts a catalog product by ID. Re-seeding the same
// catalog is idempotent.
func (s *Store) InsertProduct(ctx context.Context, p catalog.Product) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (id, name, slug, price, category, color, storage)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			slug = excluded.slug,
			price = excluded.price,
			category = excluded.category,
			color = excluded.color,
			storage = excluded.storage
	`,
		p.ID,
		p.Name,
		p.Slug,
		p.Price,
		p.Category,
		nullString(p.Color),
		nullInt(p.Storage),
	)
	if err != nil {
		return fmt.Errorf("insert product %s: %w", p.ID, err)
	}
	return nil
}

// InsertImage upserts a product image by ID.
func (s *Store) InsertImage(ctx context.Context, img catalog.Image) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO product_images (id, product_id, url, is_primary)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			product_id = excluded.product_id,
			url = excluded.url,
			is_primary = excluded.is_primary
	`,
		img.ID,
		img.ProductID,
		img.URL,
		img.Primary,
	)
	if err != nil {
		return fmt.Errorf("insert image %s: %w", img.ID, err)
	}
	return nil
}

// SearchProducts executes a query description against the products
// collection. The description comes from the filter compiler, so the rows
// returned here are exactly the rows the emitted trace text describes.
func (s *Store) SearchProducts(ctx context.Context, q query.Query) ([]catalog.Product, error) {
	stmt, params, err := querysql.Compile(q)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, stmt, params...)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	defer rows.Close()

	var products []catalog.Product
	for rows.Next() {
		var p catalog.Product
		var color sql.NullString
		var storage sql.NullInt64
		if err := rows.Scan(&p.ID, &p.Name, &p.Slug, &p.Price, &p.Category, &color, &storage); err != nil {
			return nil, fmt.Errorf("search products: scan: %w", err)
		}
		p.Color = color.String
		p.Storage = storage.Int64
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}

	return products, nil
}

// PrimaryImages returns the primary image URL per product ID. Products
// without a primary image are absent from the map.
func (s *Store) PrimaryImages(ctx context.Context, productIDs []string) (map[string]string, error) {
	if len(productIDs) == 0 {
		return map[string]string{}, nil
	}

	placeholders := make([]string, len(productIDs))
	args := make([]any, len(productIDs))
	for i, id := range productIDs {
		placeholders[i] = "?"
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT product_id, url
		FROM product_images
		WHERE product_id IN (%s) AND is_primary = 1
	`, strings.Join(placeholders, ", ")), args...)
	if err != nil {
		return nil, fmt.Errorf("primary images: %w", err)
	}
	defer rows.Close()

	urls := make(map[string]string, len(productIDs))
	for rows.Next() {
		var productID, url string
		if err := rows.Scan(&productID, &url); err != nil {
			return nil, fmt.Errorf("primary images: scan: %w", err)
		}
		urls[productID] = url
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("primary images: %w", err)
	}

	return urls, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(n int64) any {
	if n == 0 {
		return nil
	}
	return n
}
