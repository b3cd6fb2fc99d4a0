package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Cart is one session's cart row.
type Cart struct {
	ID        string
	SessionID string
}

// ProductSnapshot is the product data carried on a cart line for display.
// ImageURL is the primary image, empty if the product has none.
type ProductSnapshot struct {
	ProductID string
	Name      string
	Slug      string
	Price     int64 // integer cents
	ImageURL  string
}

// CartLine is one (cart, product) row with its product snapshot.
type CartLine struct {
	ID        string
	CartID    string
	ProductID string
	Quantity  int64
	Product   ProductSnapshot
}

// FindCartBySession looks up the cart for a session identity.
func (s *Store) FindCartBySession(ctx context.Context, sessionID string) (Cart, bool, error) {
	var cart Cart
	err := s.db.QueryRowContext(ctx, `
		SELECT id, session_id FROM carts WHERE session_id = ?
	`, sessionID).Scan(&cart.ID, &cart.SessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return Cart{}, false, nil
	}
	if err != nil {
		return Cart{}, false, fmt.Errorf("find cart for session: %w", err)
	}
	return cart, true, nil
}

// CreateCart inserts a cart for the session and returns the session's
// cart row. UNIQUE(session_id) makes this a find-or-create step: when a
// concurrent creator got there first the insert is a no-op and the
// re-read returns the winner's cart.
func (s *Store) CreateCart(ctx context.Context, id, sessionID string) (Cart, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO carts (id, session_id) VALUES (?, ?)
		ON CONFLICT(session_id) DO NOTHING
	`, id, sessionID)
	if err != nil {
		return Cart{}, fmt.Errorf("create cart: %w", err)
	}

	cart, found, err := s.FindCartBySession(ctx, sessionID)
	if err != nil {
		return Cart{}, fmt.Errorf("create cart: %w", err)
	}
	if !found {
		return Cart{}, fmt.Errorf("create cart: cart for session vanished after insert")
	}
	return cart, nil
}

// UpsertCartLine adds one unit of a product to a cart. A new line starts
// at quantity 1; an existing (cart, product) line is merged by
// incrementing its quantity (the lineID is then unused).
func (s *Store) UpsertCartLine(ctx context.Context, lineID, cartID, productID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cart_lines (id, cart_id, product_id, quantity)
		VALUES (?, ?, ?, 1)
		ON CONFLICT(cart_id, product_id)
		DO UPDATE SET quantity = quantity + 1
	`, lineID, cartID, productID)
	if err != nil {
		return fmt.Errorf("upsert cart line: %w", err)
	}
	return nil
}

// SetCartLineQuantity sets an existing line's quantity. Callers must pass
// quantity >= 1; removal is DeleteCartLine's job. An unknown line ID
// affects zero rows and is not an error.
func (s *Store) SetCartLineQuantity(ctx context.Context, lineID string, quantity int64) error {
	if quantity < 1 {
		return fmt.Errorf("set cart line quantity: quantity %d < 1", quantity)
	}
	_, err := s.db.ExecContext(ctx, `
		UPDATE cart_lines SET quantity = ? WHERE id = ?
	`, quantity, lineID)
	if err != nil {
		return fmt.Errorf("set cart line quantity: %w", err)
	}
	return nil
}

// DeleteCartLine removes a line. An unknown line ID affects zero rows and
// is not an error.
func (s *Store) DeleteCartLine(ctx context.Context, lineID string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM cart_lines WHERE id = ?
	`, lineID)
	if err != nil {
		return fmt.Errorf("delete cart line: %w", err)
	}
	return nil
}

// CartLines loads a cart's lines joined with their product snapshots and
// primary images, in deterministic line-ID order.
func (s *Store) CartLines(ctx context.Context, cartID string) ([]CartLine, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT cl.id, cl.cart_id, cl.product_id, cl.quantity, p.name, p.slug, p.price
		FROM cart_lines cl
		JOIN products p ON p.id = cl.product_id
		WHERE cl.cart_id = ?
		ORDER BY cl.id ASC
	`, cartID)
	if err != nil {
		return nil, fmt.Errorf("load cart lines: %w", err)
	}
	defer rows.Close()

	var lines []CartLine
	var productIDs []string
	for rows.Next() {
		var line CartLine
		if err := rows.Scan(&line.ID, &line.CartID, &line.ProductID, &line.Quantity,
			&line.Product.Name, &line.Product.Slug, &line.Product.Price); err != nil {
			return nil, fmt.Errorf("load cart lines: scan: %w", err)
		}
		line.Product.ProductID = line.ProductID
		lines = append(lines, line)
		productIDs = append(productIDs, line.ProductID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load cart lines: %w", err)
	}

	urls, err := s.PrimaryImages(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("load cart lines: %w", err)
	}
	for i := range lines {
		lines[i].Product.ImageURL = urls[lines[i].ProductID]
	}

	return lines, nil
}
