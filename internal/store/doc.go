// Package store provides the SQLite store of record for the storefront.
//
// Collections:
//   - products: the catalog, queried through query descriptions
//   - product_images: product photos, at most one primary per product
//   - carts: one row per session identity (UNIQUE session_id)
//   - cart_lines: one row per (cart, product) pair
//
// # Constraints the cart manager relies on
//
// Two invariants live here, not in the client:
//
//   - UNIQUE(session_id) on carts: racing find-or-create initializations
//     converge on one cart. CreateCart inserts with ON CONFLICT DO NOTHING
//     and re-reads, so a concurrent creator's cart wins gracefully.
//   - UNIQUE(cart_id, product_id) on cart_lines with merge-on-conflict
//     upsert: adding an already-carted product increments its quantity
//     instead of duplicating the line, regardless of interleaving.
//
// quantity >= 1 is a schema CHECK; a line never persists at zero.
//
// # Database configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce referential integrity
package store
