// Package query provides an abstract description of a backing-store query.
//
// A Query is the abstraction boundary between the filter compiler and the
// storage backend. The filter compiler produces a Query alongside its
// human-readable trace text; the querysql package turns the same Query into
// executable SQL. Because both representations are derived from one value,
// the displayed trace and the issued query cannot drift apart.
//
// SEALED INTERFACES:
//
// Predicate and Value are sealed interfaces using the marker method pattern.
// Only types in this package implement them, which lets backend compilers
// type-switch exhaustively without a default escape hatch.
//
// The supported fragment is deliberately small:
//   - Equals(field, value)        - equality against a literal
//   - Contains(field, substring)  - case-insensitive substring match
//   - In(field, values)           - set membership
//   - exactly one Sort per query
//
// Excluded on purpose: OR predicates, joins, aggregations, subqueries. The
// storefront's filter surface never needs them, and a small fragment keeps
// the trace text trivially aligned with the description.
package query
