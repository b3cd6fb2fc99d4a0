// Package filter turns a product filter state into a backing-store query
// description and an exactly-corresponding human-readable trace string.
//
// Both representations come out of one Compile call over one value, in one
// fixed clause order, so the query the trace displays is always the query
// the store executes. Compile is pure; emission into the trace log is a
// separate step (Compiled.Emit).
package filter

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// State is the complete snapshot of user-selected search, sort, and filter
// criteria. It is a value type: presentation code replaces the whole state
// on every change rather than mutating fields in place.
type State struct {
	Search     string
	Category   string // "All" means no constraint
	SortBy     string // one of the sortOrders keys; unknown falls back to name-asc
	PriceRange string // carried for presentation parity; compiles to no clause
	Colors     []string
	Storage    []string // display units, e.g. "512GB", "1TB"
}

// DefaultState returns the unconstrained filter state.
func DefaultState() State {
	return State{
		Category:   CategoryAll,
		SortBy:     SortNameAsc,
		PriceRange: "all",
	}
}

// CategoryAll is the category value meaning "no category constraint".
const CategoryAll = "All"

// Sort keys understood by the compiler.
const (
	SortNameAsc   = "name-asc"
	SortNameDesc  = "name-desc"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
)

// Catalog option sets offered by the storefront UI. The CLI uses them for
// flag validation and the catalog schema constrains seed data to them.
var (
	Categories     = []string{CategoryAll, "Smartphones", "Laptops", "Tablets", "Audio", "Wearables", "Desktops"}
	Colors         = []string{"Silver", "Space Black", "Natural Titanium", "Pink", "White", "Midnight", "Titanium"}
	StorageOptions = []string{"128GB", "256GB", "512GB", "1TB"}
)

type sortOrder struct {
	field      string
	descending bool
}

// sortOrders is the fixed lookup from sort key to (field, direction).
// Exactly one sort clause is ever emitted; unknown keys resolve to the
// name-asc entry.
var sortOrders = map[string]sortOrder{
	SortNameAsc:   {field: "name"},
	SortNameDesc:  {field: "name", descending: true},
	SortPriceAsc:  {field: "price"},
	SortPriceDesc: {field: "price", descending: true},
}

// resolveSort maps a sort key to its (field, direction) pair, falling back
// to name ascending for anything unrecognized.
func resolveSort(key string) sortOrder {
	if o, ok := sortOrders[key]; ok {
		return o
	}
	return sortOrders[SortNameAsc]
}

// NormalizeStorage converts a display storage unit to its numeric value in
// gigabytes: "512GB" yields 512, "1TB" yields 1000 (TB is x1000 relative
// to GB). The second return is false for tokens with an unrecognized
// suffix or a non-numeric prefix; callers skip those.
func NormalizeStorage(s string) (int64, bool) {
	var multiplier int64
	var prefix string
	switch {
	case strings.HasSuffix(s, "TB"):
		multiplier = 1000
		prefix = strings.TrimSuffix(s, "TB")
	case strings.HasSuffix(s, "GB"):
		multiplier = 1
		prefix = strings.TrimSuffix(s, "GB")
	default:
		return 0, false
	}

	n, err := strconv.ParseInt(prefix, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n * multiplier, true
}

// normalizeSearch puts user search input into NFC so the trace text and
// the issued predicate agree on one representation of the same characters.
func normalizeSearch(s string) string {
	return norm.NFC.String(s)
}
