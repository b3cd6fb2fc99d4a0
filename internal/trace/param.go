package trace

import (
	"sort"
	"strconv"
	"strings"
)

// Param is a sealed interface for trace entry parameters.
// Only StringParam, IntParam, and IdentParam implement it.
//
// Keeping the variant closed means placeholder substitution is exhaustive:
// every parameter renders one known way, and a parameter kind that cannot
// be rendered cannot be constructed.
//
// Rendered values are bare. Query templates carry their own quoting
// ("category = '<category>'"), so a quoted rendering would double up.
type Param interface {
	paramNode() // Marker method - seals interface to this package
	render() string
}

// StringParam is raw user input. Embedded single quotes are doubled on
// render so the substituted text stays inside the template's quoting.
type StringParam string

func (StringParam) paramNode() {}

func (p StringParam) render() string {
	return strings.ReplaceAll(string(p), "'", "''")
}

// IntParam is an integer rendered bare.
type IntParam int64

func (IntParam) paramNode() {}

func (p IntParam) render() string {
	return strconv.FormatInt(int64(p), 10)
}

// IdentParam is an opaque system-generated identifier (cart id, product id,
// session token). Identifiers get their own kind so readers of the log can
// tell user input apart from references; they render verbatim.
type IdentParam string

func (IdentParam) paramNode() {}

func (p IdentParam) render() string {
	return string(p)
}

// Params is a convenience alias for a trace parameter mapping.
type Params = map[string]Param

// FormatQuery substitutes every <name> placeholder in queryText with the
// rendered value of the matching parameter. Placeholders without a matching
// parameter are left as-is. Parameters without a placeholder are ignored.
//
// Substitution order is by sorted parameter name, so formatting is
// deterministic regardless of map iteration order.
func FormatQuery(queryText string, params Params) string {
	if len(params) == 0 {
		return queryText
	}

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	formatted := queryText
	for _, name := range names {
		formatted = strings.ReplaceAll(formatted, "<"+name+">", params[name].render())
	}
	return formatted
}
