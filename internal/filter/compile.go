package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/vitrine/internal/query"
	"github.com/roach88/vitrine/internal/trace"
)

// ActionLabel is the trace action emitted for every compiled filter state.
const ActionLabel = "Filter and Sort Products"

// Compiled is the twin output of compiling one filter state: the query
// description the store executes and the trace text that displays it.
// The two are built clause-for-clause in the same pass; neither ever
// contains a constraint the other lacks.
type Compiled struct {
	Query     query.Query
	TraceText string
	Params    trace.Params
}

// Emit records the compiled query in the trace log. A disabled log drops
// the entry silently.
func (c Compiled) Emit(log *trace.Log) {
	log.LogAction(ActionLabel, c.TraceText, c.Params)
}

// Compile translates a filter state into a Compiled value.
//
// Clause order is a contract: base, search, category, colors, storage,
// sort - regardless of which fields are set. Storage values are
// normalized to numeric gigabytes and inlined in the trace text (they
// are derived values, not raw user input, so they are not parameters).
// Unrecognized storage tokens are skipped. An unknown sort key falls
// back to name ascending.
func Compile(f State) Compiled {
	q := query.Query{Collection: "products"}
	lines := []string{"SELECT * FROM products WHERE 1=1"}
	params := trace.Params{}

	if f.Search != "" {
		search := normalizeSearch(f.Search)
		q.Where = append(q.Where, query.Contains{Field: "name", Substring: search})
		lines = append(lines, "AND name ILIKE '%<search>%'")
		params["search"] = trace.StringParam(search)
	}

	if f.Category != CategoryAll && f.Category != "" {
		q.Where = append(q.Where, query.Equals{Field: "category", Value: query.String(f.Category)})
		lines = append(lines, "AND category = '<category>'")
		params["category"] = trace.StringParam(f.Category)
	}

	if len(f.Colors) > 0 {
		values := make([]query.Value, len(f.Colors))
		placeholders := make([]string, len(f.Colors))
		for i, color := range f.Colors {
			values[i] = query.String(color)
			name := "color" + strconv.Itoa(i)
			placeholders[i] = "'<" + name + ">'"
			params[name] = trace.StringParam(color)
		}
		q.Where = append(q.Where, query.In{Field: "color", Values: values})
		lines = append(lines, fmt.Sprintf("AND color IN (%s)", strings.Join(placeholders, ", ")))
	}

	if gigs := normalizeStorageSet(f.Storage); len(gigs) > 0 {
		values := make([]query.Value, len(gigs))
		literals := make([]string, len(gigs))
		for i, g := range gigs {
			values[i] = query.Int(g)
			literals[i] = strconv.FormatInt(g, 10)
		}
		q.Where = append(q.Where, query.In{Field: "storage", Values: values})
		lines = append(lines, fmt.Sprintf("AND storage IN (%s)", strings.Join(literals, ", ")))
	}

	order := resolveSort(f.SortBy)
	q.Sort = query.Sort{Field: order.field, Descending: order.descending}
	direction := "ASC"
	if order.descending {
		direction = "DESC"
	}
	lines = append(lines, fmt.Sprintf("ORDER BY %s %s", order.field, direction))

	if len(params) == 0 {
		params = nil
	}
	return Compiled{
		Query:     q,
		TraceText: strings.Join(lines, "\n"),
		Params:    params,
	}
}

// normalizeStorageSet maps display units to numeric gigabytes, preserving
// order and dropping unrecognized tokens.
func normalizeStorageSet(storage []string) []int64 {
	var gigs []int64
	for _, s := range storage {
		if g, ok := NormalizeStorage(s); ok {
			gigs = append(gigs, g)
		}
	}
	return gigs
}
