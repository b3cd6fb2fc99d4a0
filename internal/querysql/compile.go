// Package querysql compiles query descriptions to parameterized SQL for SQLite.
//
// The compiler is the only place query descriptions become SQL text. It adds
// nothing the description does not contain, with one exception: a trailing
// "id ASC" tiebreaker after the requested sort, so result order is
// deterministic even when the sort field has duplicate values.
package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/vitrine/internal/query"
)

// Compile converts a query description to parameterized SQL.
// Returns (sql, params, error).
//
// All values are parameterized, never interpolated into the SQL text.
// Predicates compile in slice order so the statement mirrors the trace
// text produced alongside the description.
func Compile(q query.Query) (string, []any, error) {
	if q.Collection == "" {
		return "", nil, fmt.Errorf("cannot compile query with empty collection")
	}
	if q.Sort.Field == "" {
		return "", nil, fmt.Errorf("cannot compile query without a sort field")
	}

	var sb strings.Builder
	var params []any

	sb.WriteString("SELECT * FROM ")
	sb.WriteString(q.Collection)

	if len(q.Where) > 0 {
		sb.WriteString(" WHERE ")
		for i, p := range q.Where {
			if i > 0 {
				sb.WriteString(" AND ")
			}
			sql, args, err := compilePredicate(p)
			if err != nil {
				return "", nil, fmt.Errorf("compile predicate %d: %w", i, err)
			}
			sb.WriteString(sql)
			params = append(params, args...)
		}
	}

	direction := "ASC"
	if q.Sort.Descending {
		direction = "DESC"
	}
	fmt.Fprintf(&sb, " ORDER BY %s %s", q.Sort.Field, direction)
	// Deterministic tiebreaker: duplicate sort values must not reorder
	// between runs.
	if q.Sort.Field != "id" {
		sb.WriteString(", id ASC")
	}

	return sb.String(), params, nil
}

func compilePredicate(p query.Predicate) (string, []any, error) {
	switch pred := p.(type) {
	case query.Equals:
		param, err := valueToParam(pred.Value)
		if err != nil {
			return "", nil, err
		}
		return fmt.Sprintf("%s = ?", pred.Field), []any{param}, nil
	case query.Contains:
		// Portable ILIKE: lower both sides with the same fold. SQLite's
		// built-in LOWER only folds ASCII, so the column side goes
		// through ulower, a Go strings.ToLower registered on every store
		// connection. Pattern and column then agree on all of unicode.
		sql := fmt.Sprintf("ulower(%s) LIKE ?", pred.Field)
		return sql, []any{"%" + strings.ToLower(pred.Substring) + "%"}, nil
	case query.In:
		return compileIn(pred)
	default:
		return "", nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func compileIn(in query.In) (string, []any, error) {
	if len(in.Values) == 0 {
		// Empty membership matches nothing. Never degrade to "always
		// true" - that would widen the result set past the description.
		return "1 = 0", nil, nil
	}

	placeholders := make([]string, len(in.Values))
	params := make([]any, len(in.Values))
	for i, v := range in.Values {
		param, err := valueToParam(v)
		if err != nil {
			return "", nil, err
		}
		placeholders[i] = "?"
		params[i] = param
	}

	sql := fmt.Sprintf("%s IN (%s)", in.Field, strings.Join(placeholders, ", "))
	return sql, params, nil
}

// valueToParam converts a query.Value to a Go native type for use as an
// SQL parameter.
func valueToParam(v query.Value) (any, error) {
	switch val := v.(type) {
	case query.String:
		return string(val), nil
	case query.Int:
		return int64(val), nil
	default:
		return nil, fmt.Errorf("unsupported value type for SQL parameter: %T", v)
	}
}
