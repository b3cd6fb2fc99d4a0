package query

// Value is a sealed interface for literal values usable in predicates.
// Only String and Int implement it. No floats: prices are integer cents
// and storage sizes are integer gigabytes, so the store never compares
// floating-point values.
type Value interface {
	valueNode() // Marker method - seals interface to this package
}

// String is a string literal value.
type String string

func (String) valueNode() {}

// Int is an integer literal value. Always int64.
type Int int64

func (Int) valueNode() {}

// Predicate is a sealed interface for filter conditions.
// Only Equals, Contains, and In implement it.
type Predicate interface {
	predicateNode() // Marker method - seals interface to this package
}

// Equals represents a field-equals-literal predicate.
//
// Semantics:
//
//	<field> = <value>
type Equals struct {
	Field string
	Value Value
}

func (Equals) predicateNode() {}

// Contains represents a case-insensitive substring predicate.
//
// Semantics:
//
//	<field> ILIKE '%<substring>%'
//
// The substring is matched anywhere in the field value. Case folding is
// the backend's responsibility (querysql lowers both sides).
type Contains struct {
	Field     string
	Substring string
}

func (Contains) predicateNode() {}

// In represents a set-membership predicate.
//
// Semantics:
//
//	<field> IN (<values...>)
//
// An In with no values matches nothing; compilers must preserve that
// rather than degrading to "always true".
type In struct {
	Field  string
	Values []Value
}

func (In) predicateNode() {}

// Sort describes the single ORDER BY clause of a query.
type Sort struct {
	Field      string
	Descending bool
}

// Query describes a complete read over one named collection.
//
// Where predicates are implicitly conjoined (AND). Their order is
// significant only for trace alignment: the filter compiler appends
// predicates in the same order it appends trace clauses, and backends
// must compile them in slice order.
type Query struct {
	Collection string
	Where      []Predicate
	Sort       Sort
}
