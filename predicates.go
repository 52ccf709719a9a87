package paf

// ColumnType is the dtype tag a caller's DataFrame layer attaches to a
// column. PAF defines no DataFrame of its own (spec.md §1), so ColumnType
// is an open alias — a ColumnFilter may test any value a caller passes to
// BuildColumnOrder/ProcessColumn. The predicate library below understands
// one closed vocabulary, Kind, and returns false for anything else.
type ColumnType = any

// Kind is a closed enumeration of the column kinds the bundled predicate
// library understands. A caller is free to use its own ColumnType values
// in a custom Predicate; Kind and the predicates built on it are provided
// as the common case (column_filters.py's is_numeric/is_string/etc., with
// no pandas/polars special-casing since PAF has no DataFrame dependency).
type Kind int

const (
	KindUnknown Kind = iota
	KindInt
	KindFloat
	KindBool
	KindString
	KindTemporal
	KindCategorical
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindTemporal:
		return "temporal"
	case KindCategorical:
		return "categorical"
	case KindOther:
		return "other"
	default:
		return "unknown"
	}
}

// Predicate is a column-type filter: it reports whether a StatFunc
// applies to a column tagged with dtype. BuildColumnOrder and
// StatFunc.ColumnFilter both operate on this signature; a nil Predicate
// means "applies to every column" (spec.md §3).
type Predicate func(dtype ColumnType) bool

// toKind extracts a Kind from an arbitrary ColumnType, defaulting to
// KindUnknown for anything that isn't a Kind. This is what lets the
// predicate library satisfy spec.md §6's "MUST accept any dtype value and
// return false on unknown tags, never throw".
func toKind(dtype ColumnType) Kind {
	if k, ok := dtype.(Kind); ok {
		return k
	}
	return KindUnknown
}

// IsNumeric matches Int, Float, and Bool — the Go analogue of
// column_filters.py's is_numeric, which treats boolean dtypes as a
// numeric subtype.
func IsNumeric(dtype ColumnType) bool {
	k := toKind(dtype)
	return k == KindInt || k == KindFloat || k == KindBool
}

// IsNumericNotBool matches Int and Float but excludes Bool, for stats
// where a boolean column's 0/1 encoding would be misleading (mean,
// percentiles, and similar; column_filters.py's is_numeric_not_bool).
func IsNumericNotBool(dtype ColumnType) bool {
	k := toKind(dtype)
	return k == KindInt || k == KindFloat
}

// IsString matches String and Categorical columns.
func IsString(dtype ColumnType) bool {
	k := toKind(dtype)
	return k == KindString || k == KindCategorical
}

// IsTemporal matches Temporal columns.
func IsTemporal(dtype ColumnType) bool {
	return toKind(dtype) == KindTemporal
}

// IsBoolean matches only Bool columns.
func IsBoolean(dtype ColumnType) bool {
	return toKind(dtype) == KindBool
}

// AnyOf combines predicates with OR (column_filters.py's any_of).
func AnyOf(preds ...Predicate) Predicate {
	return func(dtype ColumnType) bool {
		for _, p := range preds {
			if p(dtype) {
				return true
			}
		}
		return false
	}
}

// Not negates a predicate (column_filters.py's not_).
func Not(p Predicate) Predicate {
	return func(dtype ColumnType) bool { return !p(dtype) }
}
