package paf

// DegenerateColumns returns a small, deliberately pathological table used
// by Pipeline's unit-test-at-construction-time smoke check: an empty
// column, an all-nil column, a single-row column, and a column whose
// values are wildly out of a typical range. The Go analogue of the
// Python original's PERVERSE_DF (buckaroo/pluggable_analysis_framework/
// utils.py), supplemented with an all-true boolean column since the
// fixture here also exercises Kind-based column filtering.
func DegenerateColumns() []ColumnInput {
	return []ColumnInput{
		{
			OrigName:      "empty",
			RewrittenName: "empty",
			DType:         KindInt,
			Raw:           []any{},
			Sampled:       []any{},
		},
		{
			OrigName:      "all_nil",
			RewrittenName: "all_nil",
			DType:         KindFloat,
			Raw:           []any{nil, nil, nil},
			Sampled:       []any{nil, nil},
		},
		{
			OrigName:      "single_value",
			RewrittenName: "single_value",
			DType:         KindString,
			Raw:           []any{""},
			Sampled:       []any{""},
		},
		{
			OrigName:      "wide_range",
			RewrittenName: "wide_range",
			DType:         KindFloat,
			Raw:           []any{-1e308, 0.0, 1e308, nil},
			Sampled:       []any{-1e308, 1e308},
		},
		{
			OrigName:      "all_true",
			RewrittenName: "all_true",
			DType:         KindBool,
			Raw:           []any{true, true, true},
			Sampled:       []any{true},
		},
	}
}
