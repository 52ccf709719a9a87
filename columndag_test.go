package paf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildColumnOrderFiltersByType(t *testing.T) {
	length := mustStat(t, "length", []StatKey{{Name: "series", Type: rawSeriesType}}, []StatKey{{Name: "length"}},
		func(in Inputs) (Outputs, error) { return Outputs{"length": 3}, nil })

	numericSF, err := NewStatFunc().Name("mean").
		Requires(StatKey{Name: "series", Type: rawSeriesType}).
		Provides(StatKey{Name: "mean"}).
		Compute(func(in Inputs) (Outputs, error) { return Outputs{"mean": 1.5}, nil }).
		ColumnFilter(IsNumericNotBool).
		Build()
	require.NoError(t, err)

	g, err := BuildGlobalOrder([]StatFunc{length, numericSF})
	require.NoError(t, err)

	numCols := BuildColumnOrder(g, KindFloat)
	assert.Contains(t, numCols.Order, "length")
	assert.Contains(t, numCols.Order, "mean")

	strCols := BuildColumnOrder(g, KindString)
	assert.Contains(t, strCols.Order, "length")
	assert.NotContains(t, strCols.Order, "mean")
}

func TestBuildColumnOrderCascadeRemoval(t *testing.T) {
	numericOnly := mustStatFiltered(t, "numeric_only", nil, []StatKey{{Name: "n"}}, IsNumericNotBool,
		func(Inputs) (Outputs, error) { return Outputs{"n": 1}, nil })
	dependent := mustStat(t, "dependent", []StatKey{{Name: "n"}}, []StatKey{{Name: "dependent_out"}},
		func(in Inputs) (Outputs, error) { return Outputs{"dependent_out": in["n"]}, nil })

	g, err := BuildGlobalOrder([]StatFunc{numericOnly, dependent})
	require.NoError(t, err)

	strCols := BuildColumnOrder(g, KindString)
	assert.NotContains(t, strCols.Order, "numeric_only")
	assert.NotContains(t, strCols.Order, "dependent")
	assert.Contains(t, strCols.Removed, "dependent")
}

func mustStatFiltered(t *testing.T, name string, requires []StatKey, provides []StatKey, filter Predicate, compute ComputeFunc) StatFunc {
	t.Helper()
	sf, err := NewStatFunc().Name(name).Requires(requires...).Provides(provides...).ColumnFilter(filter).Compute(compute).Build()
	require.NoError(t, err)
	return sf
}
