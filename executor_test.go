package paf

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunColumnSimpleChain(t *testing.T) {
	length := mustStat(t, "length", []StatKey{{Name: "series", Type: rawSeriesType}}, []StatKey{{Name: "length"}},
		func(in Inputs) (Outputs, error) {
			s := in["series"].([]any)
			return Outputs{"length": len(s)}, nil
		})
	distinct := mustStat(t, "distinct", []StatKey{{Name: "series", Type: rawSeriesType}}, []StatKey{{Name: "distinct"}},
		func(in Inputs) (Outputs, error) { return Outputs{"distinct": 2}, nil })
	distinctPer := mustStat(t, "distinct_per", []StatKey{{Name: "length"}, {Name: "distinct"}}, []StatKey{{Name: "distinct_per"}},
		func(in Inputs) (Outputs, error) {
			return Outputs{"distinct_per": float64(in["distinct"].(int)) / float64(in["length"].(int))}, nil
		})

	g, err := BuildGlobalOrder([]StatFunc{length, distinct, distinctPer})
	require.NoError(t, err)
	cg := BuildColumnOrder(g, KindInt)

	result := RunColumn(cg, Injectors{RawSeries: []any{1, 2, 3, 4}}, "col", nil)
	require.Empty(t, result.Errors)
	assert.Equal(t, 4, result.Values["length"])
	assert.Equal(t, 0.5, result.Values["distinct_per"])
}

func TestRunColumnUpstreamErrorPropagates(t *testing.T) {
	failing := mustStat(t, "failing", []StatKey{{Name: "series", Type: rawSeriesType}}, []StatKey{{Name: "a"}},
		func(in Inputs) (Outputs, error) { return nil, errors.New("boom") })
	dependent := mustStat(t, "dependent", []StatKey{{Name: "a"}}, []StatKey{{Name: "b"}},
		func(in Inputs) (Outputs, error) {
			t.Fatal("dependent.Compute must not run when its input already failed")
			return nil, nil
		})

	g, err := BuildGlobalOrder([]StatFunc{failing, dependent})
	require.NoError(t, err)
	cg := BuildColumnOrder(g, KindInt)

	result := RunColumn(cg, Injectors{RawSeries: []any{}}, "col", nil)
	require.Len(t, result.Errors, 2)

	var upstream *UpstreamError
	foundUpstream := false
	for _, se := range result.Errors {
		if errors.As(se.Cause, &upstream) {
			foundUpstream = true
		}
	}
	assert.True(t, foundUpstream)

	assert.Contains(t, result.Values, "a")
	assert.Nil(t, result.Values["a"])
	assert.Contains(t, result.Values, "b")
	assert.Nil(t, result.Values["b"])
}

func TestRunColumnDefaultFallback(t *testing.T) {
	sf, err := NewStatFunc().Name("flaky").
		Requires(StatKey{Name: "series", Type: rawSeriesType}).
		Provides(StatKey{Name: "flaky_out"}).
		Compute(func(in Inputs) (Outputs, error) { return nil, errors.New("boom") }).
		Default(-1).
		Build()
	require.NoError(t, err)

	g, err := BuildGlobalOrder([]StatFunc{sf})
	require.NoError(t, err)
	cg := BuildColumnOrder(g, KindInt)

	result := RunColumn(cg, Injectors{RawSeries: []any{}}, "col", nil)
	assert.Empty(t, result.Errors)
	assert.Equal(t, -1, result.Values["flaky_out"])
}

func TestRunColumnPanicRecovered(t *testing.T) {
	sf := mustStat(t, "panics", []StatKey{{Name: "series", Type: rawSeriesType}}, []StatKey{{Name: "out"}},
		func(in Inputs) (Outputs, error) {
			panic("unexpected")
		})

	g, err := BuildGlobalOrder([]StatFunc{sf})
	require.NoError(t, err)
	cg := BuildColumnOrder(g, KindInt)

	result := RunColumn(cg, Injectors{RawSeries: []any{}}, "col", nil)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Error(), "panics")
}

func TestRunColumnSeedInjection(t *testing.T) {
	usesName := mustStat(t, "uses_name", []StatKey{{Name: "orig_col_name"}}, []StatKey{{Name: "echo"}},
		func(in Inputs) (Outputs, error) { return Outputs{"echo": in["orig_col_name"]}, nil })

	// No stat provides orig_col_name, so BuildGlobalOrder rejects a stat
	// requiring it; the column graph is assembled directly instead.
	_, err := BuildGlobalOrder([]StatFunc{usesName})
	require.Error(t, err)
	cg := &ColumnGraph{Order: []string{"uses_name"}, byName: map[string]StatFunc{"uses_name": usesName}}

	result := RunColumn(cg, Injectors{}, "col", map[string]any{"orig_col_name": "Col A"})
	assert.Equal(t, "Col A", result.Values["echo"])
}
