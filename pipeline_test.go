package paf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func basicStats(t *testing.T) []any {
	t.Helper()
	length := mustStat(t, "length", []StatKey{{Name: "series", Type: rawSeriesType}}, []StatKey{{Name: "length"}},
		func(in Inputs) (Outputs, error) {
			s := in["series"].([]any)
			return Outputs{"length": len(s)}, nil
		})
	distinct := mustStat(t, "distinct", []StatKey{{Name: "series", Type: rawSeriesType}}, []StatKey{{Name: "distinct"}},
		func(in Inputs) (Outputs, error) {
			s := in["series"].([]any)
			seen := map[any]bool{}
			for _, v := range s {
				seen[v] = true
			}
			return Outputs{"distinct": len(seen)}, nil
		})
	distinctPer, err := Stat("distinct_per", func(length int, distinct int) (float64, error) {
		if length == 0 {
			return 0, nil
		}
		return float64(distinct) / float64(length), nil
	}, Requires("length", "distinct"), WithDefault(0.0))
	require.NoError(t, err)

	return []any{length, distinct, distinctPer}
}

func TestPipelineProcessDataFrame(t *testing.T) {
	p, err := New(basicStats(t), WithUnitTest(false))
	require.NoError(t, err)

	cols := []ColumnInput{
		{OrigName: "A", RewrittenName: "A", DType: KindInt, Raw: []any{1, 2, 2, 3}, Sampled: []any{1, 2}},
	}
	summary, errs := p.ProcessDataFrame(cols)
	require.Empty(t, errs)
	row := summary["A"]
	assert.Equal(t, 4, row["length"])
	assert.Equal(t, 3, row["distinct"])
	assert.Equal(t, 0.75, row["distinct_per"])
	assert.Equal(t, "A", row["orig_col_name"])
	assert.Equal(t, "A", row["rewritten_col_name"])
}

func TestPipelineProcessColumnHasNoRewriteKeys(t *testing.T) {
	p, err := New(basicStats(t), WithUnitTest(false))
	require.NoError(t, err)

	values, errs := p.ProcessColumn("A", KindInt, []any{1, 1}, []any{1}, nil)
	require.Empty(t, errs)
	assert.NotContains(t, values, "orig_col_name")
	assert.NotContains(t, values, "rewritten_col_name")
}

func TestPipelineAddStatRejectsBadSpec(t *testing.T) {
	p, err := New(basicStats(t), WithUnitTest(false))
	require.NoError(t, err)

	orphan, err := NewStatFunc().Name("orphan").
		Requires(StatKey{Name: "nope"}).
		Provides(StatKey{Name: "orphan_out"}).
		Compute(func(Inputs) (Outputs, error) { return nil, nil }).
		Build()
	require.NoError(t, err)

	ok, errs := p.AddStat(orphan)
	assert.False(t, ok)
	require.Len(t, errs, 1)
}

func TestPipelineAddStatAcceptsValidSpec(t *testing.T) {
	p, err := New(basicStats(t), WithUnitTest(false))
	require.NoError(t, err)

	extra := mustStat(t, "length_plus_one", []StatKey{{Name: "length"}}, []StatKey{{Name: "length_plus_one"}},
		func(in Inputs) (Outputs, error) { return Outputs{"length_plus_one": in["length"].(int) + 1}, nil })

	ok, errs := p.AddStat(extra)
	require.True(t, ok)
	require.Empty(t, errs)

	values, errs := p.ProcessColumn("A", KindInt, []any{1, 2, 3}, nil, nil)
	require.Empty(t, errs)
	assert.Equal(t, 4, values["length_plus_one"])
}

func TestPipelineAddStatRunsSmokeTestAndReportsFailure(t *testing.T) {
	p, err := New(basicStats(t), WithUnitTest(false))
	require.NoError(t, err)

	flaky, err := NewStatFunc().Name("flaky").
		Requires(StatKey{Name: "length"}).
		Provides(StatKey{Name: "flaky_out"}).
		Compute(func(in Inputs) (Outputs, error) {
			return nil, assert.AnError
		}).
		Build()
	require.NoError(t, err)

	ok, errs := p.AddStat(flaky)
	assert.False(t, ok)
	assert.NotEmpty(t, errs)

	// the DAG was still structurally valid, so the stat is retained even
	// though its smoke-test run failed (spec.md §4.7, "does not prevent
	// the pipeline's construction").
	_, ok2 := p.graph.StatByName("flaky")
	assert.True(t, ok2)
}

func TestPipelineTestStatInIsolation(t *testing.T) {
	p, err := New(basicStats(t), WithUnitTest(false))
	require.NoError(t, err)

	r := p.TestStat("distinct_per", map[string]any{"length": 4, "distinct": 2})
	require.True(t, r.IsOk())
	out := r.Value.(map[string]any)
	assert.Equal(t, 0.5, out["distinct_per"])
}

func TestPipelineExplain(t *testing.T) {
	p, err := New(basicStats(t), WithUnitTest(false))
	require.NoError(t, err)

	text, err := p.Explain("distinct_per")
	require.NoError(t, err)
	assert.Contains(t, text, "distinct_per")
}

func TestPipelineConstructionRunsUnitTest(t *testing.T) {
	_, err := New(basicStats(t))
	require.NoError(t, err)
}

func TestPipelineDOT(t *testing.T) {
	p, err := New(basicStats(t), WithUnitTest(false))
	require.NoError(t, err)

	out := p.DOT()
	assert.Contains(t, out, "digraph")
	assert.Contains(t, out, "distinct_per")
}

func TestPipelineWithParallelism(t *testing.T) {
	p, err := New(basicStats(t), WithUnitTest(false), WithParallelism(4))
	require.NoError(t, err)

	cols := make([]ColumnInput, 20)
	for i := range cols {
		cols[i] = ColumnInput{OrigName: "c", RewrittenName: "c", DType: KindInt, Raw: []any{1, 2, 3}}
	}
	summary, errs := p.ProcessDataFrame(cols)
	require.Empty(t, errs)
	assert.Equal(t, 3, summary["c"]["length"])
}
