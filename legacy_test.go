package paf

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type defaultsOnlyLegacy struct{}

func (defaultsOnlyLegacy) Name() string                     { return "legacy_defaults" }
func (defaultsOnlyLegacy) ProvidesDefaults() map[string]any  { return map[string]any{"legacy_a": 0, "legacy_b": ""} }
func (defaultsOnlyLegacy) RequiresSummary() []string         { return nil }
func (defaultsOnlyLegacy) Quiet() bool                       { return false }

func TestAdaptLegacyDefaultsOnly(t *testing.T) {
	funcs := AdaptLegacy(defaultsOnlyLegacy{})
	require.Len(t, funcs, 1)
	sf := funcs[0]
	assert.Nil(t, sf.ColumnFilter)

	out, err := sf.Compute(Inputs{})
	require.NoError(t, err)
	assert.Equal(t, 0, out["legacy_a"])
	assert.Equal(t, "", out["legacy_b"])
}

type seriesLegacy struct{}

func (seriesLegacy) Name() string                    { return "legacy_series" }
func (seriesLegacy) ProvidesDefaults() map[string]any { return map[string]any{"count": 0} }
func (seriesLegacy) RequiresSummary() []string        { return nil }
func (seriesLegacy) Quiet() bool                      { return false }
func (seriesLegacy) ProvidesSeriesStats() []string     { return []string{"count"} }
func (seriesLegacy) SeriesSummary(raw RawSeries, sampled SampledSeries) (map[string]any, error) {
	return map[string]any{"count": 7}, nil
}

func TestAdaptLegacySeriesOnly(t *testing.T) {
	funcs := AdaptLegacy(seriesLegacy{})
	require.Len(t, funcs, 1)
	sf := funcs[0]
	assert.Equal(t, "legacy_series__series", sf.Name)
	require.True(t, sf.NeedsRaw)

	out, err := sf.Compute(Inputs{"raw": RawSeries{}, "sampled": SampledSeries{}})
	require.NoError(t, err)
	assert.Equal(t, 7, out["count"])
}

type bothPhasesLegacy struct{}

func (bothPhasesLegacy) Name() string                    { return "legacy_both" }
func (bothPhasesLegacy) ProvidesDefaults() map[string]any { return map[string]any{"count": 0, "normalized": 0.0} }
func (bothPhasesLegacy) RequiresSummary() []string        { return []string{"length"} }
func (bothPhasesLegacy) Quiet() bool                      { return false }
func (bothPhasesLegacy) ProvidesSeriesStats() []string     { return []string{"count"} }
func (bothPhasesLegacy) SeriesSummary(raw RawSeries, sampled SampledSeries) (map[string]any, error) {
	return map[string]any{"count": 5}, nil
}
func (bothPhasesLegacy) ComputedSummary(acc map[string]any) (map[string]any, error) {
	length, _ := acc["length"].(int)
	if length == 0 {
		return nil, errors.New("length missing")
	}
	return map[string]any{"normalized": float64(acc["count"].(int)) / float64(length)}, nil
}

func TestAdaptLegacyBothPhases(t *testing.T) {
	funcs := AdaptLegacy(bothPhasesLegacy{})
	require.Len(t, funcs, 2)

	var seriesFn, computedFn *StatFunc
	for i := range funcs {
		if funcs[i].legacyAccumulator == nil {
			seriesFn = &funcs[i]
		} else {
			computedFn = &funcs[i]
		}
	}
	require.NotNil(t, seriesFn)
	require.NotNil(t, computedFn)

	length := mustStat(t, "length", nil, []StatKey{{Name: "length"}},
		func(Inputs) (Outputs, error) { return Outputs{"length": 10}, nil })

	g, err := BuildGlobalOrder([]StatFunc{length, *seriesFn, *computedFn})
	require.NoError(t, err)
	cg := BuildColumnOrder(g, KindInt)

	result := RunColumn(cg, Injectors{RawSeries: RawSeries{}, SampledSeries: SampledSeries{}}, "col", nil)
	require.Empty(t, result.Errors)
	assert.Equal(t, 5, result.Values["count"])
	assert.Equal(t, 0.5, result.Values["normalized"])
}

type computedOnlyNoDefaultsLegacy struct{}

func (computedOnlyNoDefaultsLegacy) Name() string                    { return "legacy_computed_only" }
func (computedOnlyNoDefaultsLegacy) ProvidesDefaults() map[string]any { return nil }
func (computedOnlyNoDefaultsLegacy) RequiresSummary() []string        { return nil }
func (computedOnlyNoDefaultsLegacy) Quiet() bool                      { return false }
func (computedOnlyNoDefaultsLegacy) ComputedSummary(acc map[string]any) (map[string]any, error) {
	return nil, nil
}

func TestAdaptLegacyComputedOnlySyntheticStatusKey(t *testing.T) {
	funcs := AdaptLegacy(computedOnlyNoDefaultsLegacy{})
	require.Len(t, funcs, 1)
	sf := funcs[0]
	assert.Equal(t, "legacy_computed_only__computed", sf.Name)
	require.Len(t, sf.Provides, 1)
	assert.Equal(t, "__legacy_computed_only__status", sf.Provides[0].Name)
}
