package paf

import "sort"

// LegacyStat is the common surface of a v1-style analysis class: a name,
// its default output values, the names of any already-computed slots its
// computed phase depends on for ordering purposes, and whether its
// failures should be suppressed from default error reporting. It is the
// Go substitute for Python's duck-typed ColAnalysis base class
// (v1_adapter.py).
type LegacyStat interface {
	Name() string
	ProvidesDefaults() map[string]any
	RequiresSummary() []string
	Quiet() bool
}

// LegacySeriesStat is a LegacyStat with a custom series-phase summary: it
// receives the raw (and optionally downsampled) column and returns a
// partial output record (v1_adapter.py's series_summary).
type LegacySeriesStat interface {
	LegacyStat
	ProvidesSeriesStats() []string
	SeriesSummary(raw RawSeries, sampled SampledSeries) (map[string]any, error)
}

// LegacyComputedStat is a LegacyStat with a custom computed-phase summary:
// it receives the full live accumulator of everything computed so far —
// not just its declared requirements — exactly like v1_adapter.py's
// computed_summary call convention.
type LegacyComputedStat interface {
	LegacyStat
	ComputedSummary(accumulator map[string]any) (map[string]any, error)
}

// AdaptLegacy converts one legacy analysis class into the StatFuncs that
// implement it, the Go analogue of v1_adapter.py's
// col_analysis_to_stat_funcs. Duck typing ("did this class override
// series_summary?") has no Go equivalent, so the adapter instead
// type-switches on which of LegacySeriesStat/LegacyComputedStat the value
// satisfies:
//
//   - neither: a single zero-dependency StatFunc that broadcasts
//     ProvidesDefaults() unconditionally (and is never removed by
//     column-type filtering, since it has no ColumnFilter — spec.md §9's
//     open question on this is resolved in favor of always retaining it).
//   - series only: one StatFunc requiring the two raw markers.
//   - computed only: one StatFunc requiring RequiresSummary()'s named
//     slots, receiving the whole accumulator.
//   - both: two StatFuncs, the computed one ordered after the series one
//     by construction (its Requires includes the slots the series phase
//     provides).
func AdaptLegacy(ls LegacyStat) []StatFunc {
	ss, hasSeries := ls.(LegacySeriesStat)
	cs, hasComputed := ls.(LegacyComputedStat)
	defaults := ls.ProvidesDefaults()

	if !hasSeries && !hasComputed {
		return []StatFunc{buildLegacyStatFunc(ls.Name(), nil, nil, defaults, ls.Quiet(), nil)}
	}

	var funcs []StatFunc
	seriesProvided := map[string]bool{}

	if hasSeries {
		name := ls.Name() + "__series"
		seriesKeys := ss.ProvidesSeriesStats()
		for _, k := range seriesKeys {
			seriesProvided[k] = true
		}
		requires := []StatKey{
			{Name: "raw", Type: rawSeriesType},
			{Name: "sampled", Type: sampledSeriesType},
		}
		compute := func(in Inputs) (Outputs, error) {
			raw, _ := in["raw"].(RawSeries)
			sampled, _ := in["sampled"].(SampledSeries)
			custom, err := ss.SeriesSummary(raw, sampled)
			if err != nil {
				return nil, err
			}
			return mergeWithDefaults(custom, defaults, seriesKeys), nil
		}
		funcs = append(funcs, buildLegacyStatFuncWithRequires(name, requires, seriesKeys, defaults, ls.Quiet(), compute))
	}

	if hasComputed {
		name := ls.Name() + "__computed"
		requires := make([]StatKey, 0, len(ls.RequiresSummary())+len(seriesProvided))
		for _, r := range ls.RequiresSummary() {
			requires = append(requires, StatKey{Name: r, Type: Any})
		}
		if hasSeries {
			// Force scheduling after the series phase even though
			// ComputedSummary reads the live accumulator directly rather
			// than declaring these as formal inputs (the preserved quirk).
			for k := range seriesProvided {
				requires = append(requires, StatKey{Name: k, Type: Any})
			}
		}

		computedKeys := make([]string, 0, len(defaults))
		for k := range defaults {
			if !seriesProvided[k] {
				computedKeys = append(computedKeys, k)
			}
		}
		sort.Strings(computedKeys)

		statusKey := ""
		if len(computedKeys) == 0 {
			statusKey = "__" + ls.Name() + "__status"
			computedKeys = []string{statusKey}
		}

		sf := buildLegacyStatFunc(name, requires, computedKeys, defaults, ls.Quiet(), nil)
		sf.legacyAccumulator = func(acc map[string]Result) (Outputs, error) {
			plain := make(map[string]any, len(acc))
			for k, r := range acc {
				if r.IsOk() {
					plain[k] = r.Value
				}
			}
			custom, err := cs.ComputedSummary(plain)
			if err != nil {
				return nil, err
			}
			if statusKey != "" {
				return Outputs{statusKey: true}, nil
			}
			return mergeWithDefaults(custom, defaults, computedKeys), nil
		}
		funcs = append(funcs, sf)
	}

	return funcs
}

// mergeWithDefaults fills any of keys missing from custom with its
// ProvidesDefaults fallback value, the way v1_adapter.py merges
// provides_defaults into a partial series_summary/computed_summary result.
func mergeWithDefaults(custom map[string]any, defaults map[string]any, keys []string) Outputs {
	out := make(Outputs, len(keys))
	for _, k := range keys {
		if v, ok := custom[k]; ok {
			out[k] = v
			continue
		}
		out[k] = defaults[k]
	}
	return out
}

func buildLegacyStatFunc(name string, requires []StatKey, provideKeys []string, defaults map[string]any, quiet bool, compute ComputeFunc) StatFunc {
	if len(provideKeys) == 0 {
		keys := make([]string, 0, len(defaults))
		for k := range defaults {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		provideKeys = keys
	}
	if len(provideKeys) == 0 {
		provideKeys = []string{"__" + name + "__status"}
	}
	if compute == nil {
		compute = func(Inputs) (Outputs, error) {
			out := make(Outputs, len(provideKeys))
			for _, k := range provideKeys {
				out[k] = defaults[k]
			}
			return out, nil
		}
	}
	return buildLegacyStatFuncWithRequires(name, requires, provideKeys, defaults, quiet, compute)
}

func buildLegacyStatFuncWithRequires(name string, requires []StatKey, provideKeys []string, defaults map[string]any, quiet bool, compute ComputeFunc) StatFunc {
	provides := make([]StatKey, len(provideKeys))
	for i, k := range provideKeys {
		provides[i] = StatKey{Name: k, Type: Any}
	}
	b := NewStatFunc().Name(name).Requires(requires...).Provides(provides...).Compute(compute)
	if quiet {
		b.Quiet()
	}
	sf, err := b.Build()
	if err != nil {
		// Construction here is derived entirely from the legacy type's own
		// declared metadata; a failure means that metadata was malformed
		// (e.g. an empty Name). Surface an always-failing stat rather than
		// silently dropping it, since AdaptLegacy has no error return.
		sf, _ = NewStatFunc().Name(name + "__invalid").
			Provides(StatKey{Name: "__" + name + "__status", Type: Any}).
			Compute(func(Inputs) (Outputs, error) { return nil, err }).
			Build()
	}
	return sf
}
