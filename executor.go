package paf

import "fmt"

// Injectors supplies the values bound to the three raw-data markers
// (RawSeries, SampledSeries, RawDataFrame) for one column execution. A
// stat that never declares a raw marker in its Requires never touches
// these (spec.md §3, §5 "raw-data injection").
type Injectors struct {
	RawSeries     any
	SampledSeries any
	RawDataFrame  any
}

// RunColumn executes every stat in cg, in order, against one column,
// threading results through a slot-name accumulator. seed pre-populates
// the accumulator with already-known values (orig_col_name and
// rewritten_col_name, injected by Pipeline.ProcessDataFrame; spec.md §5,
// "per-column context").
//
// This is the Go realization of stat_pipeline.py's process_column /
// _execute_stat_func: each stat's inputs are pulled from the accumulator
// (or the raw injectors), a required input already in the Err state
// short-circuits the stat with an UpstreamError instead of invoking
// Compute, and a stat with a configured Default falls back to it on
// failure instead of recording an error.
func RunColumn(cg *ColumnGraph, inj Injectors, columnName string, seed map[string]any) ColumnResult {
	acc := make(map[string]Result, len(cg.Order)+len(seed))
	for k, v := range seed {
		acc[k] = OkResult(v)
	}

	for _, name := range cg.Order {
		sf, _ := cg.StatByName(name)
		runStat(sf, acc, inj, columnName)
	}

	order := make([]string, 0, len(cg.Order))
	for _, name := range cg.Order {
		sf, _ := cg.StatByName(name)
		for _, p := range sf.Provides {
			order = append(order, p.Name)
		}
	}
	return resolveAccumulator(columnName, acc, order)
}

func runStat(sf StatFunc, acc map[string]Result, inj Injectors, columnName string) {
	if sf.legacyAccumulator != nil {
		runLegacyAccumulatorStat(sf, acc, columnName)
		return
	}

	in := make(Inputs, len(sf.Requires))
	var upstream *UpstreamError
	for _, req := range sf.Requires {
		if req.isRawMarker() {
			in[req.Name] = rawValueFor(req, inj)
			continue
		}
		r, ok := acc[req.Name]
		if !ok {
			r = ErrResult(&StatError{
				StatName:   sf.Name,
				ColumnName: columnName,
				Cause:      fmt.Errorf("slot %q was never computed", req.Name),
			})
			acc[req.Name] = r
		}
		if !r.IsOk() {
			if upstream == nil {
				upstream = &UpstreamError{SlotName: req.Name, Cause: r.Err}
			}
			continue
		}
		in[req.Name] = r.Value
	}

	if upstream != nil {
		recordFailure(sf, acc, in, columnName, upstream)
		return
	}

	out, err := safeCompute(sf, in)
	if err != nil {
		recordFailure(sf, acc, in, columnName, err)
		return
	}
	for _, p := range sf.Provides {
		acc[p.Name] = OkResult(out[p.Name])
	}
}

func rawValueFor(req StatKey, inj Injectors) any {
	switch req.Type {
	case rawSeriesType:
		return inj.RawSeries
	case sampledSeriesType:
		return inj.SampledSeries
	case rawDataFrameType:
		return inj.RawDataFrame
	default:
		return nil
	}
}

func recordFailure(sf StatFunc, acc map[string]Result, in Inputs, columnName string, cause error) {
	se := &StatError{StatName: sf.Name, ColumnName: columnName, Inputs: in, Cause: cause, Quiet: sf.Quiet}
	if sf.hasDefault() {
		for _, p := range sf.Provides {
			acc[p.Name] = OkResult(sf.Default)
		}
		return
	}
	for _, p := range sf.Provides {
		acc[p.Name] = ErrResult(se)
	}
}

func safeCompute(sf StatFunc, in Inputs) (out Outputs, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in stat %q: %v", sf.Name, r)
		}
	}()
	return sf.Compute(in)
}

// runLegacyAccumulatorStat handles the v1-adapter "computed phase" quirk:
// the legacy class's compute receives the entire live accumulator, not
// just its declared Requires, so it can inspect any already-computed
// slot regardless of whether it was declared (v1_adapter.py's
// computed_summary call convention).
func runLegacyAccumulatorStat(sf StatFunc, acc map[string]Result, columnName string) {
	snapshot := make(Inputs, len(acc))
	for k, r := range acc {
		if r.IsOk() {
			snapshot[k] = r.Value
		}
	}

	out, err := safeLegacyCompute(sf, acc)
	if err != nil {
		recordFailure(sf, acc, snapshot, columnName, err)
		return
	}
	for _, p := range sf.Provides {
		acc[p.Name] = OkResult(out[p.Name])
	}
}

func safeLegacyCompute(sf StatFunc, acc map[string]Result) (out Outputs, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in stat %q: %v", sf.Name, r)
		}
	}()
	return sf.legacyAccumulator(acc)
}
