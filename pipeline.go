package paf

import "context"

// ColumnInput is the Go stand-in for "a named column with a dtype" — the
// boundary between a caller's own DataFrame abstraction and paf, which
// defines no DataFrame of its own (spec.md §1).
type ColumnInput struct {
	OrigName      string
	RewrittenName string
	DType         ColumnType
	Raw           any
	Sampled       any
}

// Summary is the per-column result map ProcessDataFrame returns: column
// name to slot name to value. A failed slot with no configured default is
// present with a nil value (spec.md §3, "Summary").
type Summary map[string]map[string]any

// FuncSpec pairs a plain Go function with the name and options needed to
// reflect it into a StatFunc via Stat. It lets New/AddStat accept bare
// functions in their specs slice, the same convenience
// stat_pipeline.py's _normalize_inputs gives decorated functions.
type FuncSpec struct {
	Name string
	Fn   any
	Opts []StatOption
}

// Pipeline is the assembled, validated stat DAG ready to run against
// columns (spec.md §4.7, "pipeline façade").
type Pipeline struct {
	funcs []StatFunc
	graph *Graph
	pool  *columnPool
}

type pipelineConfig struct {
	unitTest    bool
	parallelism int
}

// PipelineOption configures New.
type PipelineOption func(*pipelineConfig)

// WithUnitTest controls whether New runs the bundled degenerate-column
// smoke test immediately after construction (default true, spec.md §4.7's
// run_unit_test).
func WithUnitTest(run bool) PipelineOption {
	return func(c *pipelineConfig) { c.unitTest = run }
}

// WithParallelism runs ProcessDataFrame's per-column loop across a
// goroutine pool of size n instead of serially. n <= 1 keeps the default
// serial path.
func WithParallelism(n int) PipelineOption {
	return func(c *pipelineConfig) { c.parallelism = n }
}

// New normalizes specs into StatFuncs, validates and orders the resulting
// DAG, and (by default) runs a smoke test against DegenerateColumns.
// specs accepts StatFunc values, []StatFunc ("stat group"), FuncSpec, and
// anything implementing LegacyStat.
func New(specs []any, opts ...PipelineOption) (*Pipeline, error) {
	cfg := pipelineConfig{unitTest: true}
	for _, o := range opts {
		o(&cfg)
	}

	funcs, err := normalizeSpecs(specs)
	if err != nil {
		return nil, err
	}

	graph, err := BuildGlobalOrder(funcs)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{funcs: funcs, graph: graph}
	if cfg.parallelism > 1 {
		pool, err := newColumnPool(cfg.parallelism)
		if err != nil {
			return nil, err
		}
		p.pool = pool
	}

	if cfg.unitTest {
		p.ProcessDataFrame(DegenerateColumns())
	}

	return p, nil
}

func normalizeSpecs(specs []any) ([]StatFunc, error) {
	var out []StatFunc
	for _, spec := range specs {
		switch v := spec.(type) {
		case StatFunc:
			out = append(out, v)
		case []StatFunc:
			out = append(out, v...)
		case FuncSpec:
			sf, err := Stat(v.Name, v.Fn, v.Opts...)
			if err != nil {
				return nil, err
			}
			out = append(out, sf)
		case LegacyStat:
			out = append(out, AdaptLegacy(v)...)
		default:
			return nil, &InvalidStatFuncError{Reason: "unsupported spec type in pipeline construction"}
		}
	}
	return out, nil
}

// ProcessDataFrame runs the full stat DAG over every column, injecting
// orig_col_name and rewritten_col_name into each column's result map
// after ProcessColumn-equivalent execution completes — never from a
// StatFunc (spec.md §6, restored from stat_pipeline.py's process_df).
func (p *Pipeline) ProcessDataFrame(cols []ColumnInput) (Summary, []StatError) {
	run := func(i int) ColumnResult {
		col := cols[i]
		cg := BuildColumnOrder(p.graph, col.DType)
		inj := Injectors{RawSeries: col.Raw, SampledSeries: col.Sampled}
		seed := map[string]any{
			"orig_col_name":      col.OrigName,
			"rewritten_col_name": col.RewrittenName,
		}
		r := RunColumn(cg, inj, col.RewrittenName, seed)
		r.Values["orig_col_name"] = col.OrigName
		r.Values["rewritten_col_name"] = col.RewrittenName
		return r
	}

	var results []ColumnResult
	if p.pool != nil {
		results = p.pool.runAll(context.Background(), len(cols), run)
	} else {
		results = make([]ColumnResult, len(cols))
		for i := range cols {
			results[i] = run(i)
		}
	}

	summary := make(Summary, len(cols))
	var errs []StatError
	for i, r := range results {
		summary[cols[i].OrigName] = r.Values
		for _, se := range r.Errors {
			errs = append(errs, *se)
		}
	}
	return summary, errs
}

// ProcessColumn runs the stat DAG over a single column without the
// orig_col_name/rewritten_col_name bookkeeping ProcessDataFrame adds —
// that rewriting is a façade-level concern, not an executor one
// (spec.md §6).
func (p *Pipeline) ProcessColumn(name string, dtype ColumnType, raw, sampled any, df any) (map[string]any, []StatError) {
	cg := BuildColumnOrder(p.graph, dtype)
	inj := Injectors{RawSeries: raw, SampledSeries: sampled, RawDataFrame: df}
	result := RunColumn(cg, inj, name, nil)

	errs := make([]StatError, 0, len(result.Errors))
	for _, se := range result.Errors {
		errs = append(errs, *se)
	}
	return result.Values, errs
}

// AddStat normalizes and appends one more spec to the pipeline, rebuilding
// and revalidating the whole DAG, then runs the bundled degenerate-column
// smoke test against the updated pipeline and reports whether it passed —
// the Go analogue of stat_pipeline.py's add_stat, which updates its state
// and then returns self.unit_test()'s outcome (spec.md §4.7's
// `add_stat(spec) -> (unit_test_passed, [StatError])`). spec.md §5
// requires the caller to serialize calls to AddStat; Pipeline keeps no
// internal lock. On a DAG configuration failure the pipeline is left
// unchanged and the failure is reported as a single StatError; on success
// the new DAG replaces the old one regardless of whether the smoke test
// below passes, matching "does not prevent construction" for New.
func (p *Pipeline) AddStat(spec any) (bool, []StatError) {
	added, err := normalizeSpecs([]any{spec})
	if err != nil {
		return false, []StatError{{StatName: "add_stat", Cause: err}}
	}

	candidate := make([]StatFunc, 0, len(p.funcs)+len(added))
	candidate = append(candidate, p.funcs...)
	candidate = append(candidate, added...)

	graph, err := BuildGlobalOrder(candidate)
	if err != nil {
		return false, []StatError{{StatName: "add_stat", Cause: err}}
	}

	p.funcs = candidate
	p.graph = graph

	_, errs := p.ProcessDataFrame(DegenerateColumns())
	return len(errs) == 0, errs
}

// TestStat runs one registered stat directly against caller-supplied
// inputs, bypassing the DAG and accumulator entirely — the Go analogue of
// stat_pipeline.py's test_stat, used to unit test a single stat function
// in isolation.
func (p *Pipeline) TestStat(name string, inputs map[string]any) Result {
	sf, ok := p.graph.StatByName(name)
	if !ok {
		return ErrResult(&StatError{StatName: name, Cause: &MissingProviderError{StatName: name, SlotName: name}})
	}

	in := make(Inputs, len(sf.Requires))
	for _, req := range sf.Requires {
		in[req.Name] = inputs[req.Name]
	}

	if sf.legacyAccumulator != nil {
		acc := make(map[string]Result, len(inputs))
		for k, v := range inputs {
			acc[k] = OkResult(v)
		}
		out, err := safeLegacyCompute(sf, acc)
		if err != nil {
			return ErrResult(&StatError{StatName: name, Inputs: Inputs(inputs), Cause: err, Quiet: sf.Quiet})
		}
		return OkResult(map[string]any(out))
	}

	out, err := safeCompute(sf, in)
	if err != nil {
		return ErrResult(&StatError{StatName: name, Inputs: in, Cause: err, Quiet: sf.Quiet})
	}
	return OkResult(map[string]any(out))
}

// Warnings returns the advisory provider/consumer type mismatches found
// while building the current DAG (spec.md §4.2 step 2, §7 "Type mismatch
// (advisory)"). These never fail construction; a caller may log or
// surface them as it sees fit.
func (p *Pipeline) Warnings() []error {
	return p.graph.Warnings
}

// Explain renders a short human-readable description of one registered
// stat's place in the DAG: what it requires, what it provides, and where
// it was registered (spec.md §4.7's explain()).
func (p *Pipeline) Explain(name string) (string, error) {
	sf, ok := p.graph.StatByName(name)
	if !ok {
		return "", &MissingProviderError{StatName: name, SlotName: name}
	}
	return explainStatFunc(sf), nil
}
