package paf

import (
	"fmt"
	"strings"
)

// ResultKind discriminates a Result between a successful value and a
// failure (spec.md §5, "Ok | Err").
type ResultKind int

const (
	// Ok holds a successfully computed value.
	Ok ResultKind = iota
	// Err holds a StatError describing why the value is missing.
	Err
)

// Result is the typed outcome of computing one slot: either Ok with a
// value, or Err with the StatError that produced it. It is the Go
// realization of the Python original's Ok/Err dataclasses (stat_result.py).
type Result struct {
	Kind  ResultKind
	Value any
	Err   *StatError
}

// IsOk reports whether r holds a value.
func (r Result) IsOk() bool { return r.Kind == Ok }

// OkResult builds a successful Result.
func OkResult(value any) Result {
	return Result{Kind: Ok, Value: value}
}

// ErrResult builds a failed Result.
func ErrResult(err *StatError) Result {
	return Result{Kind: Err, Err: err}
}

// UpstreamError marks a failure as caused by a required input already
// being in the Err state, rather than by this stat's own Compute call. The
// executor short-circuits on UpstreamError without invoking Compute at all
// (spec.md §5, "upstream error propagation"; stat_result.py's
// UpstreamError).
type UpstreamError struct {
	// SlotName is the required slot that was already failed.
	SlotName string
	// Cause is the StatError that originally failed SlotName.
	Cause *StatError
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream slot %q already failed: %v", e.SlotName, e.Cause)
}

func (e *UpstreamError) Unwrap() error { return e.Cause }

// StatError records everything needed to explain, and reproduce, one
// failed stat invocation: which stat, which column, which inputs, and the
// underlying error (spec.md §6, "error reporting").
type StatError struct {
	StatName   string
	ColumnName string
	Inputs     Inputs
	Cause      error
	Quiet      bool
}

func (e *StatError) Error() string {
	return fmt.Sprintf("stat %q failed on column %q: %v", e.StatName, e.ColumnName, e.Cause)
}

func (e *StatError) Unwrap() error { return e.Cause }

// Repro renders a best-effort Go snippet that reproduces the failing call,
// the way stat_result.py's StatError.reproduce_code renders a Python
// repro: each input value as a literal (or a placeholder comment when it
// isn't representable as one), followed by the call and the error.
func (e *StatError) Repro() string {
	var b strings.Builder
	names := make([]string, 0, len(e.Inputs))
	for name := range e.Inputs {
		names = append(names, name)
	}
	sortStrings(names)

	for _, name := range names {
		fmt.Fprintf(&b, "%s := %s\n", name, reproLiteral(e.Inputs[name]))
	}
	fmt.Fprintf(&b, "%s(%s)\n", e.StatName, strings.Join(names, ", "))
	fmt.Fprintf(&b, "// error: %v\n", e.Cause)
	return b.String()
}

func reproLiteral(v any) string {
	switch val := v.(type) {
	case string:
		return fmt.Sprintf("%q", val)
	case fmt.Stringer:
		return fmt.Sprintf("%q /* %T */", val.String(), val)
	case nil:
		return "nil"
	default:
		return fmt.Sprintf("%#v", val)
	}
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// ColumnResult is the settled outcome of running the full stat DAG over
// one column: a Result per provided slot, plus the ordered list of
// StatErrors for reporting (spec.md §6's "resolve_accumulator").
type ColumnResult struct {
	ColumnName string
	Values     map[string]any
	Errors     []*StatError
}

// resolveAccumulator splits a raw slot-name -> Result accumulator into the
// plain-value map and ordered error list a caller actually wants, the way
// stat_result.py's resolve_accumulator does for the Python pipeline.
func resolveAccumulator(columnName string, acc map[string]Result, order []string) ColumnResult {
	values := make(map[string]any, len(acc))
	var errs []*StatError
	for _, name := range order {
		r, ok := acc[name]
		if !ok {
			continue
		}
		if r.IsOk() {
			values[name] = r.Value
		} else {
			values[name] = nil
			if r.Err != nil {
				errs = append(errs, r.Err)
			}
		}
	}
	return ColumnResult{ColumnName: columnName, Values: values, Errors: errs}
}
