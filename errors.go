package paf

import "fmt"

// InvalidStatFuncError is returned by builder.Build or Stat when a StatFunc
// cannot be constructed: an empty name, no Provides slots, or (on the
// reflective path) a signature that can't be mapped to named slots
// (SPEC_FULL.md §4.1).
type InvalidStatFuncError struct {
	StatName string
	Reason   string
}

func (e *InvalidStatFuncError) Error() string {
	if e.StatName == "" {
		return fmt.Sprintf("invalid stat func: %s", e.Reason)
	}
	return fmt.Sprintf("invalid stat func %q: %s", e.StatName, e.Reason)
}

// RawMarkerAsProvideError is returned when a StatFunc declares one of the
// reserved raw-data marker types (RawSeries, SampledSeries, RawDataFrame)
// as a Provides slot. Raw markers are satisfied only by data injection,
// never by another stat's output (spec.md §3).
type RawMarkerAsProvideError struct {
	StatName string
	SlotName string
}

func (e *RawMarkerAsProvideError) Error() string {
	return fmt.Sprintf("stat %q: %q is a raw-data marker and cannot be a Provides slot", e.StatName, e.SlotName)
}

// DAGConfigError aggregates the configuration problems found while
// building the global stat DAG: missing providers, duplicate providers,
// and cycles (spec.md §4.2, "DAGConfigError"). The causes are collected
// with go-multierror and kept in Causes, so callers may range over Causes
// for the individual errors.
type DAGConfigError struct {
	Causes []error
}

func (e *DAGConfigError) Error() string {
	if len(e.Causes) == 1 {
		return e.Causes[0].Error()
	}
	s := fmt.Sprintf("%d stat DAG configuration error(s) found:", len(e.Causes))
	for _, c := range e.Causes {
		s += "\n\t* " + c.Error()
	}
	return s
}

func (e *DAGConfigError) Unwrap() []error { return e.Causes }

// MissingProviderError reports that a StatFunc requires a slot that no
// registered StatFunc provides (and that is not a raw-data marker).
type MissingProviderError struct {
	StatName string
	SlotName string
}

func (e *MissingProviderError) Error() string {
	return fmt.Sprintf("stat %q requires %q, which nothing provides", e.StatName, e.SlotName)
}

// DuplicateProviderError reports that more than one registered StatFunc
// provides the same slot name.
type DuplicateProviderError struct {
	SlotName  string
	StatNames []string
}

func (e *DuplicateProviderError) Error() string {
	return fmt.Sprintf("slot %q is provided by more than one stat: %v", e.SlotName, e.StatNames)
}

// TypeMismatchWarning reports that a required slot's declared type is not
// assignable from its provider's declared type. This is advisory only
// (spec.md §4.2 step 2, §7 "Type mismatch (advisory)"): it never fails
// DAG construction, it is only collected onto Graph.Warnings /
// Pipeline.Warnings for a caller to inspect.
type TypeMismatchWarning struct {
	StatName     string
	SlotName     string
	ProvidedType string
	RequiredType string
}

func (w *TypeMismatchWarning) Error() string {
	return fmt.Sprintf("stat %q requires %q as %s, but its provider produces %s (advisory, not enforced)",
		w.StatName, w.SlotName, w.RequiredType, w.ProvidedType)
}

// CycleError reports a dependency cycle discovered while building the stat
// DAG. Path lists the stat names in the cycle, in dependency order,
// starting and ending on the same name (spec.md §4.2, "cycle detection").
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	s := "cycle detected in stat dependencies: "
	for i, name := range e.Path {
		if i > 0 {
			s += " -> "
		}
		s += name
	}
	return s
}

// wrappedError is a wrapper around error that tracks the root cause of an
// error chain, the way the stat pipeline's reproduction text tracks the
// originating exception through layers of context (stat_result.py's
// reproduce_code, adapted for Go's error wrapping).
type wrappedError struct {
	rootCause error
	err       error
}

func (e wrappedError) Error() string { return e.err.Error() }

func (e wrappedError) Unwrap() error { return e.rootCause }

// errWrapf wraps err with additional context while preserving the original
// error as the root cause, retrievable with errors.Unwrap.
func errWrapf(err error, msg string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	rootCause := err
	if we, ok := err.(wrappedError); ok {
		rootCause = we.rootCause
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return wrappedError{
		rootCause: rootCause,
		err:       fmt.Errorf("%v: %w", msg, err),
	}
}
