package paf

import "reflect"

// Any is the wildcard StatKey type. A StatKey whose Type is Any is
// compatible with every other type during the advisory type check in
// BuildGlobalOrder (spec.md §4.2 step 2).
var Any reflect.Type

// StatKey is a named, typed slot in the stat DAG.
//
// Two StatKeys are equal iff their Names are equal; Type is carried only
// for the advisory compatibility warning performed at DAG construction.
type StatKey struct {
	Name string
	Type reflect.Type
}

func (k StatKey) isRawMarker() bool {
	return k.Type == rawSeriesType || k.Type == sampledSeriesType || k.Type == rawDataFrameType
}

// RawSeries marks a requirement as "the raw column, as a sequence".
// RawSeries is satisfied by data injection, never by another StatFunc's
// Provides (spec.md §3, "raw-data markers").
type RawSeries struct{}

// SampledSeries marks a requirement as "a downsampled view of the column".
type SampledSeries struct{}

// RawDataFrame marks a requirement as "the whole table".
type RawDataFrame struct{}

var (
	rawSeriesType     = reflect.TypeOf(RawSeries{})
	sampledSeriesType = reflect.TypeOf(SampledSeries{})
	rawDataFrameType  = reflect.TypeOf(RawDataFrame{})
)

// isRawMarkerType reports whether t is one of the three reserved raw-data
// marker types.
func isRawMarkerType(t reflect.Type) bool {
	return t == rawSeriesType || t == sampledSeriesType || t == rawDataFrameType
}

// MISSING is the sentinel used for StatFunc.Default to mean "no fallback
// value was configured". It is distinct from any valid default, including
// a nil or zero value, so a stat may legitimately default to nil.
var MISSING = &missingSentinel{}

type missingSentinel struct{}

func (s *missingSentinel) String() string { return "<MISSING>" }
