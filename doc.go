// Copyright (c) 2017 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package paf is a pluggable analysis framework: a typed, dependency-ordered
// execution engine for per-column statistics over tabular data.
//
// A stat function declares what it requires, what it provides, and which
// column types it applies to. paf validates that a set of stat functions
// forms a satisfiable DAG, orders it topologically, and runs it once per
// column with typed Ok/Err result propagation.
//
// # Registering a stat function
//
// The most direct way to register a stat is the builder:
//
//	distinctPer, err := paf.NewStatFunc().
//		Name("distinct_per").
//		Requires(paf.StatKey{Name: "length"}, paf.StatKey{Name: "distinct"}).
//		Provides(paf.StatKey{Name: "distinct_per"}).
//		Compute(func(in paf.Inputs) (paf.Outputs, error) {
//			length := in["length"].(int)
//			distinct := in["distinct"].(int)
//			return paf.Outputs{"distinct_per": float64(distinct) / float64(length)}, nil
//		}).
//		Build()
//
// Stat functions that accept a single struct of named fields can instead be
// registered reflectively with Stat, which derives requires/provides from
// the function's signature the way dig derives a constructor's dependencies.
//
// # Building a pipeline
//
//	pipeline, err := paf.New([]any{lengthStat, distinctStat, distinctPer})
//	summary, errs := pipeline.ProcessDataFrame(columns)
//
// # Scope
//
// paf schedules stat functions; it does not define a DataFrame, a file
// format, or a transport. Those are external collaborators that consume
// paf through ColumnInput (in) and Summary/StatError (out).
package paf
