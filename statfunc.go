package paf

import (
	"fmt"
	"reflect"
	"sort"
)

// Inputs is the input record passed to a StatFunc's Compute: slot name to
// value. Outputs is the corresponding result record. Both are plain maps
// rather than an erased-handle arena — paf schedules at most a few dozen
// stats per column, so the extra allocation is not worth the complexity
// (spec.md §9, "heterogeneous input records").
type Inputs map[string]any

// Outputs is the result record a Compute function returns.
type Outputs map[string]any

// ComputeFunc is the signature accepted by the builder API (spec.md §9's
// "explicit builder API", required for a language without structural
// introspection of parameter names).
type ComputeFunc func(in Inputs) (Outputs, error)

// StatFunc is one registered stat computation: a compute callable plus its
// input/output metadata. StatFunc values are immutable once built
// (spec.md §3, "Lifecycle").
type StatFunc struct {
	Name         string
	Compute      ComputeFunc
	Requires     []StatKey
	Provides     []StatKey
	NeedsRaw     bool
	ColumnFilter Predicate
	Quiet        bool
	Default      any

	// registeredAt is the call site of the Build()/Stat() call that
	// produced this StatFunc, used for diagnostics (SPEC_FULL.md §2).
	registeredAt string

	// legacyAccumulator, when non-nil, tells the executor to hand this
	// stat the full live accumulator instead of its built input record
	// (the v1-adapter "computed phase" quirk; see legacy.go).
	legacyAccumulator func(acc map[string]Result) (Outputs, error)
}

func (sf StatFunc) hasDefault() bool {
	return sf.Default != MISSING
}

// builder implements the fluent construction API.
type builder struct {
	sf  StatFunc
	err error
}

// NewStatFunc starts building a StatFunc explicitly: the Go analogue of
// the Python @stat decorator for callers whose compute function isn't a
// plain `func(...) (...)` reflectable signature.
func NewStatFunc() *builder {
	return &builder{sf: StatFunc{Default: MISSING}}
}

// Name sets the stat's identifier. Required.
func (b *builder) Name(name string) *builder {
	b.sf.Name = name
	return b
}

// Requires sets the ordered list of input slots.
func (b *builder) Requires(keys ...StatKey) *builder {
	b.sf.Requires = keys
	for _, k := range keys {
		if k.isRawMarker() {
			b.sf.NeedsRaw = true
		}
	}
	return b
}

// Provides sets the list of output slots. At least one is required.
func (b *builder) Provides(keys ...StatKey) *builder {
	b.sf.Provides = keys
	return b
}

// Compute sets the callable that maps an input record to an output
// record.
func (b *builder) Compute(fn ComputeFunc) *builder {
	b.sf.Compute = fn
	return b
}

// ColumnFilter restricts this stat to columns for which the predicate
// returns true. Absent means "applies to all columns" (spec.md §3).
func (b *builder) ColumnFilter(p Predicate) *builder {
	b.sf.ColumnFilter = p
	return b
}

// Quiet suppresses this stat's errors from default renderers (spec.md §3,
// §7 "quiet stats are still recorded... but SHOULD be filtered").
func (b *builder) Quiet() *builder {
	b.sf.Quiet = true
	return b
}

// Default sets a fallback value applied to every Provides slot on
// failure. Pass MISSING (the default) for "no fallback".
func (b *builder) Default(value any) *builder {
	b.sf.Default = value
	return b
}

// Build finalizes construction. Construction is pure: no validation
// against a pipeline occurs here (spec.md §4.1); only the shape of this
// one StatFunc is checked.
func (b *builder) Build() (StatFunc, error) {
	if b.sf.Name == "" {
		return StatFunc{}, &InvalidStatFuncError{Reason: "name must not be empty"}
	}
	if len(b.sf.Provides) == 0 {
		return StatFunc{}, &InvalidStatFuncError{StatName: b.sf.Name, Reason: "must provide at least one slot"}
	}
	for _, p := range b.sf.Provides {
		if p.isRawMarker() {
			return StatFunc{}, &RawMarkerAsProvideError{StatName: b.sf.Name, SlotName: p.Name}
		}
	}
	if b.sf.Compute == nil && b.sf.legacyAccumulator == nil {
		return StatFunc{}, &InvalidStatFuncError{StatName: b.sf.Name, Reason: "Compute must be set"}
	}
	b.sf.registeredAt = getCaller(defaultFrameSkipper)
	return b.sf, nil
}

// StatOption configures the reflective Stat constructor.
type StatOption func(*reflectConfig)

type reflectConfig struct {
	requiresNames []string
	columnFilter  Predicate
	quiet         bool
	deflt         any
}

// Requires supplies the parameter names for a reflective Stat registration
// whose compute function takes positional arguments rather than a single
// named struct — Go has no runtime access to parameter names, so the
// caller supplies them explicitly (SPEC_FULL.md §4.1).
func Requires(names ...string) StatOption {
	return func(c *reflectConfig) { c.requiresNames = names }
}

// WithColumnFilter is the StatOption form of builder.ColumnFilter.
func WithColumnFilter(p Predicate) StatOption {
	return func(c *reflectConfig) { c.columnFilter = p }
}

// WithQuiet is the StatOption form of builder.Quiet.
func WithQuiet() StatOption {
	return func(c *reflectConfig) { c.quiet = true }
}

// WithDefault is the StatOption form of builder.Default.
func WithDefault(v any) StatOption {
	return func(c *reflectConfig) { c.deflt = v }
}

// Stat derives a StatFunc from a function's signature, the way dig derives
// a constructor's dependencies from reflect.Type: parameter types become
// requires, the return type becomes provides. Because Go erases parameter
// names, one of two shapes is required:
//
//   - a single struct argument, whose exported field names become require
//     slot names and whose field types become slot types (the analogue of
//     Python's inspect.signature parameter names); or
//   - zero or more positional arguments paired with Requires(names...).
//
// The return type follows the same rule as the Python original: a struct
// return value with N exported fields produces N provides slots (the Go
// analogue of a TypedDict return); any other single return type, or no
// return value besides an error, produces one slot named after the
// registered stat name. Several non-error return values produce one slot
// each, named name_0, name_1, and so on.
func Stat(name string, fn any, opts ...StatOption) (StatFunc, error) {
	cfg := reflectConfig{deflt: MISSING}
	for _, o := range opts {
		o(&cfg)
	}

	fv := reflect.ValueOf(fn)
	ft := fv.Type()
	if ft.Kind() != reflect.Func {
		return StatFunc{}, &InvalidStatFuncError{StatName: name, Reason: fmt.Sprintf("Stat requires a function, got %v", ft)}
	}

	requires, needsRaw, err := requiresFromSignature(name, ft, cfg.requiresNames)
	if err != nil {
		return StatFunc{}, err
	}

	provides := providesFromReturn(name, ft)
	structArg := ft.NumIn() == 1 && ft.In(0).Kind() == reflect.Struct && len(cfg.requiresNames) == 0

	compute := func(in Inputs) (Outputs, error) {
		if structArg {
			sv := reflect.New(ft.In(0)).Elem()
			for _, r := range requires {
				if v, ok := in[r.Name]; ok && v != nil {
					sv.FieldByName(r.Name).Set(reflect.ValueOf(v))
				}
			}
			return unpackReflectedReturn(ft, provides, fv.Call([]reflect.Value{sv}))
		}
		args := make([]reflect.Value, len(requires))
		for i, r := range requires {
			v, ok := in[r.Name]
			if !ok {
				args[i] = reflect.Zero(ft.In(i))
				continue
			}
			if v == nil {
				args[i] = reflect.Zero(ft.In(i))
				continue
			}
			args[i] = reflect.ValueOf(v)
		}
		out := fv.Call(args)
		return unpackReflectedReturn(ft, provides, out)
	}

	b := NewStatFunc().Name(name).Requires(requires...).Provides(provides...).Compute(compute)
	b.sf.NeedsRaw = needsRaw
	if cfg.columnFilter != nil {
		b.ColumnFilter(cfg.columnFilter)
	}
	if cfg.quiet {
		b.Quiet()
	}
	b.Default(cfg.deflt)
	return b.Build()
}

func requiresFromSignature(name string, ft reflect.Type, names []string) ([]StatKey, bool, error) {
	n := ft.NumIn()
	if n == 1 && ft.In(0).Kind() == reflect.Struct && len(names) == 0 {
		st := ft.In(0)
		requires := make([]StatKey, 0, st.NumField())
		needsRaw := false
		for i := 0; i < st.NumField(); i++ {
			f := st.Field(i)
			if f.PkgPath != "" { // unexported
				continue
			}
			requires = append(requires, StatKey{Name: f.Name, Type: f.Type})
			if isRawMarkerType(f.Type) {
				needsRaw = true
			}
		}
		return requires, needsRaw, nil
	}

	if len(names) != n {
		return nil, false, &InvalidStatFuncError{
			StatName: name,
			Reason:   fmt.Sprintf("function takes %d positional argument(s); Requires(...) supplied %d name(s)", n, len(names)),
		}
	}
	requires := make([]StatKey, n)
	needsRaw := false
	for i := 0; i < n; i++ {
		t := ft.In(i)
		requires[i] = StatKey{Name: names[i], Type: t}
		if isRawMarkerType(t) {
			needsRaw = true
		}
	}
	return requires, needsRaw, nil
}

func providesFromReturn(name string, ft reflect.Type) []StatKey {
	numOut := ft.NumOut()
	// Trailing `error` return is part of the Go calling convention, not a
	// provided slot.
	valueOuts := numOut
	if numOut > 0 && ft.Out(numOut-1) == errorType {
		valueOuts--
	}

	if valueOuts == 0 {
		return []StatKey{{Name: name, Type: Any}}
	}
	if valueOuts == 1 {
		rt := ft.Out(0)
		if rt.Kind() == reflect.Struct {
			return providesFromStruct(rt)
		}
		return []StatKey{{Name: name, Type: rt}}
	}

	// Multiple non-error returns: name them positionally. Rare in
	// practice; the struct-return shape above is the idiomatic one.
	keys := make([]StatKey, valueOuts)
	for i := 0; i < valueOuts; i++ {
		keys[i] = StatKey{Name: fmt.Sprintf("%s_%d", name, i), Type: ft.Out(i)}
	}
	return keys
}

func providesFromStruct(rt reflect.Type) []StatKey {
	keys := make([]StatKey, 0, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if f.PkgPath != "" {
			continue
		}
		keys = append(keys, StatKey{Name: f.Name, Type: f.Type})
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Name < keys[j].Name })
	return keys
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

func unpackReflectedReturn(ft reflect.Type, provides []StatKey, out []reflect.Value) (Outputs, error) {
	numOut := len(out)
	if numOut > 0 && ft.Out(numOut-1) == errorType {
		if errv := out[numOut-1]; !errv.IsNil() {
			return nil, errv.Interface().(error)
		}
		out = out[:numOut-1]
	}

	if len(out) == 1 && out[0].Kind() == reflect.Struct {
		result := make(Outputs, len(provides))
		rv := out[0]
		rt := rv.Type()
		for i := 0; i < rt.NumField(); i++ {
			f := rt.Field(i)
			if f.PkgPath != "" {
				continue
			}
			result[f.Name] = rv.Field(i).Interface()
		}
		return result, nil
	}

	result := make(Outputs, len(provides))
	for i, p := range provides {
		if i < len(out) {
			result[p.Name] = out[i].Interface()
		}
	}
	return result, nil
}
