package paf

import (
	"fmt"
	"runtime"
	"strings"
)

// FrameSkipper decides whether a stack frame should be skipped when
// searching for the true caller of a registration call.
type FrameSkipper func(f runtime.Frame) bool

// defaultFrameSkipper skips frames inside this package itself, so
// registeredAt reports the caller's call site rather than a line inside
// builder.Build or Stat.
func defaultFrameSkipper(f runtime.Frame) bool {
	if strings.Contains(f.File, "_test.go") {
		return false
	}
	if strings.HasPrefix(f.Function, "github.com/tabstat/paf.") {
		return true
	}
	return false
}

// getCaller returns a formatted "function (file:line)" describing the
// first stack frame that skipper does not reject. Used to attach a
// reproducible call site to each registered StatFunc (SPEC_FULL.md §2).
func getCaller(skipper FrameSkipper) string {
	pcs := make([]uintptr, 8)
	n := runtime.Callers(2, pcs)
	if n > 0 {
		frames := runtime.CallersFrames(pcs)
		for f, more := frames.Next(); more; f, more = frames.Next() {
			if skipper(f) {
				continue
			}
			return fmt.Sprintf("%s (%s:%d)", f.Function, f.File, f.Line)
		}
	}
	return "n/a"
}
