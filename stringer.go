package paf

import (
	"fmt"
	"strings"
)

func (k StatKey) String() string {
	if k.Type == nil || k.Type == Any {
		return k.Name
	}
	return fmt.Sprintf("%s:%s", k.Name, k.Type)
}

func (sf StatFunc) String() string {
	reqs := make([]string, len(sf.Requires))
	for i, r := range sf.Requires {
		reqs[i] = r.String()
	}
	provs := make([]string, len(sf.Provides))
	for i, p := range sf.Provides {
		provs[i] = p.String()
	}
	return fmt.Sprintf("%s(%s) -> (%s)", sf.Name, strings.Join(reqs, ", "), strings.Join(provs, ", "))
}

func (r Result) String() string {
	if r.IsOk() {
		return fmt.Sprintf("Ok(%v)", r.Value)
	}
	return fmt.Sprintf("Err(%v)", r.Err)
}

// explainStatFunc renders a short description of one stat's place in the
// DAG, the content behind Pipeline.Explain (spec.md §4.7).
func explainStatFunc(sf StatFunc) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", sf.String())
	if sf.registeredAt != "" {
		fmt.Fprintf(&b, "\tregistered at %s\n", sf.registeredAt)
	}
	if sf.ColumnFilter != nil {
		fmt.Fprintf(&b, "\tcolumn_filter: set\n")
	} else {
		fmt.Fprintf(&b, "\tcolumn_filter: none (applies to all columns)\n")
	}
	if sf.Quiet {
		fmt.Fprintf(&b, "\tquiet: true\n")
	}
	if sf.hasDefault() {
		fmt.Fprintf(&b, "\tdefault: %v\n", sf.Default)
	}
	return b.String()
}
