// Package arch works out which architectures two
// branches can be compared on.
package arch

import (
	"fmt"

	"k8s.io/apimachinery/pkg/util/sets"
)

type WarningKind string

const (
	WarningMissingInFirst  WarningKind = "missing_in_first"
	WarningMissingInSecond WarningKind = "missing_in_second"
	WarningMissingInBoth   WarningKind = "missing_in_both"
)

// Warning describes an architecture that
// cannot be compared.
type Warning struct {
	Kind WarningKind `json:"kind"`
	Arch string      `json:"arch"`
	// ExistsIn is the branch that has the architecture. It
	// is empty for WarningMissingInBoth.
	ExistsIn  string   `json:"existsIn,omitempty"`
	MissingIn []string `json:"missingIn"`
}

func (w Warning) String() string {
	if w.Kind == WarningMissingInBoth {
		return fmt.Sprintf("architecture '%s' is missing in both branches", w.Arch)
	}
	return fmt.Sprintf("architecture '%s' exists in '%s' but is missing in '%s'", w.Arch, w.ExistsIn, w.MissingIn[0])
}

type Reconciliation struct {
	// Comparable contains the architectures
	// present in both branches.
	Comparable      sets.Set[string]
	MissingInFirst  sets.Set[string]
	MissingInSecond sets.Set[string]
	// MissingInBoth contains the requested architectures
	// that neither branch has.
	MissingInBoth sets.Set[string]
}

// Reconcile splits the architectures of two branches. The requested
// set is optional and only affects MissingInBoth.
func Reconcile(first, second, requested sets.Set[string]) Reconciliation {
	if first == nil {
		first = sets.New[string]()
	}
	if second == nil {
		second = sets.New[string]()
	}
	r := Reconciliation{
		Comparable:      first.Intersection(second),
		MissingInFirst:  second.Difference(first),
		MissingInSecond: first.Difference(second),
		MissingInBoth:   sets.New[string](),
	}
	if requested.Len() > 0 {
		r.MissingInBoth = requested.Difference(first.Union(second))
	}
	return r
}

// Warnings converts the architectures that cannot be compared into
// warnings, naming the branches. The output is sorted by kind
// and then by architecture.
func (r Reconciliation) Warnings(first, second string) []Warning {
	var out []Warning
	for _, a := range sets.List(r.MissingInFirst) {
		out = append(out, Warning{
			Kind:      WarningMissingInFirst,
			Arch:      a,
			ExistsIn:  second,
			MissingIn: []string{first},
		})
	}
	for _, a := range sets.List(r.MissingInSecond) {
		out = append(out, Warning{
			Kind:      WarningMissingInSecond,
			Arch:      a,
			ExistsIn:  first,
			MissingIn: []string{second},
		})
	}
	for _, a := range sets.List(r.MissingInBoth) {
		out = append(out, Warning{
			Kind:      WarningMissingInBoth,
			Arch:      a,
			MissingIn: []string{first, second},
		})
	}
	return out
}
