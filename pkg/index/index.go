package index

import (
	"fmt"

	v1 "github.com/djcass44/rdb-diff/pkg/api/v1"
	"k8s.io/apimachinery/pkg/util/sets"
)

// MalformedRecordError is returned when a package
// is missing a field that the index relies on.
type MalformedRecordError struct {
	// Position of the record in the input list.
	Position int
	Field    string
	Package  v1.Package
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("package record %d is missing required field '%s'", e.Position, e.Field)
}

func (*MalformedRecordError) Kind() v1.ErrorKind {
	return v1.ErrorKindMalformedRecord
}

// Build groups packages by architecture and then by name. When
// the filter is not empty, packages for any other architecture
// are skipped.
//
// If the same architecture and name appear more than once,
// the last record wins.
func Build(packages []v1.Package, filter sets.Set[string]) (v1.Index, error) {
	out := v1.Index{}
	for i, p := range packages {
		if p.Name == "" {
			return nil, &MalformedRecordError{Position: i, Field: "name", Package: p}
		}
		if p.Arch == "" {
			return nil, &MalformedRecordError{Position: i, Field: "arch", Package: p}
		}
		if filter.Len() > 0 && !filter.Has(p.Arch) {
			continue
		}
		bucket, ok := out[p.Arch]
		if !ok {
			bucket = map[string]v1.Package{}
			out[p.Arch] = bucket
		}
		bucket[p.Name] = p
	}
	return out, nil
}
