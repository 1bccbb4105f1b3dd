package v1

import (
	"encoding/json"

	"k8s.io/apimachinery/pkg/util/sets"
)

// Package is a single binary package within a branch.
type Package struct {
	Name      string `json:"name"`
	Epoch     int    `json:"epoch"`
	Version   string `json:"version"`
	Release   string `json:"release,omitempty"`
	Arch      string `json:"arch"`
	Disttag   string `json:"disttag,omitempty"`
	Buildtime int64  `json:"buildtime,omitempty"`
	Source    string `json:"source,omitempty"`

	// Extra contains any fields returned by the
	// API that we don't know about.
	Extra map[string]json.RawMessage `json:"-"`
}

var packageFields = []string{"name", "epoch", "version", "release", "arch", "disttag", "buildtime", "source"}

func (p *Package) UnmarshalJSON(data []byte) error {
	type alias Package
	var pkg alias
	if err := json.Unmarshal(data, &pkg); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, k := range packageFields {
		delete(raw, k)
	}
	if len(raw) > 0 {
		pkg.Extra = raw
	}
	*p = Package(pkg)
	return nil
}

func (p Package) MarshalJSON() ([]byte, error) {
	type alias Package
	data, err := json.Marshal(alias(p))
	if err != nil {
		return nil, err
	}
	if len(p.Extra) == 0 {
		return data, nil
	}
	var out map[string]json.RawMessage
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	for k, v := range p.Extra {
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}
	return json.Marshal(out)
}

// BranchPackages is the response of the
// branch_binary_packages export.
type BranchPackages struct {
	RequestArgs map[string]any `json:"request_args,omitempty"`
	Length      int            `json:"length"`
	Packages    []Package      `json:"packages"`
}

// Index groups packages by architecture and then by name.
type Index map[string]map[string]Package

func (idx Index) Arches() sets.Set[string] {
	out := sets.New[string]()
	for k := range idx {
		out.Insert(k)
	}
	return out
}

// Names returns the package names known for a
// given architecture.
func (idx Index) Names(arch string) sets.Set[string] {
	out := sets.New[string]()
	for k := range idx[arch] {
		out.Insert(k)
	}
	return out
}
