package compare

import (
	"context"
	"fmt"

	v1 "github.com/djcass44/rdb-diff/pkg/api/v1"
	"github.com/djcass44/rdb-diff/pkg/arch"
	"github.com/djcass44/rdb-diff/pkg/index"
	"github.com/djcass44/rdb-diff/pkg/versionutil"
	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"
	"k8s.io/apimachinery/pkg/util/sets"
)

// Source provides the binary packages of a branch.
type Source interface {
	// BranchPackages returns the packages of a branch. The arch
	// is a hint and may be empty, in which case every
	// architecture should be returned.
	BranchPackages(ctx context.Context, branch, arch string) (*v1.BranchPackages, error)
}

type Comparator struct {
	source   Source
	versions versionutil.Comparator
}

// Report is the outcome of a comparison.
type Report struct {
	Result   v1.Result
	Warnings []arch.Warning
}

func NewComparator(source Source, versions versionutil.Comparator) *Comparator {
	if versions == nil {
		versions = versionutil.RPM{}
	}
	return &Comparator{
		source:   source,
		versions: versions,
	}
}

// Compare fetches both branches and compares every architecture
// they have in common. If arches is not empty, only those
// architectures are considered.
func (c *Comparator) Compare(ctx context.Context, first, second string, arches []string) (*Report, error) {
	log := logr.FromContextOrDiscard(ctx).WithValues("first", first, "second", second)

	requested := sets.New(arches...)
	// narrow the request if we can, it doesn't
	// change the result
	var hint string
	if requested.Len() == 1 {
		hint = arches[0]
	}

	log.V(1).Info("fetching branches", "arches", arches, "hint", hint)
	firstPkgs, secondPkgs, err := c.fetch(ctx, first, second, hint)
	if err != nil {
		return nil, err
	}

	firstIdx, err := index.Build(firstPkgs.Packages, requested)
	if err != nil {
		return nil, fmt.Errorf("indexing branch '%s': %w", first, err)
	}
	secondIdx, err := index.Build(secondPkgs.Packages, requested)
	if err != nil {
		return nil, fmt.Errorf("indexing branch '%s': %w", second, err)
	}
	log.V(2).Info("built indices", "firstArches", sets.List(firstIdx.Arches()), "secondArches", sets.List(secondIdx.Arches()))

	r := arch.Reconcile(firstIdx.Arches(), secondIdx.Arches(), requested)
	warnings := r.Warnings(first, second)
	for _, w := range warnings {
		log.Info("skipping architecture", "kind", w.Kind, "arch", w.Arch, "existsIn", w.ExistsIn, "missingIn", w.MissingIn)
	}

	result := v1.Result{}
	for _, a := range sets.List(r.Comparable) {
		result[a] = c.diff(firstIdx, secondIdx, a)
		log.V(1).Info("compared architecture", "arch", a, "missingFirst", len(result[a].Missing.First), "missingSecond", len(result[a].Missing.Second), "newerFirst", len(result[a].Newer.First))
	}

	return &Report{
		Result:   result,
		Warnings: warnings,
	}, nil
}

// fetch retrieves both branches concurrently. If either
// request fails, the other one is cancelled.
func (c *Comparator) fetch(ctx context.Context, first, second, hint string) (*v1.BranchPackages, *v1.BranchPackages, error) {
	if first == second {
		pkgs, err := c.fetchOne(ctx, first, hint)
		return pkgs, pkgs, err
	}
	var firstPkgs, secondPkgs *v1.BranchPackages
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		firstPkgs, err = c.fetchOne(gctx, first, hint)
		return err
	})
	g.Go(func() error {
		var err error
		secondPkgs, err = c.fetchOne(gctx, second, hint)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return firstPkgs, secondPkgs, nil
}

func (c *Comparator) fetchOne(ctx context.Context, branch, hint string) (*v1.BranchPackages, error) {
	log := logr.FromContextOrDiscard(ctx).WithValues("branch", branch)
	pkgs, err := c.source.BranchPackages(ctx, branch, hint)
	if err != nil {
		return nil, fmt.Errorf("fetching branch '%s': %w", branch, err)
	}
	if pkgs == nil {
		pkgs = &v1.BranchPackages{}
	}
	log.V(2).Info("fetched branch", "count", len(pkgs.Packages))
	return pkgs, nil
}

// diff compares a single architecture that exists in both indices.
func (c *Comparator) diff(first, second v1.Index, a string) v1.Entry {
	firstNames := first.Names(a)
	secondNames := second.Names(a)

	entry := v1.Entry{
		Missing: v1.Missing{
			First:  sets.List(firstNames.Difference(secondNames)),
			Second: sets.List(secondNames.Difference(firstNames)),
		},
		Newer: v1.Newer{
			First: []v1.NewerPackage{},
		},
	}

	// packages that are newer in the second branch
	// are not reported
	for _, name := range sets.List(firstNames.Intersection(secondNames)) {
		p1, p2 := first[a][name], second[a][name]
		if c.versions.Compare(versionutil.String(p1.Epoch, p1.Version), versionutil.String(p2.Epoch, p2.Version)) <= 0 {
			continue
		}
		entry.Newer.First = append(entry.Newer.First, v1.NewerPackage{
			Name: name,
			First: v1.VersionInfo{
				Version: p1.Version,
				Epoch:   p1.Epoch,
			},
			Second: v1.VersionInfo{
				Version: p2.Version,
				Epoch:   p2.Epoch,
			},
		})
	}
	return entry
}
