// Package versionutil orders package versions of
// the form "epoch:version".
package versionutil

import (
	"fmt"
	"strconv"
	"strings"

	v1 "github.com/djcass44/rdb-diff/pkg/api/v1"
	version "github.com/knqyf263/go-deb-version"
	rpmutils "github.com/sassoftware/go-rpmutils"
)

// Comparator returns a negative number when a < b,
// zero when they are equal and a positive number when a > b.
type Comparator interface {
	Compare(a, b string) int
}

// String builds the comparable version string
// of a package.
func String(epoch int, v string) string {
	return fmt.Sprintf("%d:%s", epoch, v)
}

// Lookup returns the comparator for a version scheme.
// An empty scheme selects RPM.
func Lookup(scheme string) (Comparator, error) {
	switch strings.ToLower(scheme) {
	case "", v1.VersionSchemeRPM:
		return RPM{}, nil
	case v1.VersionSchemeDebian:
		return Debian{}, nil
	default:
		return nil, fmt.Errorf("unknown version scheme: %s", scheme)
	}
}

// RPM compares versions using rpmvercmp after
// comparing the epoch numerically.
type RPM struct{}

func (RPM) Compare(a, b string) int {
	ea, va := splitEpoch(a)
	eb, vb := splitEpoch(b)
	if ea != eb {
		if ea > eb {
			return 1
		}
		return -1
	}
	return rpmutils.Vercmp(va, vb)
}

// splitEpoch separates the epoch from the version. A missing
// or invalid epoch is treated as 0.
func splitEpoch(s string) (int, string) {
	e, v, ok := strings.Cut(s, ":")
	if !ok {
		return 0, s
	}
	epoch, err := strconv.Atoi(e)
	if err != nil {
		return 0, v
	}
	return epoch, v
}

// Debian compares versions using the dpkg algorithm.
type Debian struct{}

func (Debian) Compare(a, b string) int {
	va, errA := version.NewVersion(a)
	vb, errB := version.NewVersion(b)
	// invalid versions sort below valid ones and
	// by their bytes amongst themselves
	switch {
	case errA != nil && errB != nil:
		return strings.Compare(a, b)
	case errA != nil:
		return -1
	case errB != nil:
		return 1
	}
	switch {
	case va.GreaterThan(vb):
		return 1
	case va.LessThan(vb):
		return -1
	default:
		return 0
	}
}
