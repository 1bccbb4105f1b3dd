// Package snapshot reads exported branch package
// lists from files instead of the RDB API.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	v1 "github.com/djcass44/rdb-diff/pkg/api/v1"
	"github.com/djcass44/rdb-diff/pkg/downloader"
	"github.com/djcass44/rdb-diff/pkg/rdb"
	"github.com/go-logr/logr"
	"github.com/klauspost/compress/zstd"
	"github.com/mholt/archives"
	"github.com/ulikunitz/xz"
	"k8s.io/apimachinery/pkg/util/sets"
)

const (
	extGzip = ".gz"
	extXZ   = ".xz"
	extZstd = ".zst"
)

type Source struct {
	locations  map[string]string
	downloader *downloader.Downloader
}

// New creates a Source that maps each branch
// to a file path or URL.
func New(locations map[string]string, d *downloader.Downloader) *Source {
	return &Source{
		locations:  locations,
		downloader: d,
	}
}

// BranchPackages reads the package list of a branch. If
// arch is set, packages for other architectures are dropped.
func (s *Source) BranchPackages(ctx context.Context, branch, arch string) (*v1.BranchPackages, error) {
	log := logr.FromContextOrDiscard(ctx).WithValues("branch", branch)

	src, ok := s.locations[branch]
	if !ok {
		return nil, &rdb.UnknownBranchError{
			Branch:    branch,
			Available: sets.List(sets.KeySet(s.locations)),
		}
	}
	log.V(1).Info("loading snapshot", "src", src)

	path, err := s.downloader.Download(ctx, src)
	if err != nil {
		return nil, &rdb.TransportError{URL: src, Message: "downloading snapshot", Err: err}
	}

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, &rdb.TransportError{URL: src, Message: "opening snapshot", Err: err}
	}
	defer f.Close()

	r, err := NewReader(f, path)
	if err != nil {
		return nil, &rdb.TransportError{URL: src, Message: "decompressing snapshot", Err: err}
	}
	defer r.Close()

	var out v1.BranchPackages
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, &rdb.TransportError{URL: src, Message: "decoding snapshot", Err: err}
	}
	log.V(2).Info("decoded snapshot", "count", len(out.Packages))

	if arch != "" {
		filtered := make([]v1.Package, 0, len(out.Packages))
		for _, p := range out.Packages {
			if p.Arch == arch {
				filtered = append(filtered, p)
			}
		}
		out.Packages = filtered
	}
	out.Length = len(out.Packages)
	return &out, nil
}

// NewReader returns a reader that decompresses r
// based on the file extension of name.
func NewReader(r io.Reader, name string) (io.ReadCloser, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case extGzip:
		return archives.Gz{}.OpenReader(r)
	case extXZ:
		reader, err := xz.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("creating xz reader: %w", err)
		}
		return io.NopCloser(reader), nil
	case extZstd:
		reader, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("creating zstd reader: %w", err)
		}
		return reader.IOReadCloser(), nil
	default:
		return io.NopCloser(r), nil
	}
}
