package downloader

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/go-logr/logr"
	"github.com/hashicorp/go-getter"
)

type Downloader struct {
	cacheDir string
}

func NewDownloader(cacheDir string) (*Downloader, error) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, err
	}
	return &Downloader{cacheDir: cacheDir}, nil
}

// Download fetches a file or URL into the cache directory and
// returns the path of the local copy. Archives are not unpacked.
func (d *Downloader) Download(ctx context.Context, src string) (string, error) {
	log := logr.FromContextOrDiscard(ctx)
	log.V(1).Info("downloading file", "src", src)

	uri, err := url.Parse(src)
	if err != nil {
		log.Error(err, "failed to parse url")
		return "", err
	}
	// disable archive handling so that we
	// get the file as-is
	q := uri.Query()
	q.Set("archive", "false")
	uri.RawQuery = q.Encode()

	// two sources can share a file name, so prefix
	// it with a hash of the full source
	dst := filepath.Join(d.cacheDir, "snapshots", Key(kindSnapshot, src)+"-"+path.Base(uri.Path))
	log.V(2).Info("preparing to download file", "dst", dst)

	pwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}

	client := &getter.Client{
		Ctx:             ctx,
		Src:             uri.String(),
		Dst:             dst,
		Pwd:             pwd,
		Mode:            getter.ClientModeFile,
		DisableSymlinks: true,
	}
	if err := client.Get(); err != nil {
		log.Error(err, "failed to download file")
		return "", err
	}
	return dst, nil
}
