package cmd

import (
	"context"
	"time"

	v1 "github.com/djcass44/rdb-diff/pkg/api/v1"
	"github.com/djcass44/rdb-diff/pkg/compare"
	"github.com/djcass44/rdb-diff/pkg/diffutil"
	"github.com/djcass44/rdb-diff/pkg/downloader"
	"github.com/djcass44/rdb-diff/pkg/rdb"
	"github.com/djcass44/rdb-diff/pkg/snapshot"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

const (
	flagBaseURL  = "base-url"
	flagCacheDir = "cache-dir"
	flagCacheTTL = "cache-ttl"
	flagNoCache  = "no-cache"
	flagRetries  = "retries"
)

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().String(flagBaseURL, rdb.DefaultURL, "base url of the RDB API")
	cmd.Flags().String(flagCacheDir, "", "cache directory (defaults to user cache dir)")
	cmd.Flags().Duration(flagCacheTTL, downloader.DefaultTTL, "how long API responses are cached for")
	cmd.Flags().Bool(flagNoCache, false, "disable the response cache")
	cmd.Flags().Int(flagRetries, 3, "number of times to retry failed requests")

	_ = cmd.MarkFlagDirname(flagCacheDir)
}

// applySourceFlags merges the source flags into spec. Flags
// only win over the config file when they are set explicitly.
func applySourceFlags(cmd *cobra.Command, spec *v1.SourceSpec) {
	flags := cmd.Flags()
	if flags.Changed(flagBaseURL) || spec.URL == "" {
		spec.URL, _ = flags.GetString(flagBaseURL)
	}
	if flags.Changed(flagCacheTTL) || spec.CacheTTL == nil {
		ttl, _ := flags.GetDuration(flagCacheTTL)
		spec.CacheTTL = &metav1.Duration{Duration: ttl}
	}
	if flags.Changed(flagNoCache) {
		spec.DisableCache, _ = flags.GetBool(flagNoCache)
	}
	if flags.Changed(flagRetries) || spec.Retries == nil {
		retries, _ := flags.GetInt(flagRetries)
		spec.Retries = &retries
	}
	spec.URL = diffutil.ExpandEnv(spec.URL)
}

func newClient(ctx context.Context, cacheDir string, spec v1.SourceSpec) (*rdb.Client, error) {
	log := logr.FromContextOrDiscard(ctx)

	opts := rdb.Options{
		BaseURL: spec.URL,
	}
	if spec.Retries != nil {
		opts.Retries = *spec.Retries
	}
	if !spec.DisableCache {
		var ttl time.Duration
		if spec.CacheTTL != nil {
			ttl = spec.CacheTTL.Duration
		}
		cache, err := downloader.NewCache(cacheDir, ttl)
		if err != nil {
			return nil, err
		}
		opts.Cache = cache
		log.V(1).Info("using response cache", "dir", cacheDir, "ttl", ttl)
	}
	return rdb.NewClient(ctx, opts), nil
}

// newSource returns the snapshot source if any snapshots
// are configured, otherwise the RDB API.
func newSource(ctx context.Context, cacheDir string, spec v1.ComparisonSpec) (compare.Source, error) {
	log := logr.FromContextOrDiscard(ctx)
	if len(spec.Snapshots) == 0 {
		log.V(1).Info("using rdb api", "url", spec.Source.URL)
		return newClient(ctx, cacheDir, spec.Source)
	}

	locations := make(map[string]string, len(spec.Snapshots))
	for k, v := range spec.Snapshots {
		locations[k] = diffutil.ExpandEnv(v)
	}
	d, err := downloader.NewDownloader(cacheDir)
	if err != nil {
		return nil, err
	}
	log.V(1).Info("using snapshots", "snapshots", locations)
	return snapshot.New(locations, d), nil
}
