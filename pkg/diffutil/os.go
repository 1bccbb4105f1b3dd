package diffutil

import (
	"os"
	"path/filepath"

	"github.com/drone/envsubst"
)

// ExpandEnv replaces ${var} references with the
// value of the environment variable.
func ExpandEnv(s string) string {
	val, _ := envsubst.EvalEnv(s)
	return val
}

// CacheDir returns d, or the default cache
// directory if d is empty.
func CacheDir(d string) string {
	if d == "" {
		d, _ = os.UserCacheDir()
		d = filepath.Join(d, "rdb-diff")
	}
	return filepath.Clean(d)
}
