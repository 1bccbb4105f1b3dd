package downloader

import (
	"crypto/sha256"
	"encoding/hex"
)

const (
	kindResponse = "response"
	kindSnapshot = "snapshot"
)

// Key derives the file name used to store s in the
// cache. The kind keeps API responses and snapshots
// from ever sharing a name.
func Key(kind, s string) string {
	h := sha256.New()
	_, _ = h.Write([]byte(kind))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(s))
	return hex.EncodeToString(h.Sum(nil))[:16]
}
