package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "\t")
	return enc.Encode(v)
}

// writeJSON encodes v into the file at path. The file
// is only considered written once it has been closed.
func writeJSON(path string, v any) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("closing output file: %w", cerr))
		}
	}()

	if err := encodeJSON(f, v); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	return nil
}
