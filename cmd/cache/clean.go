package cache

import (
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Removes all cached responses and snapshots",
	Args:  cobra.NoArgs,
	RunE:  clean,
}

func clean(cmd *cobra.Command, _ []string) error {
	log := logr.FromContextOrDiscard(cmd.Context())

	dir := cacheDir(cmd)
	log.Info("deleting cache dir", "dir", dir)

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("removing cache dir: %w", err)
	}
	return nil
}
