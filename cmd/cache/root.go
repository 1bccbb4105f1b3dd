package cache

import (
	"fmt"

	"github.com/djcass44/rdb-diff/pkg/diffutil"
	"github.com/spf13/cobra"
)

// Command groups the commands that manage cached
// API responses and downloaded snapshots.
var Command = &cobra.Command{
	Use:   "cache",
	Short: "Manage cached package lists",
}

var dirCmd = &cobra.Command{
	Use:   "dir",
	Short: "Prints the cache directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), cacheDir(cmd))
		return err
	},
}

const flagCacheDir = "cache-dir"

func init() {
	Command.PersistentFlags().String(flagCacheDir, "", "cache directory (defaults to user cache dir)")
	Command.AddCommand(cleanCmd, dirCmd)
}

func cacheDir(cmd *cobra.Command) string {
	dir, _ := cmd.Flags().GetString(flagCacheDir)
	return diffutil.CacheDir(dir)
}
