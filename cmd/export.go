package cmd

import (
	v1 "github.com/djcass44/rdb-diff/pkg/api/v1"
	"github.com/djcass44/rdb-diff/pkg/diffutil"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [branch]",
	Short: "save the binary packages of a branch so they can be used with --snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  export,
}

const flagArch = "arch"

func init() {
	exportCmd.Flags().String(flagArch, "", "only export packages for this architecture")
	exportCmd.Flags().StringP(flagOutput, "o", "", "path to write the packages to")
	addSourceFlags(exportCmd)

	_ = exportCmd.MarkFlagRequired(flagOutput)
}

func export(cmd *cobra.Command, args []string) error {
	log := logr.FromContextOrDiscard(cmd.Context())

	branch := diffutil.ExpandEnv(args[0])
	arch, _ := cmd.Flags().GetString(flagArch)
	path, _ := cmd.Flags().GetString(flagOutput)
	cacheDir, _ := cmd.Flags().GetString(flagCacheDir)

	var spec v1.SourceSpec
	applySourceFlags(cmd, &spec)

	client, err := newClient(cmd.Context(), diffutil.CacheDir(cacheDir), spec)
	if err != nil {
		return err
	}
	pkgs, err := client.BranchPackages(cmd.Context(), branch, arch)
	if err != nil {
		return err
	}

	log.Info("exporting packages", "branch", branch, "count", len(pkgs.Packages), "path", path)
	return writeJSON(path, pkgs)
}
