package cmd

import (
	"errors"
	"fmt"
	"io"

	v1 "github.com/djcass44/rdb-diff/pkg/api/v1"
	"github.com/djcass44/rdb-diff/pkg/arch"
	"github.com/djcass44/rdb-diff/pkg/compare"
	"github.com/djcass44/rdb-diff/pkg/diffutil"
	"github.com/djcass44/rdb-diff/pkg/versionutil"
	"github.com/fatih/color"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare [first] [second] [arch...]",
	Short: "compare the binary packages of two branches",
	Long: `Compares the binary packages of two branches and prints, for every architecture
present in both, the packages that only exist in one of them and the packages
that have a newer version in the first branch.`,
	Args: cobra.ArbitraryArgs,
	RunE: runCompare,
}

const (
	flagConfig        = "config"
	flagOutput        = "output"
	flagVersionScheme = "version-scheme"
	flagSnapshot      = "snapshot"
)

func init() {
	addCompareFlags(compareCmd)
}

func addCompareFlags(compareCmd *cobra.Command) {
	compareCmd.Flags().StringP(flagConfig, "c", "", "path to a comparison configuration file")
	compareCmd.Flags().StringP(flagOutput, "o", "", "path to write the result to (defaults to stdout)")
	compareCmd.Flags().String(flagVersionScheme, v1.VersionSchemeRPM, "version comparison rules (rpm, deb)")
	compareCmd.Flags().StringToString(flagSnapshot, nil, "read a branch from an exported file instead of the API (branch=path)")
	addSourceFlags(compareCmd)

	_ = compareCmd.MarkFlagFilename(flagConfig, ".yaml", ".yml", ".json")
}

func runCompare(cmd *cobra.Command, args []string) error {
	log := logr.FromContextOrDiscard(cmd.Context())

	spec, err := comparisonSpec(cmd, args)
	if err != nil {
		return err
	}
	log.V(1).Info("comparing branches", "first", spec.First, "second", spec.Second, "arches", spec.Arches)

	versions, err := versionutil.Lookup(spec.VersionScheme)
	if err != nil {
		return err
	}
	cacheDir, _ := cmd.Flags().GetString(flagCacheDir)
	source, err := newSource(cmd.Context(), diffutil.CacheDir(cacheDir), spec)
	if err != nil {
		return err
	}

	report, err := compare.NewComparator(source, versions).Compare(cmd.Context(), spec.First, spec.Second, spec.Arches)
	if err != nil {
		return err
	}
	printWarnings(cmd.ErrOrStderr(), report.Warnings)

	if path, _ := cmd.Flags().GetString(flagOutput); path != "" {
		return writeJSON(path, report.Result)
	}
	return encodeJSON(cmd.OutOrStdout(), report.Result)
}

// comparisonSpec builds the comparison from the optional config
// file, the positional arguments and the flags, in that order.
func comparisonSpec(cmd *cobra.Command, args []string) (v1.ComparisonSpec, error) {
	var spec v1.ComparisonSpec
	if path, _ := cmd.Flags().GetString(flagConfig); path != "" {
		cfg, err := readConfig(path)
		if err != nil {
			return spec, fmt.Errorf("reading config: %w", err)
		}
		spec = cfg.Spec
	}

	if len(args) > 0 {
		spec.First = args[0]
	}
	if len(args) > 1 {
		spec.Second = args[1]
	}
	if len(args) > 2 {
		spec.Arches = args[2:]
	}
	spec.First = diffutil.ExpandEnv(spec.First)
	spec.Second = diffutil.ExpandEnv(spec.Second)
	for i := range spec.Arches {
		spec.Arches[i] = diffutil.ExpandEnv(spec.Arches[i])
	}
	if spec.First == "" || spec.Second == "" {
		return spec, errors.New("two branches are required")
	}

	if cmd.Flags().Changed(flagVersionScheme) || spec.VersionScheme == "" {
		spec.VersionScheme, _ = cmd.Flags().GetString(flagVersionScheme)
	}
	if snapshots, _ := cmd.Flags().GetStringToString(flagSnapshot); len(snapshots) > 0 {
		spec.Snapshots = snapshots
	}
	applySourceFlags(cmd, &spec.Source)
	return spec, nil
}

func printWarnings(w io.Writer, warnings []arch.Warning) {
	c := color.New(color.FgYellow)
	for _, warning := range warnings {
		_, _ = c.Fprintf(w, "warning: %s\n", warning.String())
	}
}
