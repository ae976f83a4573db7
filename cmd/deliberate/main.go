// Package main provides the deliberate CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

// globalOpts are the persistent flags shared by every command.
type globalOpts struct {
	configPath  string
	archivePath string
	output      string
	verbose     bool
}

func newRootCmd() *cobra.Command {
	opts := &globalOpts{}

	rootCmd := &cobra.Command{
		Use:   "deliberate",
		Short: "Weighted decision-making from the terminal",
		Long: `Deliberate ranks the options of a decision against weighted criteria.
Each option is scored per criterion; the weighted sum on a 0-100 scale picks
the recommended option and explains why.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := rootCmd.PersistentFlags()
	f.StringVar(&opts.configPath, "config", "", "Path to config file (default: .deliberate/config.yaml in this or a parent directory)")
	f.StringVar(&opts.archivePath, "archive", "", "Path to the archive file (file backend only)")
	f.StringVarP(&opts.output, "output", "o", "text", "Output format: text, json, markdown or share")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Log at the configured level instead of warnings only")

	rootCmd.AddCommand(
		newNewCmd(opts),
		newListCmd(opts),
		newShowCmd(opts),
		newRankCmd(opts),
		newShareCmd(opts),
		newRenameCmd(opts),
		newRateCmd(opts),
		newWeighCmd(opts),
		newEqualizeCmd(opts),
		newAddContenderCmd(opts),
		newRemoveContenderCmd(opts),
		newAddCriterionCmd(opts),
		newRemoveCriterionCmd(opts),
		newDeleteCmd(opts),
		newClearCmd(opts),
		newStatsCmd(opts),
		newTemplatesCmd(opts),
		newPickCmd(),
		newServeCmd(opts),
		newMCPCmd(opts),
		newWatchCmd(opts),
	)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
