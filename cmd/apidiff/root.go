package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"apidiff/internal/version"
)

var (
	oldPackageFlag string
	newPackageFlag string
	moduleFlag     string
	xcodePathFlag  string
	verboseFlag    bool
	configFlag     string
	parallelFlag   bool
	archiveFlag    string
	logFormatFlag  string
	colorFlag      string
)

var rootCmd = &cobra.Command{
	Use:   "apidiff",
	Short: "Detect breaking API changes between two Swift package versions",
	Long: `apidiff builds two versions of a Swift package, dumps the public interface of
one module from each with swift-api-digester, diffs the dumps in both directions
and reports whether the change is breaking or minor.

Without a subcommand apidiff behaves like api-changes-type.

Examples:
  apidiff -o ./v1 -n ./v2 -m MyLibrary
  apidiff api-changes-description -o ./v1 -n ./v2 -m MyLibrary
  apidiff api-changes-description -o ./v1 -n ./v2 -m MyLibrary --format=json`,
	Version:       version.Info(),
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE:          runAPIChangesType,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Full())
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&oldPackageFlag, "old-package", "o", "", "Directory of the old package version")
	flags.StringVarP(&newPackageFlag, "new-package", "n", "", "Directory of the new package version")
	flags.StringVarP(&moduleFlag, "module", "m", "", "Module whose public interface is compared")
	flags.StringVarP(&xcodePathFlag, "xcode-path", "x", "", "Xcode installation used to locate the macOS SDK (default from config: /Applications/Xcode.app)")
	flags.BoolVarP(&verboseFlag, "verbose", "v", false, "Show progress and tool output on stderr")
	flags.StringVar(&configFlag, "config", "", "Config file (default: ./.apidiff/config.json)")
	flags.BoolVar(&parallelFlag, "parallel", false, "Build and dump both versions concurrently")
	flags.StringVar(&archiveFlag, "archive", "", "Write the workspace to this .tar.zst before cleanup")
	flags.StringVar(&logFormatFlag, "log-format", "", "Log format: human or json (default from config)")
	flags.StringVar(&colorFlag, "color", "auto", "Colorize output (auto|on|off)")

	rootCmd.SetVersionTemplate("apidiff version {{.Version}}\n")
	rootCmd.AddCommand(versionCmd)
}
