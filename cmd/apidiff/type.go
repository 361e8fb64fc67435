package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var apiChangesTypeCmd = &cobra.Command{
	Use:   "api-changes-type",
	Short: "Print the type of API change: breaking or minor",
	Long: `Compare the public interface of a module between two package versions and
print "breaking" or "minor".

Any finding in any category, including added declarations, is breaking.

Examples:
  apidiff api-changes-type --old-package ./v1 --new-package ./v2 --module MyLibrary
  apidiff api-changes-type -o ./v1 -n ./v2 -m MyLibrary -x /Applications/Xcode-15.app`,
	Args: cobra.NoArgs,
	RunE: runAPIChangesType,
}

func init() {
	rootCmd.AddCommand(apiChangesTypeCmd)
}

func runAPIChangesType(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	p, err := newPalette(colorFlag, out)
	if err != nil {
		return err
	}

	result, err := runCompare(cmd)
	if err != nil {
		return err
	}

	if verboseFlag {
		summary, err := FormatResponse(result, FormatHuman)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), summary)
	}

	fmt.Fprintln(out, p.verdict(result.Verdict))
	return nil
}
