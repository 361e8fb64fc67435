package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var descriptionFormat string

var apiChangesDescriptionCmd = &cobra.Command{
	Use:   "api-changes-description",
	Short: "Describe every API change between two package versions",
	Long: `Compare the public interface of a module between two package versions and
print every finding grouped by category.

The human format prints each non-empty category marker followed by its
findings. The json, yaml and toml formats print the verdict, a summary and
all categories, empty ones included.

Examples:
  apidiff api-changes-description -o ./v1 -n ./v2 -m MyLibrary
  apidiff api-changes-description -o ./v1 -n ./v2 -m MyLibrary --format=yaml`,
	Args: cobra.NoArgs,
	RunE: runAPIChangesDescription,
}

func init() {
	apiChangesDescriptionCmd.Flags().StringVar(&descriptionFormat, "format", string(FormatHuman), "Output format (human, json, yaml, toml)")
	rootCmd.AddCommand(apiChangesDescriptionCmd)
}

func runAPIChangesDescription(cmd *cobra.Command, args []string) error {
	format := OutputFormat(descriptionFormat)
	if !format.Valid() {
		return fmt.Errorf("unsupported format: %s", format)
	}

	out := cmd.OutOrStdout()
	p, err := newPalette(colorFlag, out)
	if err != nil {
		return err
	}

	result, err := runCompare(cmd)
	if err != nil {
		return err
	}

	if format == FormatHuman {
		fmt.Fprint(out, result.Report.DescriptionWith(p.markerStyle()))
		return nil
	}

	output, err := FormatResponse(result, format)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, output)
	return nil
}
