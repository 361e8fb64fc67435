package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"apidiff/internal/config"
	"apidiff/internal/errors"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default apidiff configuration",
	Long: `Creates .apidiff/config.json in the current directory with the default
toolchain, workspace and logging settings.

An explicit --xcode-path is recorded in the generated file.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing .apidiff/config.json")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cwd, err := os.Getwd()
	if err != nil {
		return errors.New(errors.InternalError, "failed to get current directory", err)
	}

	configPath := filepath.Join(cwd, ".apidiff", "config.json")
	if _, statErr := os.Stat(configPath); statErr == nil && !initForce {
		// Already initialized is success.
		fmt.Fprintln(out, "apidiff already initialized.")
		fmt.Fprintf(out, "Configuration at: %s\n", configPath)
		fmt.Fprintln(out, "\nRun 'apidiff init --force' to overwrite it.")
		return nil
	}

	cfg := config.DefaultConfig()
	if xcodePathFlag != "" {
		cfg.Toolchain.XcodePath = xcodePathFlag
	}
	if err := cfg.Save(cwd); err != nil {
		return errors.New(errors.InternalError, "failed to write "+configPath, err)
	}

	fmt.Fprintf(out, "Configuration written to: %s\n", configPath)
	return nil
}
