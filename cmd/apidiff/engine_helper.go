package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"apidiff/internal/breaking"
	"apidiff/internal/config"
	"apidiff/internal/process"
	"apidiff/internal/slogutil"
	"apidiff/internal/toolchain"
)

// newRunner creates the process runner used by every command.
// Tests replace it with a process.FakeRunner.
var newRunner = func() process.Runner {
	return process.NewExecRunner()
}

// loadConfig reads --config if given, else ./.apidiff/config.json, then
// applies command-line overrides. Flags beat env vars beat the file.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configFlag != "" {
		cfg, err = config.LoadConfigFile(configFlag)
	} else {
		var wd string
		if wd, err = os.Getwd(); err != nil {
			return nil, err
		}
		cfg, err = config.LoadConfig(wd)
	}
	if err != nil {
		return nil, err
	}

	if xcodePathFlag != "" {
		// An explicit Xcode wins over a configured SDK path.
		cfg.Toolchain.XcodePath = xcodePathFlag
		cfg.Toolchain.SDKPath = ""
	}
	if f := cmd.Flag("parallel"); f != nil && f.Changed {
		cfg.Pipeline.Parallel = parallelFlag
	}
	if logFormatFlag != "" {
		cfg.Logging.Format = logFormatFlag
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger creates the stderr logger for a command run.
func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	level := slogutil.LevelFromVerbosity(verboseFlag, slogutil.LevelFromString(cfg.Logging.Level))
	return slogutil.New(w, cfg.Logging.Format, level)
}

// newContext creates a new context for command execution.
func newContext() context.Context {
	return context.Background()
}

// runCompare wires config, logging and the toolchain together and runs one
// comparison with the package flags.
func runCompare(cmd *cobra.Command) (*breaking.CompareResult, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	stderr := cmd.ErrOrStderr()
	logger := newLogger(stderr, cfg)

	var echo io.Writer
	if verboseFlag {
		echo = stderr
	}

	tc := toolchain.New(newRunner(), cfg.Toolchain, logger, echo)
	analyzer := breaking.NewAnalyzer(tc, cfg.Workspace, logger)

	return analyzer.Compare(newContext(), breaking.CompareOptions{
		OldPackage:   oldPackageFlag,
		NewPackage:   newPackageFlag,
		Module:       moduleFlag,
		ManifestFile: cfg.Package.ManifestFile,
		Parallel:     cfg.Pipeline.Parallel,
		ArchivePath:  archiveFlag,
	})
}
