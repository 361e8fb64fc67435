package breaking

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"apidiff/internal/archive"
	"apidiff/internal/config"
	"apidiff/internal/report"
	"apidiff/internal/workspace"
)

// Toolchain is the subset of the build toolchain the analyzer drives
type Toolchain interface {
	Build(ctx context.Context, packagePath, buildDir string) error
	Dump(ctx context.Context, module, buildDir, out string) error
	DumpPackage(ctx context.Context, packagePath, module, buildDir, out string) error
	Diagnose(ctx context.Context, primary, comparison string) ([]byte, error)
}

// Analyzer compares the public interface of two package versions
type Analyzer struct {
	toolchain Toolchain
	workspace config.WorkspaceConfig
	logger    *slog.Logger
}

// NewAnalyzer creates a new breaking change analyzer
func NewAnalyzer(toolchain Toolchain, ws config.WorkspaceConfig, logger *slog.Logger) *Analyzer {
	return &Analyzer{
		toolchain: toolchain,
		workspace: ws,
		logger:    logger,
	}
}

// Compare builds and dumps both packages, diffs the dumps in both
// directions and classifies the merged report. The scratch workspace is
// removed before Compare returns, whatever the outcome.
func (a *Analyzer) Compare(ctx context.Context, opts CompareOptions) (*CompareResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	a.logger.Debug("Starting API comparison",
		"oldPackage", opts.OldPackage,
		"newPackage", opts.NewPackage,
		"module", opts.Module,
		"parallel", opts.Parallel,
	)

	var result *CompareResult
	err := workspace.With(a.workspace.ResolvedTempDir(), a.workspace.DirName, a.logger, func(ws *workspace.Workspace) error {
		merged, err := a.run(ctx, ws, opts)
		if err != nil {
			return err
		}

		result = newResult(opts, merged)

		if opts.ArchivePath != "" {
			ws.Logger().Info("Archiving workspace", "dest", opts.ArchivePath)
			if err := archive.WriteTarZstd(ws.Root, opts.ArchivePath); err != nil {
				return err
			}
			result.ArchivePath = opts.ArchivePath
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	a.logger.Debug("API comparison completed",
		"verdict", result.Verdict,
		"totalChanges", result.Summary.TotalChanges,
	)
	return result, nil
}

// run executes the pipeline inside ws and returns the merged report
func (a *Analyzer) run(ctx context.Context, ws *workspace.Workspace, opts CompareOptions) (*report.Report, error) {
	if opts.Parallel {
		if err := a.dumpParallel(ctx, ws, opts); err != nil {
			return nil, err
		}
	} else {
		if err := a.dumpSequential(ctx, ws, opts); err != nil {
			return nil, err
		}
	}

	ws.Logger().Info("Comparing module dumps")

	forward, err := a.diagnose(ctx, ws, ws.DumpPath(workspace.Old), ws.DumpPath(workspace.New), ws.ForwardReportPath())
	if err != nil {
		return nil, err
	}
	reversed, err := a.diagnose(ctx, ws, ws.DumpPath(workspace.New), ws.DumpPath(workspace.Old), ws.ReversedReportPath())
	if err != nil {
		return nil, err
	}

	return report.Merge(forward, reversed), nil
}

// dumpSequential compiles both packages, then dumps both modules
func (a *Analyzer) dumpSequential(ctx context.Context, ws *workspace.Workspace, opts CompareOptions) error {
	sides := []struct {
		side workspace.Side
		pkg  string
	}{
		{workspace.Old, opts.OldPackage},
		{workspace.New, opts.NewPackage},
	}

	for _, s := range sides {
		ws.Logger().Info("Compiling "+string(s.side)+" package", "package", s.pkg)
		if err := a.toolchain.Build(ctx, s.pkg, ws.BuildDir(s.side)); err != nil {
			return err
		}
	}
	for _, s := range sides {
		ws.Logger().Info("Dumping "+string(s.side)+" package module", "module", opts.Module)
		if err := a.toolchain.Dump(ctx, opts.Module, ws.BuildDir(s.side), ws.DumpPath(s.side)); err != nil {
			return err
		}
	}
	return nil
}

// dumpParallel runs the build+dump chain of each side concurrently and
// waits for both. The first failure cancels the other chain's context.
func (a *Analyzer) dumpParallel(ctx context.Context, ws *workspace.Workspace, opts CompareOptions) error {
	g, gctx := errgroup.WithContext(ctx)

	chain := func(side workspace.Side, pkg string) func() error {
		return func() error {
			ws.Logger().Info("Compiling and dumping "+string(side)+" package", "package", pkg)
			return a.toolchain.DumpPackage(gctx, pkg, opts.Module, ws.BuildDir(side), ws.DumpPath(side))
		}
	}

	g.Go(chain(workspace.Old, opts.OldPackage))
	g.Go(chain(workspace.New, opts.NewPackage))
	return g.Wait()
}

// diagnose diffs primary against comparison, persists the raw output to
// reportPath and parses it back from disk
func (a *Analyzer) diagnose(ctx context.Context, ws *workspace.Workspace, primary, comparison, reportPath string) (*report.Report, error) {
	raw, err := a.toolchain.Diagnose(ctx, primary, comparison)
	if err != nil {
		return nil, err
	}
	if err := ws.WriteFile(reportPath, raw); err != nil {
		return nil, err
	}
	return report.ParseFile(reportPath)
}

func newResult(opts CompareOptions, merged *report.Report) *CompareResult {
	verdict := report.Classify(merged)
	return &CompareResult{
		OldPackage:   opts.OldPackage,
		NewPackage:   opts.NewPackage,
		Module:       opts.Module,
		Verdict:      verdict,
		SemverAdvice: verdict.SemverAdvice(),
		Summary:      report.Summarize(merged),
		Changes:      merged.Changes(),
		Report:       merged,
	}
}
