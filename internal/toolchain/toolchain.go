// Package toolchain drives the external Swift build toolchain and the API
// digester: building a package, dumping a module's public interface and
// diagnosing the difference between two dumps.
package toolchain

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"apidiff/internal/config"
	"apidiff/internal/errors"
	"apidiff/internal/process"
)

// CompilerEnvVar tells `swift build` which compiler executable to use.
const CompilerEnvVar = "SWIFT_EXEC"

// debugSubdir is where `swift build` places debug products under --build-path.
const debugSubdir = "debug"

// maxStderrDetail bounds how much tool stderr is attached to an error.
const maxStderrDetail = 4096

// Toolchain runs build, dump and diagnose steps through a process.Runner.
type Toolchain struct {
	runner process.Runner
	cfg    config.ToolchainConfig
	logger *slog.Logger
	echo   io.Writer
}

// New creates a Toolchain. echo receives the tools' own output as it is
// produced; pass nil to keep it quiet.
func New(runner process.Runner, cfg config.ToolchainConfig, logger *slog.Logger, echo io.Writer) *Toolchain {
	return &Toolchain{
		runner: runner,
		cfg:    cfg,
		logger: logger,
		echo:   echo,
	}
}

// SDKPath is the SDK handed to the digester.
func (t *Toolchain) SDKPath() string {
	return t.cfg.ResolvedSDKPath()
}

// Build compiles the package at packagePath into buildDir.
func (t *Toolchain) Build(ctx context.Context, packagePath, buildDir string) error {
	var stderr bytes.Buffer
	cmd := process.Command{
		Path:   t.cfg.SwiftPath,
		Args:   []string{"build", "--package-path", packagePath, "--build-path", buildDir},
		Env:    map[string]string{CompilerEnvVar: resolveExecutable(t.cfg.CompilerPath)},
		Stdout: t.echoOr(nil),
		Stderr: t.echoOr(&stderr),
	}

	t.logger.Debug("Running build", "command", cmd.String())
	if err := t.runner.Run(ctx, cmd); err != nil {
		return errors.New(errors.BuildFailed, "failed to build package "+packagePath, err).
			WithDetails(map[string]interface{}{
				"package": packagePath,
				"stderr":  tail(stderr.String()),
			}).
			WithFix(errors.FixAction{
				Type:        errors.RunCommand,
				Command:     "swift build --package-path " + packagePath,
				Safe:        true,
				Description: "Reproduce the build failure outside apidiff",
			})
	}
	return nil
}

// Dump writes the public interface of module, compiled into buildDir, to out.
func (t *Toolchain) Dump(ctx context.Context, module, buildDir, out string) error {
	var stderr bytes.Buffer
	cmd := process.Command{
		Path: t.cfg.DigesterPath,
		Args: []string{
			"--dump-sdk",
			"-sdk", t.SDKPath(),
			"-module", module,
			"-I", filepath.Join(buildDir, debugSubdir),
			"-o", out,
		},
		Stdout: t.echoOr(nil),
		Stderr: t.echoOr(&stderr),
	}

	t.logger.Debug("Running digester dump", "command", cmd.String())
	if err := t.runner.Run(ctx, cmd); err != nil {
		return errors.New(errors.DumpFailed, "failed to dump module "+module, err).
			WithDetails(map[string]interface{}{
				"module":   module,
				"buildDir": buildDir,
				"stderr":   tail(stderr.String()),
			})
	}

	if _, err := os.Stat(out); err != nil {
		return errors.New(errors.DumpFailed, "digester exited cleanly but produced no dump for "+module, err)
	}
	return nil
}

// DumpPackage builds the package and dumps module's interface to out.
func (t *Toolchain) DumpPackage(ctx context.Context, packagePath, module, buildDir, out string) error {
	if err := t.Build(ctx, packagePath, buildDir); err != nil {
		return err
	}
	return t.Dump(ctx, module, buildDir, out)
}

// Diagnose compares two dumps with primary as the baseline and returns the
// digester's raw findings. The digester reports on stderr; stdout is
// captured into the same buffer so nothing it prints is lost.
//
// The digester exits non-zero when it finds breaking changes, so a plain
// non-zero exit still yields the captured findings. Start failures and
// signals are returned as errors.
func (t *Toolchain) Diagnose(ctx context.Context, primary, comparison string) ([]byte, error) {
	var buf bytes.Buffer
	var sink io.Writer = &buf
	if t.echo != nil {
		sink = io.MultiWriter(&buf, t.echo)
	}

	cmd := process.Command{
		Path: t.cfg.DigesterPath,
		Args: []string{
			"-diagnose-sdk",
			"-sdk", t.SDKPath(),
			"--input-paths", primary,
			"-input-paths", comparison,
		},
		Stdout: sink,
		Stderr: sink,
	}

	t.logger.Debug("Running digester diagnose", "command", cmd.String())
	if err := t.runner.Run(ctx, cmd); err != nil {
		var exitErr *process.ExitError
		if !stderrors.As(err, &exitErr) {
			return nil, err
		}
		t.logger.Debug("Digester reported findings", "exitCode", exitErr.Code, "bytes", buf.Len())
	}
	return buf.Bytes(), nil
}

// echoOr returns a sink that feeds capture (if any) and the echo writer (if any).
func (t *Toolchain) echoOr(capture io.Writer) io.Writer {
	switch {
	case capture != nil && t.echo != nil:
		return io.MultiWriter(capture, t.echo)
	case capture != nil:
		return capture
	default:
		return t.echo
	}
}

// resolveExecutable turns a bare command name into an absolute path through
// PATH, since SWIFT_EXEC is not searched by the build system.
func resolveExecutable(name string) string {
	if name == "" || filepath.IsAbs(name) || strings.ContainsRune(name, filepath.Separator) {
		return name
	}
	if p, err := exec.LookPath(name); err == nil {
		return p
	}
	return name
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxStderrDetail {
		return s
	}
	return s[len(s)-maxStderrDetail:]
}
