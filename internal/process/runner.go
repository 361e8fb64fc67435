// Package process runs external tools synchronously and maps abnormal
// termination to apidiff error codes.
package process

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
	"syscall"

	"apidiff/internal/errors"
)

// Command describes one external process invocation.
type Command struct {
	// Path is the executable, either absolute or resolved through PATH.
	Path string

	// Args are passed in order, without shell interpretation.
	Args []string

	// Env overrides are merged over the inherited environment. Overrides win.
	Env map[string]string

	// Dir is the working directory. Empty means the current directory.
	Dir string

	// Stdout and Stderr receive raw chunks as the process writes them.
	// A nil sink discards the stream.
	Stdout io.Writer
	Stderr io.Writer
}

// String renders the command line for logs.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Path
	}
	return c.Path + " " + strings.Join(c.Args, " ")
}

// Runner abstracts command execution for testability.
type Runner interface {
	// Run blocks until the process terminates. It returns nil only for a
	// normal exit with status zero.
	Run(ctx context.Context, cmd Command) error
}

// ExitError reports a process that exited with a non-zero status.
type ExitError struct {
	Command string
	Code    int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Command, e.Code)
}

// SignalError reports a process terminated by a signal.
type SignalError struct {
	Command string
	Signal  syscall.Signal
}

func (e *SignalError) Error() string {
	return fmt.Sprintf("%s terminated by signal %s", e.Command, e.Signal)
}

// ExecRunner implements Runner using os/exec.
type ExecRunner struct {
	// BaseEnv is the environment overrides are merged into.
	// Nil means os.Environ().
	BaseEnv []string
}

// NewExecRunner creates a runner that inherits the calling process's environment.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes cmd and waits for it to finish.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) error {
	c := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	c.Dir = cmd.Dir
	c.Stdout = cmd.Stdout
	c.Stderr = cmd.Stderr

	base := r.BaseEnv
	if base == nil {
		base = os.Environ()
	}
	c.Env = MergeEnv(base, cmd.Env)

	err := c.Run()
	if err == nil {
		return nil
	}
	return classify(cmd, err)
}

// classify maps an exec error onto the apidiff error taxonomy.
func classify(cmd Command, err error) error {
	name := cmd.Path

	var exitErr *exec.ExitError
	if !stderrors.As(err, &exitErr) {
		// Never started: binary missing, permission denied.
		return errors.New(errors.ProcessFailed, "failed to start "+name, err).
			WithDetails(map[string]interface{}{"command": cmd.String(), "exitCode": -1})
	}

	if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		sigErr := &SignalError{Command: name, Signal: status.Signal()}
		return errors.New(errors.ProcessSignaled, "process terminated by signal", sigErr).
			WithDetails(map[string]interface{}{"command": cmd.String(), "signal": status.Signal().String()})
	}

	code := exitErr.ExitCode()
	return errors.New(errors.ProcessFailed, "process exited with non-zero status", &ExitError{Command: name, Code: code}).
		WithDetails(map[string]interface{}{"command": cmd.String(), "exitCode": code})
}

// MergeEnv returns base with overrides applied. Keys present in overrides
// replace any existing entries; new keys are appended in sorted order.
func MergeEnv(base []string, overrides map[string]string) []string {
	result := make([]string, 0, len(base)+len(overrides))
	for _, kv := range base {
		key := kv
		if i := strings.IndexByte(kv, '='); i >= 0 {
			key = kv[:i]
		}
		if _, ok := overrides[key]; ok {
			continue
		}
		result = append(result, kv)
	}

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		result = append(result, k+"="+overrides[k])
	}
	return result
}
