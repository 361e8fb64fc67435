package process

import (
	"context"
	"os/exec"
	"path/filepath"
	"sync"
	"syscall"

	"apidiff/internal/errors"
)

// HandlerFunc scripts the behavior of one fake executable. It may write to
// cmd.Stdout/cmd.Stderr and touch the filesystem the way the real tool would.
type HandlerFunc func(cmd Command) error

// FakeRunner implements Runner for testing.
type FakeRunner struct {
	mu       sync.Mutex
	handlers map[string]HandlerFunc
	calls    []Command
}

// NewFakeRunner creates a fake runner with no scripted executables.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{handlers: make(map[string]HandlerFunc)}
}

// Handle scripts the executable whose base name is name.
func (f *FakeRunner) Handle(name string, fn HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[name] = fn
}

// Calls returns a copy of every command run so far, in order.
func (f *FakeRunner) Calls() []Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Command, len(f.calls))
	copy(out, f.calls)
	return out
}

// Run implements Runner.
func (f *FakeRunner) Run(ctx context.Context, cmd Command) error {
	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	fn, ok := f.handlers[filepath.Base(cmd.Path)]
	f.mu.Unlock()

	if !ok {
		return errors.New(errors.ProcessFailed, "failed to start "+cmd.Path, exec.ErrNotFound)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(cmd)
}

// Fail returns the error ExecRunner would produce for a non-zero exit.
func Fail(cmd Command, code int) error {
	return errors.New(errors.ProcessFailed, "process exited with non-zero status", &ExitError{Command: cmd.Path, Code: code})
}

// Kill returns the error ExecRunner would produce for a process killed by sig.
func Kill(cmd Command, sig syscall.Signal) error {
	return errors.New(errors.ProcessSignaled, "process terminated by signal", &SignalError{Command: cmd.Path, Signal: sig})
}
