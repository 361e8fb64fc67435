// Package workspace owns the scratch directory of one comparison run:
// the two build trees, the two interface dumps and the two raw reports.
//
// The directory name is fixed by configuration, so two runs sharing a temp
// dir and name on the same machine will clobber each other.
package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"apidiff/internal/errors"
	"apidiff/internal/slogutil"
)

// Side identifies one of the two package versions being compared.
type Side string

const (
	Old Side = "old"
	New Side = "new"
)

// Workspace is the scratch directory for a single pipeline run.
type Workspace struct {
	// ID correlates log lines of one run. It does not affect any path.
	ID        string
	Root      string
	CreatedAt time.Time

	logger *slog.Logger
}

// Create makes <parent>/<name> and its build subdirectories. A leftover
// directory from an earlier run that did not clean up is removed first.
func Create(parent, name string, logger *slog.Logger) (*Workspace, error) {
	root := filepath.Join(parent, name)

	if err := os.RemoveAll(root); err != nil {
		return nil, errors.New(errors.ReportIOFailed, "failed to clear stale workspace "+root, err)
	}

	id := uuid.New().String()
	ws := &Workspace{
		ID:        id,
		Root:      root,
		CreatedAt: time.Now().UTC(),
		logger:    logger.With(slogutil.RunKey, id),
	}

	for _, dir := range []string{ws.BuildDir(Old), ws.BuildDir(New)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			_ = os.RemoveAll(root)
			return nil, errors.New(errors.ReportIOFailed, "failed to create workspace directory "+dir, err)
		}
	}

	ws.logger.Debug("Workspace created", "root", root)
	return ws, nil
}

// With creates a workspace, runs fn with it and removes the workspace on
// every exit path, including a panic in fn. A removal failure is reported
// only when fn itself succeeded.
func With(parent, name string, logger *slog.Logger, fn func(*Workspace) error) (err error) {
	ws, err := Create(parent, name, logger)
	if err != nil {
		return err
	}
	defer func() {
		if rmErr := ws.Remove(); rmErr != nil && err == nil {
			err = rmErr
		}
	}()
	return fn(ws)
}

// Remove deletes the workspace and everything in it.
func (w *Workspace) Remove() error {
	if err := os.RemoveAll(w.Root); err != nil {
		return errors.New(errors.ReportIOFailed, "failed to remove workspace "+w.Root, err)
	}
	w.logger.Debug("Workspace removed", "root", w.Root)
	return nil
}

// Logger returns the logger every line of this run should go through.
// It carries the run id.
func (w *Workspace) Logger() *slog.Logger {
	return w.logger
}

// BuildDir is the build output directory for one side.
func (w *Workspace) BuildDir(side Side) string {
	return filepath.Join(w.Root, "build_"+string(side))
}

// DumpPath is the interface dump file for one side.
func (w *Workspace) DumpPath(side Side) string {
	return filepath.Join(w.Root, string(side)+".json")
}

// ForwardReportPath holds the old-vs-new diagnose output.
func (w *Workspace) ForwardReportPath() string {
	return filepath.Join(w.Root, "old_vs_new_report.txt")
}

// ReversedReportPath holds the new-vs-old diagnose output.
func (w *Workspace) ReversedReportPath() string {
	return filepath.Join(w.Root, "new_vs_old_report.txt")
}

// WriteFile stores data at path, which must lie inside the workspace.
func (w *Workspace) WriteFile(path string, data []byte) error {
	rel, err := filepath.Rel(w.Root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return errors.New(errors.ReportIOFailed, fmt.Sprintf("refusing to write %s outside workspace", path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New(errors.ReportIOFailed, "failed to write "+path, err)
	}
	return nil
}
