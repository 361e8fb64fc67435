package breaking

import (
	"os"
	"path/filepath"
	"strings"

	"apidiff/internal/errors"
	"apidiff/internal/report"
)

// CompareOptions configures one comparison between two package versions
type CompareOptions struct {
	OldPackage   string // Directory of the baseline package
	NewPackage   string // Directory of the candidate package
	Module       string // Module whose public interface is compared
	ManifestFile string // File that marks a directory as a package (default: Package.swift)
	Parallel     bool   // Build and dump both versions concurrently
	ArchivePath  string // If set, the workspace is archived here before cleanup
}

// DefaultManifestFile marks a directory as a Swift package
const DefaultManifestFile = "Package.swift"

// Validate checks the options before any process is launched
func (o CompareOptions) Validate() error {
	if strings.TrimSpace(o.Module) == "" {
		return errors.New(errors.ValidationFailed, "module name must not be empty", nil)
	}

	manifest := o.ManifestFile
	if manifest == "" {
		manifest = DefaultManifestFile
	}

	for _, p := range []struct {
		flag string
		path string
	}{
		{"old-package", o.OldPackage},
		{"new-package", o.NewPackage},
	} {
		if strings.TrimSpace(p.path) == "" {
			return errors.Newf(errors.ValidationFailed, "--%s must not be empty", p.flag)
		}
		info, err := os.Stat(filepath.Join(p.path, manifest))
		if err != nil || info.IsDir() {
			return errors.New(errors.ValidationFailed, p.path+" is not a package directory (missing "+manifest+")", err).
				WithDetails(map[string]interface{}{"flag": p.flag, "path": p.path})
		}
	}
	return nil
}

// CompareResult contains the result of comparing two package versions
type CompareResult struct {
	OldPackage   string          `json:"oldPackage" yaml:"oldPackage" toml:"oldPackage"`
	NewPackage   string          `json:"newPackage" yaml:"newPackage" toml:"newPackage"`
	Module       string          `json:"module" yaml:"module" toml:"module"`
	Verdict      report.Verdict  `json:"verdict" yaml:"verdict" toml:"verdict"`
	SemverAdvice string          `json:"semverAdvice" yaml:"semverAdvice" toml:"semverAdvice"` // "major" or "minor"
	Summary      *report.Summary `json:"summary" yaml:"summary" toml:"summary"`
	Changes      report.Changes  `json:"changes" yaml:"changes" toml:"changes"`
	ArchivePath  string          `json:"archivePath,omitempty" yaml:"archivePath,omitempty" toml:"archivePath,omitempty"`

	// Report is the merged categorized report the fields above derive from
	Report *report.Report `json:"-" yaml:"-" toml:"-"`
}

// HasBreakingChanges returns true if the verdict is breaking
func (r *CompareResult) HasBreakingChanges() bool {
	return r != nil && r.Verdict == report.VerdictBreaking
}
