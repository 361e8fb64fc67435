// Package version holds the apidiff build identity.
package version

import (
	"runtime"
	"runtime/debug"
)

// These variables can be overridden at build time using ldflags:
// go build -ldflags "-X apidiff/internal/version.Version=1.0.0 -X apidiff/internal/version.Commit=abc123"
var (
	// Version is the semantic version of apidiff
	Version = "0.3.0"

	// Commit is the git commit hash (set at build time)
	Commit = "unknown"

	// BuildDate is the build timestamp (set at build time)
	BuildDate = "unknown"
)

// Info returns a formatted version string
func Info() string {
	commit := resolvedCommit()
	if commit != "unknown" && len(commit) > 7 {
		return Version + " (" + commit[:7] + ")"
	}
	return Version
}

// Full returns complete version information
func Full() string {
	return "apidiff version " + Version + "\n" +
		"Commit: " + resolvedCommit() + "\n" +
		"Built: " + BuildDate + "\n" +
		"Go: " + runtime.Version()
}

// resolvedCommit prefers the ldflags value and falls back to the VCS
// revision the go tool stamps into module builds.
func resolvedCommit() string {
	if Commit != "unknown" {
		return Commit
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && s.Value != "" {
				return s.Value
			}
		}
	}
	return Commit
}
