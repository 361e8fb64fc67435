package main

import (
	"fmt"
	"strings"
	"testing"

	"apidiff/internal/breaking"
	"apidiff/internal/errors"
	"apidiff/internal/report"
)

func sampleResult() *breaking.CompareResult {
	r := report.New()
	r.Append(report.RemovedDeclarations, "Func Package.legacy() has been removed")
	verdict := report.Classify(r)
	return &breaking.CompareResult{
		OldPackage:   "/pkg/v1",
		NewPackage:   "/pkg/v2",
		Module:       "MyLibrary",
		Verdict:      verdict,
		SemverAdvice: verdict.SemverAdvice(),
		Summary:      report.Summarize(r),
		Changes:      r.Changes(),
		Report:       r,
	}
}

func TestFormatResponse_JSON(t *testing.T) {
	result, err := FormatResponse(sampleResult(), FormatJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		`"verdict": "breaking"`,
		`"semverAdvice": "major"`,
		`"removedDeclarations": [`,
		`"addedDeclarations": []`,
		`"totalChanges": 1`,
	} {
		if !strings.Contains(result, want) {
			t.Errorf("JSON output missing %s:\n%s", want, result)
		}
	}
	if strings.Contains(result, "archivePath") {
		t.Error("archivePath should be omitted when unset")
	}
}

func TestFormatResponse_YAML(t *testing.T) {
	result, err := FormatResponse(sampleResult(), FormatYAML)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"verdict: breaking",
		"module: MyLibrary",
		"removedDeclarations:",
		"- Func Package.legacy() has been removed",
		"addedDeclarations: []",
	} {
		if !strings.Contains(result, want) {
			t.Errorf("YAML output missing %q:\n%s", want, result)
		}
	}
}

func TestFormatResponse_TOML(t *testing.T) {
	result, err := FormatResponse(sampleResult(), FormatTOML)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		`verdict = "breaking"`,
		"[changes]",
		`removedDeclarations = ["Func Package.legacy() has been removed"]`,
		"[summary]",
	} {
		if !strings.Contains(result, want) {
			t.Errorf("TOML output missing %q:\n%s", want, result)
		}
	}
}

func TestFormatResponse_Human(t *testing.T) {
	result, err := FormatResponse(sampleResult(), FormatHuman)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "breaking (1 changes, bump major)\n/* Removed Decls */\n - Func Package.legacy() has been removed"
	if result != want {
		t.Errorf("FormatResponse() = %q, want %q", result, want)
	}
}

func TestFormatResponse_UnsupportedFormat(t *testing.T) {
	_, err := FormatResponse(sampleResult(), "xml")
	if err == nil {
		t.Error("expected error for unsupported format")
	}
	if !strings.Contains(err.Error(), "unsupported format") {
		t.Errorf("error should mention unsupported format, got: %v", err)
	}
}

func TestFormatError(t *testing.T) {
	buildErr := errors.New(errors.BuildFailed, "failed to build package /pkg/v1", fmt.Errorf("swift exited with status 1")).
		WithDetails(map[string]interface{}{"stderr": "A.swift:3:5: error: cannot find 'foo' in scope\nerror: fatalError"}).
		WithFix(errors.FixAction{Type: errors.RunCommand, Command: "swift build --package-path /pkg/v1", Description: "Reproduce"})

	tests := []struct {
		name    string
		err     error
		want    []string
		notWant []string
	}{
		{
			name:    "plain error",
			err:     fmt.Errorf("unknown flag: --bogus"),
			want:    []string{"Error: unknown flag: --bogus\n"},
			notWant: []string{"Suggested fixes"},
		},
		{
			name: "tool output and fixes",
			err:  buildErr,
			want: []string{
				"Error: [BUILD_FAILED] failed to build package /pkg/v1",
				"\n  A.swift:3:5: error: cannot find 'foo' in scope\n  error: fatalError\n",
				"Suggested fixes:\n  - Reproduce\n    $ swift build --package-path /pkg/v1\n",
			},
		},
		{
			name:    "no captured output",
			err:     errors.New(errors.ReportMalformed, "unrecognized digester output", nil),
			want:    []string{"Error: [REPORT_MALFORMED] unrecognized digester output\n"},
			notWant: []string{"Suggested fixes", "\n  "},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatError(tt.err)
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("formatError() = %q, missing %q", got, want)
				}
			}
			for _, bad := range tt.notWant {
				if strings.Contains(got, bad) {
					t.Errorf("formatError() = %q, should not contain %q", got, bad)
				}
			}
		})
	}
}

func TestOutputFormat_Valid(t *testing.T) {
	tests := []struct {
		format OutputFormat
		want   bool
	}{
		{FormatHuman, true},
		{FormatJSON, true},
		{FormatYAML, true},
		{FormatTOML, true},
		{"xml", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := tt.format.Valid(); got != tt.want {
			t.Errorf("OutputFormat(%q).Valid() = %v, want %v", tt.format, got, tt.want)
		}
	}
}

func TestPalette(t *testing.T) {
	var buf strings.Builder

	off, err := newPalette("off", &buf)
	if err != nil {
		t.Fatal(err)
	}
	if got := off.verdict(report.VerdictBreaking); got != "breaking" {
		t.Errorf("verdict() = %q, want plain text", got)
	}
	if off.markerStyle() != nil {
		t.Error("markerStyle() should be nil when color is off")
	}

	auto, err := newPalette("auto", &buf)
	if err != nil {
		t.Fatal(err)
	}
	if auto.enabled {
		t.Error("auto should disable color for a non-terminal writer")
	}

	on, err := newPalette("on", &buf)
	if err != nil {
		t.Fatal(err)
	}
	got := on.verdict(report.VerdictMinor)
	if got == "minor" || !strings.Contains(got, "minor") {
		t.Errorf("verdict() = %q, want colored minor", got)
	}
	if style := on.markerStyle(); style == nil || !strings.Contains(style("/* Others */"), "\x1b[") {
		t.Error("markerStyle() should add ANSI escapes when color is on")
	}

	if _, err := newPalette("rainbow", &buf); err == nil {
		t.Error("newPalette() should reject an unknown mode")
	}
}
