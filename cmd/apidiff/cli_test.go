package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"apidiff/internal/config"
	"apidiff/internal/process"
	"apidiff/internal/version"
)

const (
	forwardReport  = "/* Removed Decls */\nFunc Package.legacy() has been removed\n"
	reversedReport = "/* Removed Decls */\nStruct NewStruct has been removed\n"
)

type cliFixture struct {
	fake   *process.FakeRunner
	oldPkg string
	newPkg string
	config string
}

func newCLIFixture(t *testing.T, forward, reversed string) *cliFixture {
	t.Helper()

	f := &cliFixture{
		fake:   process.NewFakeRunner(),
		oldPkg: writePackage(t),
		newPkg: writePackage(t),
		config: filepath.Join(t.TempDir(), "apidiff.json"),
	}

	cfg := map[string]interface{}{
		"version":   1,
		"toolchain": map[string]interface{}{"sdkPath": "/sdk", "compilerPath": "/usr/bin/swiftc"},
		"workspace": map[string]interface{}{"tempDir": t.TempDir()},
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(f.config, data, 0o644); err != nil {
		t.Fatal(err)
	}

	f.fake.Handle("swift", func(cmd process.Command) error { return nil })
	f.fake.Handle("swift-api-digester", func(cmd process.Command) error {
		if cmd.Args[0] == "--dump-sdk" {
			for i, a := range cmd.Args {
				if a == "-o" {
					return os.WriteFile(cmd.Args[i+1], []byte("{}"), 0o644)
				}
			}
			return process.Fail(cmd, 1)
		}
		primary := ""
		for i, a := range cmd.Args {
			if a == "--input-paths" {
				primary = cmd.Args[i+1]
			}
		}
		if filepath.Base(primary) == "old.json" {
			fmt.Fprint(cmd.Stderr, forward)
		} else {
			fmt.Fprint(cmd.Stderr, reversed)
		}
		return nil
	})

	orig := newRunner
	newRunner = func() process.Runner { return f.fake }
	t.Cleanup(func() { newRunner = orig })

	return f
}

func (f *cliFixture) args(extra ...string) []string {
	return append(extra, "-o", f.oldPkg, "-n", f.newPkg, "-m", "MyLibrary", "--config", f.config)
}

func writePackage(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Package.swift"), []byte("// swift-tools-version:5.9\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

// resetFlags restores every flag to its default between Execute calls.
func resetFlags() {
	for _, fs := range []*pflag.FlagSet{rootCmd.PersistentFlags(), rootCmd.Flags(), apiChangesDescriptionCmd.Flags(), initCmd.Flags()} {
		fs.VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
}

func runCLI(args ...string) (string, string, error) {
	resetFlags()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := execute()
	return stdout.String(), stderr.String(), err
}

func TestRoot_DefaultsToType(t *testing.T) {
	f := newCLIFixture(t, forwardReport, reversedReport)

	stdout, _, err := runCLI(f.args()...)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if stdout != "breaking\n" {
		t.Errorf("stdout = %q, want %q", stdout, "breaking\n")
	}
}

func TestAPIChangesType_Minor(t *testing.T) {
	f := newCLIFixture(t, "", "")

	stdout, stderr, err := runCLI(f.args("api-changes-type")...)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if stdout != "minor\n" {
		t.Errorf("stdout = %q, want %q", stdout, "minor\n")
	}
	if stderr != "" {
		t.Errorf("stderr = %q, want nothing without --verbose", stderr)
	}
}

func TestAPIChangesType_Verbose(t *testing.T) {
	f := newCLIFixture(t, forwardReport, "")

	stdout, stderr, err := runCLI(f.args("api-changes-type", "--verbose")...)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if stdout != "breaking\n" {
		t.Errorf("stdout = %q, want only the verdict", stdout)
	}
	for _, want := range []string{"Compiling old package", "Comparing module dumps", "[run ", "bump major"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr missing %q:\n%s", want, stderr)
		}
	}
}

func TestAPIChangesDescription_Human(t *testing.T) {
	f := newCLIFixture(t, forwardReport, reversedReport)

	stdout, _, err := runCLI(f.args("api-changes-description")...)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	want := "/* Removed Decls */\n" +
		" - Func Package.legacy() has been removed\n" +
		"/* Added Decls */\n" +
		" - Struct NewStruct has been added\n"
	if stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}
}

func TestAPIChangesDescription_Structured(t *testing.T) {
	type payload struct {
		Verdict      string `json:"verdict" yaml:"verdict" toml:"verdict"`
		SemverAdvice string `json:"semverAdvice" yaml:"semverAdvice" toml:"semverAdvice"`
		Changes      struct {
			AddedDeclarations []string `json:"addedDeclarations" yaml:"addedDeclarations" toml:"addedDeclarations"`
			OtherChanges      []string `json:"otherChanges" yaml:"otherChanges" toml:"otherChanges"`
		} `json:"changes" yaml:"changes" toml:"changes"`
	}

	decoders := map[string]func(string, *payload) error{
		"json": func(s string, p *payload) error { return json.Unmarshal([]byte(s), p) },
		"yaml": func(s string, p *payload) error { return yaml.Unmarshal([]byte(s), p) },
		"toml": func(s string, p *payload) error { _, err := toml.Decode(s, p); return err },
	}

	for format, decode := range decoders {
		t.Run(format, func(t *testing.T) {
			f := newCLIFixture(t, forwardReport, reversedReport)

			stdout, _, err := runCLI(f.args("api-changes-description", "--format", format)...)
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}

			var p payload
			if err := decode(stdout, &p); err != nil {
				t.Fatalf("decode %s: %v\n%s", format, err, stdout)
			}
			if p.Verdict != "breaking" {
				t.Errorf("verdict = %q, want breaking", p.Verdict)
			}
			if p.SemverAdvice != "major" {
				t.Errorf("semverAdvice = %q, want major", p.SemverAdvice)
			}
			if len(p.Changes.AddedDeclarations) != 1 || p.Changes.AddedDeclarations[0] != "Struct NewStruct has been added" {
				t.Errorf("addedDeclarations = %v", p.Changes.AddedDeclarations)
			}
			if format == "json" && p.Changes.OtherChanges == nil {
				t.Error("empty categories should still be present")
			}
		})
	}
}

func TestAPIChangesDescription_UnsupportedFormat(t *testing.T) {
	f := newCLIFixture(t, "", "")

	_, _, err := runCLI(f.args("api-changes-description", "--format", "xml")...)
	if err == nil || !strings.Contains(err.Error(), "unsupported format") {
		t.Errorf("Execute() error = %v, want unsupported format", err)
	}
	if n := len(f.fake.Calls()); n != 0 {
		t.Errorf("len(Calls()) = %d, want 0", n)
	}
}

func TestValidationFailure(t *testing.T) {
	f := newCLIFixture(t, "", "")

	_, stderr, err := runCLI("-o", f.oldPkg, "-n", t.TempDir(), "-m", "MyLibrary", "--config", f.config)
	if err == nil {
		t.Fatal("Execute() should fail when --new-package has no manifest")
	}
	if !strings.Contains(stderr, "Error:") || !strings.Contains(stderr, "VALIDATION_FAILED") {
		t.Errorf("stderr = %q, want an Error: line with the code", stderr)
	}
	if n := len(f.fake.Calls()); n != 0 {
		t.Errorf("len(Calls()) = %d, want 0", n)
	}
}

func TestBuildFailure(t *testing.T) {
	f := newCLIFixture(t, "", "")
	f.fake.Handle("swift", func(cmd process.Command) error {
		fmt.Fprintln(cmd.Stderr, "A.swift:3:5: error: cannot find 'foo' in scope")
		return process.Fail(cmd, 1)
	})

	stdout, stderr, err := runCLI(f.args()...)
	if err == nil {
		t.Fatal("Execute() should fail when the build fails")
	}
	if stdout != "" {
		t.Errorf("stdout = %q, want nothing on failure", stdout)
	}
	for _, want := range []string{
		"BUILD_FAILED",
		"A.swift:3:5: error: cannot find 'foo' in scope",
		"$ swift build --package-path " + f.oldPkg,
	} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr missing %q:\n%s", want, stderr)
		}
	}
}

func TestDigesterExitStatus_StillReportsVerdict(t *testing.T) {
	f := newCLIFixture(t, "", "")
	f.fake.Handle("swift-api-digester", func(cmd process.Command) error {
		if cmd.Args[0] == "--dump-sdk" {
			for i, a := range cmd.Args {
				if a == "-o" {
					return os.WriteFile(cmd.Args[i+1], []byte("{}"), 0o644)
				}
			}
		}
		fmt.Fprint(cmd.Stderr, forwardReport)
		return process.Fail(cmd, 1)
	})

	stdout, stderr, err := runCLI(f.args()...)
	if err != nil {
		t.Fatalf("Execute() error = %v\n%s", err, stderr)
	}
	if stdout != "breaking\n" {
		t.Errorf("stdout = %q, want %q", stdout, "breaking\n")
	}
}

func TestLoadConfig_FlagOverrides(t *testing.T) {
	f := newCLIFixture(t, "", "")

	resetFlags()
	if err := rootCmd.PersistentFlags().Parse([]string{
		"--config", f.config, "-x", "/Applications/Xcode-beta.app", "--parallel", "--log-format", "json",
	}); err != nil {
		t.Fatal(err)
	}
	defer resetFlags()

	cfg, err := loadConfig(rootCmd)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Toolchain.XcodePath != "/Applications/Xcode-beta.app" {
		t.Errorf("XcodePath = %q", cfg.Toolchain.XcodePath)
	}
	if cfg.Toolchain.SDKPath != "" {
		t.Errorf("SDKPath = %q, want cleared by --xcode-path", cfg.Toolchain.SDKPath)
	}
	if !cfg.Pipeline.Parallel {
		t.Error("Parallel should be enabled by --parallel")
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want json", cfg.Logging.Format)
	}
}

func TestLoadConfig_InvalidLogFormat(t *testing.T) {
	f := newCLIFixture(t, "", "")

	_, _, err := runCLI(f.args("--log-format", "xml")...)
	if err == nil || !strings.Contains(err.Error(), "CONFIG_INVALID") {
		t.Errorf("Execute() error = %v, want CONFIG_INVALID", err)
	}
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := runCLI("version")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.HasPrefix(stdout, "apidiff version ") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestVersionFlag(t *testing.T) {
	stdout, _, err := runCLI("--version")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if stdout != "apidiff version "+version.Info()+"\n" {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd() error = %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir() error = %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	stdout, _, err := runCLI("init", "-x", "/Applications/Xcode-beta.app")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(stdout, "Configuration written to") {
		t.Errorf("stdout = %q", stdout)
	}

	cfg, err := config.LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Toolchain.XcodePath != "/Applications/Xcode-beta.app" {
		t.Errorf("XcodePath = %q, want the --xcode-path value", cfg.Toolchain.XcodePath)
	}

	stdout, _, err = runCLI("init")
	if err != nil {
		t.Fatalf("second init error = %v", err)
	}
	if !strings.Contains(stdout, "already initialized") {
		t.Errorf("stdout = %q, want already initialized", stdout)
	}
}
