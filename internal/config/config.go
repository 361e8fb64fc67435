package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"apidiff/internal/errors"
)

// Config represents the complete apidiff configuration
type Config struct {
	Version int `json:"version" mapstructure:"version"`

	Toolchain ToolchainConfig `json:"toolchain" mapstructure:"toolchain"`
	Workspace WorkspaceConfig `json:"workspace" mapstructure:"workspace"`
	Package   PackageConfig   `json:"package" mapstructure:"package"`
	Pipeline  PipelineConfig  `json:"pipeline" mapstructure:"pipeline"`
	Logging   LoggingConfig   `json:"logging" mapstructure:"logging"`
}

// ToolchainConfig locates the external build toolchain and digester
type ToolchainConfig struct {
	SwiftPath    string `json:"swiftPath" mapstructure:"swiftPath"`
	CompilerPath string `json:"compilerPath" mapstructure:"compilerPath"`
	DigesterPath string `json:"digesterPath" mapstructure:"digesterPath"`
	XcodePath    string `json:"xcodePath" mapstructure:"xcodePath"`
	SDKPath      string `json:"sdkPath" mapstructure:"sdkPath"`
}

// WorkspaceConfig controls where the scratch directory is created
type WorkspaceConfig struct {
	TempDir string `json:"tempDir" mapstructure:"tempDir"`
	DirName string `json:"dirName" mapstructure:"dirName"`
}

// PackageConfig describes what makes a directory a package
type PackageConfig struct {
	ManifestFile string `json:"manifestFile" mapstructure:"manifestFile"`
}

// PipelineConfig contains pipeline scheduling options
type PipelineConfig struct {
	Parallel bool `json:"parallel" mapstructure:"parallel"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// CurrentVersion is the config schema version this build understands
const CurrentVersion = 1

// DefaultSDKSubpath is the macOS SDK location inside an Xcode bundle
const DefaultSDKSubpath = "Contents/Developer/Platforms/MacOSX.platform/Developer/SDKs/MacOSX.sdk"

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentVersion,
		Toolchain: ToolchainConfig{
			SwiftPath:    "swift",
			CompilerPath: "swiftc",
			DigesterPath: "swift-api-digester",
			XcodePath:    "/Applications/Xcode.app",
		},
		Workspace: WorkspaceConfig{
			DirName: "swift_package_version",
		},
		Package: PackageConfig{
			ManifestFile: "Package.swift",
		},
		Pipeline: PipelineConfig{
			Parallel: false,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "warn",
		},
	}
}

// ResolvedSDKPath returns the explicit SDK path, or the macOS SDK inside XcodePath
func (t ToolchainConfig) ResolvedSDKPath() string {
	if t.SDKPath != "" {
		return t.SDKPath
	}
	return filepath.Join(t.XcodePath, DefaultSDKSubpath)
}

// ResolvedTempDir returns the configured temp dir or the OS default
func (w WorkspaceConfig) ResolvedTempDir() string {
	if w.TempDir != "" {
		return w.TempDir
	}
	return os.TempDir()
}

// setDefaults registers every default with viper so env overrides apply to
// keys that are absent from the config file.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("version", d.Version)
	v.SetDefault("toolchain.swiftPath", d.Toolchain.SwiftPath)
	v.SetDefault("toolchain.compilerPath", d.Toolchain.CompilerPath)
	v.SetDefault("toolchain.digesterPath", d.Toolchain.DigesterPath)
	v.SetDefault("toolchain.xcodePath", d.Toolchain.XcodePath)
	v.SetDefault("toolchain.sdkPath", d.Toolchain.SDKPath)
	v.SetDefault("workspace.tempDir", d.Workspace.TempDir)
	v.SetDefault("workspace.dirName", d.Workspace.DirName)
	v.SetDefault("package.manifestFile", d.Package.ManifestFile)
	v.SetDefault("pipeline.parallel", d.Pipeline.Parallel)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.level", d.Logging.Level)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("APIDIFF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig loads configuration from <dir>/.apidiff/config.json.
// A missing file yields the defaults with APIDIFF_* environment overrides applied.
func LoadConfig(dir string) (*Config, error) {
	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(dir, ".apidiff"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.New(errors.ConfigInvalid, "failed to read config", err)
		}
	}
	return unmarshal(v)
}

// LoadConfigFile loads configuration from an explicit file. The format is
// taken from the file extension (json, yaml, toml).
func LoadConfigFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.New(errors.ConfigInvalid, "failed to read config "+path, err)
	}
	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.New(errors.ConfigInvalid, "failed to decode config", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the configuration to <dir>/.apidiff/config.json
func (c *Config) Save(dir string) error {
	configDir := filepath.Join(dir, ".apidiff")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(configDir, "config.json"), data, 0o644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return configError("version", "unsupported config version")
	}

	required := map[string]string{
		"toolchain.swiftPath":    c.Toolchain.SwiftPath,
		"toolchain.compilerPath": c.Toolchain.CompilerPath,
		"toolchain.digesterPath": c.Toolchain.DigesterPath,
		"package.manifestFile":   c.Package.ManifestFile,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			return configError(field, "must not be empty")
		}
	}

	if c.Toolchain.SDKPath == "" && c.Toolchain.XcodePath == "" {
		return configError("toolchain.xcodePath", "either xcodePath or sdkPath must be set")
	}

	name := c.Workspace.DirName
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return configError("workspace.dirName", "must be a single path component")
	}

	switch c.Logging.Format {
	case "human", "json":
	default:
		return configError("logging.format", "must be human or json")
	}

	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}

func configError(field, message string) error {
	return errors.New(errors.ConfigInvalid, "invalid configuration", &ConfigError{Field: field, Message: message})
}
