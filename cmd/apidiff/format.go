package main

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"apidiff/internal/breaking"
	"apidiff/internal/errors"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatHuman OutputFormat = "human"
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
	FormatTOML  OutputFormat = "toml"
)

// Valid reports whether f is a known format
func (f OutputFormat) Valid() bool {
	switch f {
	case FormatHuman, FormatJSON, FormatYAML, FormatTOML:
		return true
	}
	return false
}

// FormatResponse formats a response according to the specified format
func FormatResponse(resp interface{}, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return formatJSON(resp)
	case FormatYAML:
		return formatYAML(resp)
	case FormatTOML:
		return formatTOML(resp)
	case FormatHuman:
		return formatHuman(resp)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// formatJSON formats the response as JSON
func formatJSON(resp interface{}) (string, error) {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

// formatYAML formats the response as YAML
func formatYAML(resp interface{}) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(resp); err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// formatTOML formats the response as TOML
func formatTOML(resp interface{}) (string, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(resp); err != nil {
		return "", fmt.Errorf("failed to marshal TOML: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// formatHuman formats the response in human-readable format
func formatHuman(resp interface{}) (string, error) {
	switch v := resp.(type) {
	case *breaking.CompareResult:
		return formatCompareHuman(v), nil
	default:
		// For unknown types, fall back to JSON
		return formatJSON(resp)
	}
}

// formatCompareHuman renders the verdict line followed by the description
func formatCompareHuman(r *breaking.CompareResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s (%d changes, bump %s)\n", r.Verdict, r.Summary.TotalChanges, r.SemverAdvice))
	b.WriteString(r.Report.Description())
	return strings.TrimRight(b.String(), "\n")
}

// formatError renders a command failure for stderr. Tool output captured on
// an *errors.Error and its suggested fixes follow the error line.
func formatError(err error) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Error: %v\n", err))

	var apiErr *errors.Error
	if !stderrors.As(err, &apiErr) {
		return b.String()
	}

	if details, ok := apiErr.Details.(map[string]interface{}); ok {
		if out, _ := details["stderr"].(string); out != "" {
			b.WriteString("\n")
			for _, line := range strings.Split(out, "\n") {
				b.WriteString("  " + line + "\n")
			}
		}
	}

	if len(apiErr.SuggestedFixes) > 0 {
		b.WriteString("\nSuggested fixes:\n")
		for _, fix := range apiErr.SuggestedFixes {
			b.WriteString(fmt.Sprintf("  - %s\n", fix.Description))
			if fix.Command != "" {
				b.WriteString(fmt.Sprintf("    $ %s\n", fix.Command))
			}
		}
	}
	return b.String()
}
