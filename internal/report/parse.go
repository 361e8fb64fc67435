package report

import (
	"fmt"
	"os"
	"strings"

	"apidiff/internal/errors"
)

// UnknownHeaderError is returned when raw output contains a section header
// that is not one of the digester's known markers.
type UnknownHeaderError struct {
	Line   int
	Header string
}

func (e *UnknownHeaderError) Error() string {
	return fmt.Sprintf("line %d: unknown report section %q", e.Line, e.Header)
}

// Parse builds a report from raw digester diagnose output.
//
// Lines are scanned once, in order. A known header moves the category
// cursor; any other non-empty line is appended verbatim to the current
// category. Until the first known header every other line is dropped,
// header-shaped or not.
func Parse(raw string) (*Report, error) {
	r := New()
	current := Category(-1)

	for i, line := range splitLines(raw) {
		if line == "" {
			continue
		}
		if c, ok := CategoryForMarker(line); ok {
			current = c
			continue
		}
		if !current.Valid() {
			continue
		}
		if isHeader(line) {
			return nil, errors.New(errors.ReportMalformed, "unrecognized digester output",
				&UnknownHeaderError{Line: i + 1, Header: line})
		}
		r.Append(current, line)
	}

	return r, nil
}

// ParseFile reads and parses a raw report file.
func ParseFile(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.ReportIOFailed, "failed to read report "+path, err)
	}
	return Parse(string(data))
}

// splitLines breaks raw on \n, \r\n and a lone \r.
func splitLines(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	return strings.Split(strings.ReplaceAll(raw, "\r", "\n"), "\n")
}

// isHeader matches the "/* Title */" shape the digester uses for sections.
func isHeader(line string) bool {
	return len(line) > 4 && strings.HasPrefix(line, "/*") && strings.HasSuffix(line, "*/")
}
