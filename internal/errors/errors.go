package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// ValidationFailed indicates bad CLI input; no process was launched
	ValidationFailed ErrorCode = "VALIDATION_FAILED"
	// BuildFailed indicates a package did not compile
	BuildFailed ErrorCode = "BUILD_FAILED"
	// DumpFailed indicates the digester could not dump a module interface
	DumpFailed ErrorCode = "DUMP_FAILED"
	// ProcessFailed indicates an external process exited with a non-zero status
	ProcessFailed ErrorCode = "PROCESS_FAILED"
	// ProcessSignaled indicates an external process was terminated by a signal
	ProcessSignaled ErrorCode = "PROCESS_SIGNALED"
	// ReportIOFailed indicates a report or artifact file could not be read or written
	ReportIOFailed ErrorCode = "REPORT_IO_FAILED"
	// ReportMalformed indicates raw digester output contained an unknown section header
	ReportMalformed ErrorCode = "REPORT_MALFORMED"
	// ConfigInvalid indicates the loaded configuration is unusable
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixActionType represents the type of fix action
type FixActionType string

const (
	// RunCommand suggests running a command
	RunCommand FixActionType = "run-command"
	// OpenDocs suggests opening documentation
	OpenDocs FixActionType = "open-docs"
	// InstallTool suggests installing a tool
	InstallTool FixActionType = "install-tool"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Type        FixActionType `json:"type"`
	Command     string        `json:"command,omitempty"`
	Safe        bool          `json:"safe,omitempty"`
	Description string        `json:"description,omitempty"`
	URL         string        `json:"url,omitempty"`
	Tool        string        `json:"tool,omitempty"`
}

// Error represents an apidiff error with code, message, and suggestions
type Error struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error       // Underlying error (not exported to JSON)
}

// New creates a new Error. Suggested fixes default to the ones registered for code.
func New(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: GetSuggestedFixes(code),
	}
}

// Newf creates a new Error without a cause and a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *Error {
	return New(code, fmt.Sprintf(format, args...), nil)
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *Error) WithDetails(details interface{}) *Error {
	e.Details = details
	return e
}

// WithFix appends a suggested fix
func (e *Error) WithFix(fix FixAction) *Error {
	e.SuggestedFixes = append(e.SuggestedFixes, fix)
	return e
}

// CodeOf returns the code of the outermost *Error in err's chain,
// or InternalError if there is none.
func CodeOf(err error) ErrorCode {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return InternalError
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	ValidationFailed: {
		{
			Type:        RunCommand,
			Command:     "apidiff --help",
			Safe:        true,
			Description: "Check that --module is set and both package paths contain Package.swift",
		},
	},
	DumpFailed: {
		{
			Type:        RunCommand,
			Safe:        true,
			Description: "Re-run with --verbose to see the digester output",
		},
	},
	ProcessFailed: {
		{
			Type:        InstallTool,
			Tool:        "swift-api-digester",
			Description: "Make sure the Swift toolchain and digester paths in the config are valid",
		},
	},
	ConfigInvalid: {
		{
			Type:        OpenDocs,
			Description: "Check .apidiff/config.json against the documented keys",
		},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		out := make([]FixAction, len(fixes))
		copy(out, fixes)
		return out
	}
	return nil
}
