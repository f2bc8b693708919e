package errors

import (
	"fmt"
	"strings"
)

// UserError represents an error with user-friendly message and recovery suggestions
type UserError struct {
	Code       string
	Message    string
	Details    string
	Suggestion string
	WrappedErr error
}

func (e *UserError) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	}

	if e.Details != "" {
		parts = append(parts, fmt.Sprintf("Details: %s", e.Details))
	}

	if e.Suggestion != "" {
		parts = append(parts, fmt.Sprintf("Try: %s", e.Suggestion))
	}

	if e.WrappedErr != nil {
		parts = append(parts, fmt.Sprintf("(Error: %v)", e.WrappedErr))
	}

	return strings.Join(parts, "\n")
}

func (e *UserError) Unwrap() error {
	return e.WrappedErr
}

// Error constructors. All but DatabaseError correspond to a fatal class in
// the error taxonomy: invalid input or an unrecoverable setup failure that
// the CLI reports to the user and exits on. The local/non-fatal classes
// (probe failure, missing banner, connect timeout) are absorbed at the
// point they occur and never constructed as a UserError — they become zero
// values or log lines instead. A missing or malformed vuln database is
// also non-fatal: the CLI prints its DatabaseError as a warning and
// continues with a nil correlator.

func InvalidTargetError(target string, err error) *UserError {
	return &UserError{
		Code:       "INVALID_TARGET",
		Message:    fmt.Sprintf("Invalid target: %q", target),
		Details:    "Could not parse or resolve the target host, CIDR, or IP range",
		Suggestion: "Check the spelling. Examples: '192.168.1.1', 'example.com', '10.0.0.0/24'",
		WrappedErr: err,
	}
}

func InvalidPortSpecError(spec string, err error) *UserError {
	return &UserError{
		Code:       "INVALID_PORT_SPEC",
		Message:    fmt.Sprintf("Invalid port specification: %q", spec),
		Details:    "Ports must be between 1 and 65535",
		Suggestion: "Use formats like '80,443' or '1-1024' or '22,80,8000-9000'",
		WrappedErr: err,
	}
}

func DNSResolutionError(host string, err error) *UserError {
	return &UserError{
		Code:       "DNS_RESOLUTION_FAILED",
		Message:    fmt.Sprintf("Could not resolve host: %q", host),
		Details:    "The hostname did not resolve to any IP address",
		Suggestion: "Check the hostname, or scan the IP address directly",
		WrappedErr: err,
	}
}

func NoTargetError() *UserError {
	return &UserError{
		Code:       "NO_TARGET",
		Message:    "No target specified",
		Details:    "A target host, IP, or CIDR range is required",
		Suggestion: "Provide a target like 'nscan scan --target 192.168.1.1'",
	}
}

func ConfigLoadError(path string, err error) *UserError {
	return &UserError{
		Code:       "CONFIG_ERROR",
		Message:    "Failed to load configuration",
		Details:    fmt.Sprintf("Could not read or validate config from: %s", path),
		Suggestion: "Check the file exists and its values are within range, or omit --config to use defaults",
		WrappedErr: err,
	}
}

func OutputWriteError(path string, err error) *UserError {
	return &UserError{
		Code:       "OUTPUT_WRITE_FAILED",
		Message:    fmt.Sprintf("Failed to write report to: %s", path),
		Details:    "The output file could not be created or written",
		Suggestion: "Check the directory exists and is writable, or omit --output to print to stdout",
		WrappedErr: err,
	}
}

func DatabaseError(path string, err error) *UserError {
	return &UserError{
		Code:       "DATABASE_ERROR",
		Message:    fmt.Sprintf("Could not load vulnerability database: %s", path),
		Details:    "The database file is missing or malformed",
		Suggestion: "Check --vuln-db points to a valid JSON file, or omit --vuln-check to skip correlation",
		WrappedErr: err,
	}
}
