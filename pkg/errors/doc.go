// Package errors provides user-friendly error types with detailed messages and recovery suggestions.
//
// This package defines a single error type, UserError, used for the fatal
// classes of a run: invalid input or setup failures that stop the run and
// get reported to the user, as opposed to local failures (a failed
// protocol probe, a missing banner, a connect timeout) which are absorbed
// where they occur and never become a UserError. DatabaseError is the one
// non-fatal UserError: a missing or malformed vulnerability database is
// reported as a warning and the run continues without correlation.
//
// Example usage:
//
//	if err := validatePorts(spec); err != nil {
//	    return errors.InvalidPortSpecError(spec, err)
//	}
//
// Fatal error constructors:
//   - InvalidTargetError: target host/CIDR could not be parsed or resolved
//   - InvalidPortSpecError: port specification outside 1-65535 or malformed
//   - DNSResolutionError: hostname did not resolve to any address
//   - NoTargetError: no target was provided at all
//   - ConfigLoadError: config file unreadable or failed validation
//   - OutputWriteError: report could not be written to the requested path
//
// Non-fatal (printed as a warning):
//   - DatabaseError: vulnerability database missing or malformed
//
// Integration:
//
// UserError implements the standard error interface and supports
// errors.Is/errors.As through Unwrap, so it composes with ordinary Go
// error handling:
//
//	if err != nil {
//	    var userErr *errors.UserError
//	    if errors.As(err, &userErr) {
//	        fmt.Fprintln(os.Stderr, userErr.Error())
//	    }
//	    os.Exit(1)
//	}
package errors
