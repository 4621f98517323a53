// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates bad arguments or input rejected by validation.
	UserError = 1

	// AuthError indicates a missing session, rejected credentials or
	// missing backend configuration.
	AuthError = 2

	// BackendError indicates a network failure, timeout or unusable
	// response from the servlet backend.
	BackendError = 3
)
