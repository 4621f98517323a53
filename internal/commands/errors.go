package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"dtask/internal/exitcode"
	"dtask/internal/service"
)

// NotLoggedInMsg is printed when a command needs a session and none is stored.
const NotLoggedInMsg = "error: not logged in (run: dtask login)"

// report prints err on errOut and returns the matching exit code.
func report(errOut io.Writer, err error) int {
	switch {
	case service.IsValidation(err):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	case errors.Is(err, service.ErrNotLoggedIn):
		fmt.Fprintln(errOut, NotLoggedInMsg)
		return exitcode.AuthError
	case service.IsAuth(err):
		fmt.Fprintf(errOut, "error: auth error: %v\n", err)
		return exitcode.AuthError
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(errOut, "error: cancelled")
		return exitcode.BackendError
	case service.IsTransport(err):
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	default:
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
}

// retryHint returns " (retry available)" for failures worth repeating.
func retryHint(err error) string {
	var te *service.TransportError
	if errors.As(err, &te) && te.Retryable() {
		return " (retry available)"
	}
	return ""
}
