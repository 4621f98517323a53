// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"

	"dtask/internal/config"
	"dtask/internal/service"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsAuth returns true if the command requires a stored session.
	NeedsAuth() bool

	// NeedsBackend returns true if the command talks to the servlets.
	NeedsBackend() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided (config dir, paths, logger).
	// svc is nil unless NeedsBackend() returns true.
	// sess is nil unless NeedsAuth() returns true.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, svc service.Service, sess *service.Session, args []string, out, errOut io.Writer) int
}

// local is embedded by commands that touch neither the session nor the backend.
type local struct{}

func (local) NeedsAuth() bool    { return false }
func (local) NeedsBackend() bool { return false }
