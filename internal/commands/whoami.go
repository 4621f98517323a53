package commands

import (
	"context"
	"flag"
	"io"

	"dtask/internal/config"
	"dtask/internal/exitcode"
	"dtask/internal/output"
	"dtask/internal/service"
)

func init() {
	Register(&WhoamiCmd{})
}

// WhoamiCmd prints the stored session.
type WhoamiCmd struct{}

func (c *WhoamiCmd) Name() string       { return "whoami" }
func (c *WhoamiCmd) Aliases() []string  { return nil }
func (c *WhoamiCmd) Synopsis() string   { return "Show the logged-in account" }
func (c *WhoamiCmd) Usage() string      { return "dtask whoami [common flags]" }
func (c *WhoamiCmd) NeedsAuth() bool    { return true }
func (c *WhoamiCmd) NeedsBackend() bool { return false }

func (c *WhoamiCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *WhoamiCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, sess *service.Session, args []string, out, errOut io.Writer) int {
	if sess == nil {
		return report(errOut, service.ErrNotLoggedIn)
	}
	output.FormatSession(out, *sess)
	return exitcode.Success
}
