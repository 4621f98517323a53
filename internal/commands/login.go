package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"dtask/internal/config"
	"dtask/internal/exitcode"
	"dtask/internal/service"
	"dtask/internal/session"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct {
	email    string
	password string
}

// SetCredentials sets the email and password (for testing).
func (c *LoginCmd) SetCredentials(email, password string) {
	c.email = email
	c.password = password
}

func (c *LoginCmd) Name() string       { return "login" }
func (c *LoginCmd) Aliases() []string  { return nil }
func (c *LoginCmd) Synopsis() string   { return "Log in to the backend" }
func (c *LoginCmd) Usage() string      { return "dtask login --email <email> [--password <password>]" }
func (c *LoginCmd) NeedsAuth() bool    { return false }
func (c *LoginCmd) NeedsBackend() bool { return true }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.password, "password", "", "")
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, sess *service.Session, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	store := session.NewStore(cfg.Storage(), cfg.Logger())
	ctrl := session.NewController(svc, store)

	if cur, ok := ctrl.Current(); ok {
		if !cfg.Quiet {
			fmt.Fprintf(out, "already logged in as %s\n", cur.DisplayName())
		}
		return exitcode.Success
	}

	if err := cfg.EnsureDir(); err != nil {
		fmt.Fprintf(errOut, "error: failed to create config directory: %v\n", err)
		return exitcode.UserError
	}

	password := c.password
	if password == "" && strings.TrimSpace(c.email) != "" {
		pw, err := newSecretReader(cfg.Stdin).read("Password: ", errOut)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		password = pw
	}

	logged, err := ctrl.Login(ctx, c.email, password)
	if err != nil {
		return report(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "logged in as %s\n", logged.DisplayName())
	}
	return exitcode.Success
}
