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
	Register(&RegisterCmd{})
}

// RegisterCmd implements the register command.
type RegisterCmd struct {
	name     string
	first    string
	last     string
	email    string
	password string
	confirm  string
}

func (c *RegisterCmd) Name() string       { return "register" }
func (c *RegisterCmd) Aliases() []string  { return []string{"signup"} }
func (c *RegisterCmd) Synopsis() string   { return "Create an account" }
func (c *RegisterCmd) NeedsAuth() bool    { return false }
func (c *RegisterCmd) NeedsBackend() bool { return true }
func (c *RegisterCmd) Usage() string {
	return "dtask register (--name <name> | --first <first> --last <last>) --email <email> [--password <password> --confirm <password>]"
}

func (c *RegisterCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.name, "name", "", "")
	fs.StringVar(&c.first, "first", "", "")
	fs.StringVar(&c.last, "last", "", "")
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.password, "password", "", "")
	fs.StringVar(&c.confirm, "confirm", "", "")
}

func (c *RegisterCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, sess *service.Session, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	password, confirm := c.password, c.confirm
	secrets := newSecretReader(cfg.Stdin)
	for _, p := range []struct {
		val    *string
		prompt string
	}{
		{&password, "Password: "},
		{&confirm, "Confirm password: "},
	} {
		if *p.val != "" {
			continue
		}
		v, err := secrets.read(p.prompt, errOut)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		*p.val = v
	}

	ctrl := session.NewController(svc, session.NewStore(cfg.Storage(), cfg.Logger()))
	res, err := ctrl.Register(ctx, session.RegisterRequest{
		DisplayName: displayName(c.name, c.first, c.last),
		Email:       c.email,
		Password:    password,
		Confirm:     confirm,
	})
	if err != nil {
		return report(errOut, err)
	}
	if !res.Success {
		msg := res.Message
		if msg == "" {
			msg = "registration failed"
		}
		fmt.Fprintf(errOut, "error: auth error: %s\n", msg)
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "registered %s (run: dtask login)\n", strings.TrimSpace(c.email))
	}
	return exitcode.Success
}

// displayName prefers an explicit name and otherwise joins first and last.
func displayName(name, first, last string) string {
	if n := strings.TrimSpace(name); n != "" {
		return n
	}
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}
