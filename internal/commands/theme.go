package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"dtask/internal/config"
	"dtask/internal/exitcode"
	"dtask/internal/prefs"
	"dtask/internal/service"
)

func init() {
	Register(&ThemeCmd{})
}

// ThemeCmd shows or changes the theme preference.
type ThemeCmd struct {
	local
	reset bool
}

func (c *ThemeCmd) Name() string      { return "theme" }
func (c *ThemeCmd) Aliases() []string { return nil }
func (c *ThemeCmd) Synopsis() string  { return "Show or set the theme" }
func (c *ThemeCmd) Usage() string     { return "dtask theme [--reset] [light|dark|system]" }

func (c *ThemeCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.reset, "reset", false, "")
}

func (c *ThemeCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, sess *service.Session, args []string, out, errOut io.Writer) int {
	kv := cfg.Storage()

	switch {
	case c.reset && len(args) > 0:
		fmt.Fprintln(errOut, "error: cannot use both --reset and a theme name")
		return exitcode.UserError

	case c.reset:
		if err := prefs.ResetTheme(kv); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}

	case len(args) == 1:
		if err := cfg.EnsureDir(); err != nil {
			fmt.Fprintf(errOut, "error: failed to create config directory: %v\n", err)
			return exitcode.UserError
		}
		if err := prefs.SetTheme(kv, args[0]); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}

	case len(args) > 1:
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[1])
		return exitcode.UserError

	default:
		fmt.Fprintln(out, prefs.Theme(kv))
		return exitcode.Success
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, prefs.Theme(kv))
	}
	return exitcode.Success
}
