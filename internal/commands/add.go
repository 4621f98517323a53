package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"dtask/internal/config"
	"dtask/internal/exitcode"
	"dtask/internal/output"
	"dtask/internal/service"
	"dtask/internal/taskcache"
)

func init() {
	Register(&AddCmd{name: "add", synopsis: "Create a task"})
	Register(&AddCmd{name: "create", synopsis: "Create a task (alias for add)"})
}

// AddCmd implements the add and create commands.
type AddCmd struct {
	name     string
	synopsis string

	description string
	show        bool
}

// NewAddCmd returns an add command (for testing).
func NewAddCmd() *AddCmd {
	return &AddCmd{name: "add", synopsis: "Create a task"}
}

// SetDescription sets the description (for testing).
func (c *AddCmd) SetDescription(desc string) {
	c.description = desc
}

// SetShow makes the command print the refreshed list (for testing).
func (c *AddCmd) SetShow(show bool) {
	c.show = show
}

func (c *AddCmd) Name() string       { return c.name }
func (c *AddCmd) Aliases() []string  { return nil }
func (c *AddCmd) Synopsis() string   { return c.synopsis }
func (c *AddCmd) NeedsAuth() bool    { return true }
func (c *AddCmd) NeedsBackend() bool { return true }
func (c *AddCmd) Usage() string {
	return "dtask " + c.name + " [-d <description>] [--show] <title...>"
}

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.description, "description", "", "")
	fs.StringVar(&c.description, "d", "", "")
	fs.BoolVar(&c.show, "show", false, "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, sess *service.Session, args []string, out, errOut io.Writer) int {
	title := strings.Join(args, " ")
	if strings.TrimSpace(title) == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	cache := taskcache.New(svc, sess, cfg.Logger())
	if _, err := cache.Create(ctx, title, c.description); err != nil {
		return report(errOut, err)
	}

	if !c.show {
		if !cfg.Quiet {
			fmt.Fprintln(out, "ok")
		}
		return exitcode.Success
	}

	if err := cache.EnsureFresh(ctx); err != nil {
		return reportLoadFailure(errOut, err)
	}
	output.FormatTasks(out, cache.Snapshot().Tasks, cfg.Quiet)
	return exitcode.Success
}
