package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"dtask/internal/config"
	"dtask/internal/exitcode"
	"dtask/internal/output"
	"dtask/internal/service"
	"dtask/internal/taskcache"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `dtask` (no args) and `dtask list`.
type ListCmd struct {
	state string
}

// SetState sets the state filter (for testing).
func (c *ListCmd) SetState(state string) {
	c.state = state
}

func (c *ListCmd) Name() string       { return "list" }
func (c *ListCmd) Aliases() []string  { return []string{"ls"} }
func (c *ListCmd) Synopsis() string   { return "List tasks" }
func (c *ListCmd) Usage() string      { return "dtask list [--state pending|completed]" }
func (c *ListCmd) NeedsAuth() bool    { return true }
func (c *ListCmd) NeedsBackend() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.state, "state", "", "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, sess *service.Session, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	filter, ok := stateFilter(c.state)
	if !ok {
		fmt.Fprintf(errOut, "error: invalid state: %s\n", c.state)
		return exitcode.UserError
	}

	cache := taskcache.New(svc, sess, cfg.Logger())
	if err := cache.Load(ctx); err != nil {
		return reportLoadFailure(errOut, err)
	}

	snap := cache.Snapshot()
	if snap.Phase == taskcache.Uninitialized {
		return report(errOut, service.ErrNotLoggedIn)
	}

	tasks := snap.Tasks
	if filter != "" {
		tasks = nil
		for _, t := range snap.Tasks {
			if t.State == filter {
				tasks = append(tasks, t)
			}
		}
	}
	output.FormatTasks(out, tasks, cfg.Quiet)
	return exitcode.Success
}

// reportLoadFailure prints a failed task load and returns its exit code.
func reportLoadFailure(errOut io.Writer, err error) int {
	if service.IsTransport(err) {
		fmt.Fprintf(errOut, "error: load failed%s: %v\n", retryHint(err), err)
		return exitcode.BackendError
	}
	return report(errOut, err)
}

// stateFilter maps the --state flag to a task state; "" means all.
func stateFilter(s string) (string, bool) {
	switch s {
	case "", "all":
		return "", true
	case "pending", "PENDING":
		return service.StatePending, true
	case "completed", "done", "COMPLETED":
		return service.StateCompleted, true
	default:
		return "", false
	}
}
