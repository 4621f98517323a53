package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"dtask/internal/config"
	"dtask/internal/exitcode"
	"dtask/internal/service"
	"dtask/internal/taskcache"
)

// maxParallelDeletes bounds concurrent delete requests from one rm.
const maxParallelDeletes = 4

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string       { return "rm" }
func (c *RmCmd) Aliases() []string  { return []string{"delete"} }
func (c *RmCmd) Synopsis() string   { return "Delete tasks" }
func (c *RmCmd) Usage() string      { return "dtask rm <id>..." }
func (c *RmCmd) NeedsAuth() bool    { return true }
func (c *RmCmd) NeedsBackend() bool { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {}

type deleteResult struct {
	id      int64
	outcome taskcache.DeleteOutcome
	err     error
}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, sess *service.Session, args []string, out, errOut io.Writer) int {
	ids, err := ParseTaskRefs(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	cache := taskcache.New(svc, sess, cfg.Logger())
	if err := cache.Load(ctx); err != nil {
		return reportLoadFailure(errOut, err)
	}

	found, missing := lookupTasks(cache.Snapshot(), ids)
	if len(missing) > 0 {
		fmt.Fprintf(errOut, "error: task not found: #%d\n", missing[0])
		return exitcode.UserError
	}

	results := make([]deleteResult, len(found))
	var g errgroup.Group
	g.SetLimit(maxParallelDeletes)
	for i, task := range found {
		g.Go(func() error {
			outcome, err := cache.Delete(ctx, task.ID)
			results[i] = deleteResult{id: task.ID, outcome: outcome, err: err}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		cfg.Logger().Printf("rm: first failure: %v", err)
	}

	code := exitcode.Success
	for _, r := range results {
		switch {
		case r.err != nil:
			fmt.Fprintf(errOut, "error: delete #%d failed: %v\n", r.id, r.err)
			code = worse(code, exitFor(r.err))
		case r.outcome == taskcache.Kept:
			fmt.Fprintf(errOut, "error: backend refused to delete #%d\n", r.id)
			code = worse(code, exitcode.BackendError)
		}
	}
	if code != exitcode.Success {
		return code
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// exitFor returns the exit code report would use for err.
func exitFor(err error) int {
	return report(io.Discard, err)
}

func worse(a, b int) int {
	if b > a {
		return b
	}
	return a
}
