package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"dtask/internal/config"
	"dtask/internal/exitcode"
	"dtask/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{ local }

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "dtask help" }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, sess *service.Session, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  dtask                                              List your tasks
  dtask list [common flags]
  dtask add [common flags] [-d <description>] [--show] <title...>
  dtask create [common flags] [-d <description>] [--show] <title...>
  dtask rm [common flags] <id>...
  dtask login [common flags] --email <email> [--password <password>]
  dtask register [common flags] (--name <name> | --first <first> --last <last>)
                 --email <email> [--password <password> --confirm <password>]
  dtask logout [common flags]
  dtask whoami [common flags]
  dtask theme [common flags] [--reset] [light|dark|system]
  dtask help
  dtask version

Common flags:
  --config <dir>   Override config directory
  --backend <url>  Override backend_url
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr

A password left off login or register is read from the terminal without
echo, or from one line of standard input per password.

Settings (config.yaml in the config directory, or environment):
  backend_url   DTASK_BACKEND_URL    Base URL of the servlet backend
  task_path     DTASK_TASK_PATH      Task servlet path (default TaskServlet)
  auth_path     DTASK_AUTH_PATH      Auth servlet path (default AuthServlet)
  timeout       DTASK_TIMEOUT        Per-request timeout (default 10s)
  access_token  DTASK_ACCESS_TOKEN   Bearer token for a gateway in front of the backend
`
