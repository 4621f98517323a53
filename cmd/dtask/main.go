// Package main is the entry point for the dtask CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"dtask/internal/backend/servlet"
	"dtask/internal/cli"
	"dtask/internal/commands"
	"dtask/internal/config"
	"dtask/internal/service"
)

func main() {
	// Cancel in-flight requests on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return servlet.New(ctx, cfg)
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)
	dispatcher.SetInput(os.Stdin)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
