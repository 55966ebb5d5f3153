package main

import (
	"os"
	"os/signal"
	"syscall"

	fichttp "github.com/fwojciec/ficfetch/http"
)

// Run executes the serve command. It blocks until interrupted.
func (c *ServeCmd) Run(deps *Dependencies) error {
	ctx, stop := signal.NotifyContext(deps.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := fichttp.NewServer(deps.Archive, deps.Logger)
	server.Stats = deps.Stats
	return server.ListenAndServe(ctx, c.Addr)
}
