package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/p-n-ai/pai-tracker/internal/cli"
	"github.com/p-n-ai/pai-tracker/internal/di"
)

func main() {
	// Cancel in-flight requests on SIGTERM/SIGINT.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	code := cli.Execute(ctx, di.InitializeApp, os.Args[1:])
	stop()
	os.Exit(code)
}
