package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/skillmerge/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx, os.Args[1:]); err != nil {
		os.Stderr.WriteString("skillmerge: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}
