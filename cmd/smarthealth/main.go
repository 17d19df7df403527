package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jwalitptl/smarthealth/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand(os.Stdin, os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		if msg := cli.ErrorMessage(err); msg != "" {
			fmt.Fprintln(os.Stderr, "Error:", msg)
		}
		stop()
		os.Exit(1)
	}
}
