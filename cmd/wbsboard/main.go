// Package main provides the entry point for wbsboard, a terminal Kanban
// board over an ERP project's task stages and work items.
//
// Usage:
//
//	wbsboard board --project ID --stage-set ID
//	wbsboard move-card --project ID --stage-set ID --card ID --onto ID
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/riordanpawley/wbsboard/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
