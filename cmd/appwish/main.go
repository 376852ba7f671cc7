/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cristianoliveira/appwish/cmd"
	"github.com/cristianoliveira/appwish/internal/colors"
	apperrors "github.com/cristianoliveira/appwish/internal/errors"
)

var errorHandler = apperrors.NewDefaultCLIHandler()

func main() {
	os.Exit(run(os.Args[1:], cmd.Execute))
}

// run executes the command line and returns the process exit code.
func run(args []string, execute func() error) int {
	colors.StructuredInfo("startup", "main", "started", nil, "", nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cmd.RootCmd.SetArgs(args)
	cmd.RootCmd.SetContext(ctx)

	err := execute()
	if cerr := coreClient.Close(); cerr != nil {
		colors.StructuredWarn("startup", "main", "close_failed", cerr, "", nil)
	}
	if err != nil {
		errorHandler.Report(err)
		colors.StructuredError("startup", "main", "failed", err, "", nil)
		return 1
	}
	colors.StructuredInfo("startup", "main", "completed", nil, "", nil)
	return 0
}
