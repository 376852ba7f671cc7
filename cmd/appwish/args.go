package main

import (
	"fmt"
	"os"

	"github.com/cristianoliveira/appwish/internal/appurl"
	"github.com/cristianoliveira/appwish/internal/config"
	"github.com/cristianoliveira/appwish/internal/domain"
	"github.com/spf13/cobra"
)

// parseAppRef accepts an id, a store link or an appwish:// deep link.
func parseAppRef(arg string) (int64, error) {
	return appurl.Resolve(arg)
}

// requireArgs fails with a usage hint when fewer than n args are given.
func requireArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return fmt.Errorf("%w: usage: appwish %s", domain.ErrInvalidInput, usage)
		}
		return nil
	}
}

// noColor reports whether colors were turned off by NO_COLOR or the color
// setting.
func noColor() bool {
	return os.Getenv("NO_COLOR") != "" || !config.GetBool("color", true)
}
