package main

import (
	"github.com/cristianoliveira/appwish/internal/core"
)

// coreClient opens its services lazily, after the root command has loaded
// configuration.
var coreClient = core.NewCore(core.Options{})
