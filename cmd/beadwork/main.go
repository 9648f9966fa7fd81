// Beadwork - fuse-bead pattern generator
//
// Beadwork turns images into bead patterns matched against real bead colour
// catalogs, and guides assembly one colour region at a time.
//
// Copyright (c) 2025 John Mylchreest
// Licensed under the MIT License
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/jmylchreest/beadwork/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
