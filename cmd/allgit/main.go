// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main contains the allgit command-line interface (CLI).
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/matt-FFFFFF/allgit"
	"github.com/matt-FFFFFF/allgit/cmd"
	"github.com/matt-FFFFFF/allgit/internal/coordinator"
	"github.com/matt-FFFFFF/allgit/internal/ctxlog"
	"github.com/matt-FFFFFF/allgit/internal/signalbroker"
	"github.com/urfave/cli/v3"
)

func init() {
	// -v is --verbose.
	cli.VersionFlag = &cli.BoolFlag{
		Name:        "version",
		Usage:       "print the version",
		HideDefault: true,
		Local:       true,
	}
}

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)

	defer cancel()

	sigCh := signalbroker.New(ctx)
	defer signalbroker.Stop(sigCh)

	go signalbroker.Watch(ctx, sigCh, cancel, func(sig os.Signal) {
		ctxlog.Error(ctx, "terminating without cleanup", "signal", sig.String())
		os.Exit(signalbroker.ExitCodeInterrupted)
	})

	rootCmd := cmd.NewRootCmd()
	rootCmd.Version = fmt.Sprintf("%s (commit: %s)", allgit.Version, allgit.Commit)

	err := rootCmd.Run(ctx, cmd.SeparateCommand(rootCmd, args))

	return exitCode(ctx, err)
}

// exitCode maps the result of the root command to the process status.
func exitCode(ctx context.Context, err error) int {
	switch {
	case ctx.Err() != nil:
		ctxlog.Warn(ctx, "run cancelled", "error", ctx.Err())
		return signalbroker.ExitCodeInterrupted
	case errors.Is(err, coordinator.ErrRepositoriesFailed):
		// The summary has been printed already.
		return 1
	case err != nil:
		ctxlog.Error(ctx, "command failed", "error", err)
		return 1
	}

	return 0
}
