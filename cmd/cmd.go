// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmd contains the command-line interface (CLI) for the module.
package cmd

import (
	"os"

	"github.com/matt-FFFFFF/allgit/cmd/config"
	"github.com/matt-FFFFFF/allgit/cmd/run"
	"github.com/urfave/cli/v3"
)

// NewRootCmd returns the root command for the CLI.
func NewRootCmd() *cli.Command {
	return &cli.Command{
		Commands: []*cli.Command{
			config.NewConfigCmd(),
		},
		Flags:     run.Flags(),
		Action:    run.Action,
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		Name:      "allgit",
		Usage:     "Run a command in every repository below a directory",
		ArgsUsage: "[--] [command [args...]]",
		Description: `allgit searches the root directories for git, mercurial and subversion
repositories and runs the command in each of them, in the order they are found.
Output is attributed to its repository with a header or, with --inline, a prefix
on every line. Repositories that fail are summarised at the end.

Without a command the repositories are listed. allgit flags go before the
command; everything from the command on is passed to it: allgit -r ~/src git status -s`,
		Copyright: "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
		Authors: []any{
			"Matt White (matt-FFFFFF)",
		},
		DisableSliceFlagSeparator: true,
		EnableShellCompletion:     true,
	}
}
