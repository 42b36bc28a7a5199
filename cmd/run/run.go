// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package run holds the flags and action of the root command, which runs a
// command in every repository found.
package run

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/matt-FFFFFF/allgit/internal/color"
	"github.com/matt-FFFFFF/allgit/internal/config"
	"github.com/matt-FFFFFF/allgit/internal/coordinator"
	"github.com/matt-FFFFFF/allgit/internal/ctxlog"
	"github.com/urfave/cli/v3"
)

const (
	rootFlag         = "root"
	listFlag         = "list"
	quietFlag        = "quiet"
	verboseFlag      = "verbose"
	inlineFlag       = "inline"
	widthFlag        = "width"
	includeFlag      = "include"
	excludeFlag      = "exclude"
	nestedFlag       = "nested"
	jobsFlag         = "jobs"
	logFlag          = "log"
	excerptLinesFlag = "excerpt-lines"
	configFlag       = "config"
)

// ErrConflictingFlags is returned when --quiet and --verbose are both given.
var ErrConflictingFlags = errors.New("--quiet and --verbose cannot be used together")

// Flags returns the flags of the root command. Each call returns new flag
// values so that commands built from them do not share parse state.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:    rootFlag,
			Aliases: []string{"r"},
			Usage:   "Directory to search for repositories, may be repeated (default: .)",
		},
		&cli.BoolFlag{
			Name:    listFlag,
			Aliases: []string{"l"},
			Usage:   "Only list the repositories found",
		},
		&cli.BoolFlag{
			Name:    quietFlag,
			Aliases: []string{"q"},
			Usage:   "Print a repository header only when it has output or fails (default)",
		},
		&cli.BoolFlag{
			Name:    verboseFlag,
			Aliases: []string{"v"},
			Usage:   "Print a repository header before every command",
		},
		&cli.BoolFlag{
			Name:    inlineFlag,
			Aliases: []string{"i"},
			Usage:   "Prefix every output line with the repository name",
		},
		&cli.IntFlag{
			Name:    widthFlag,
			Aliases: []string{"w"},
			Usage:   "Pad the inline prefix to this width, -1 follows the terminal width",
		},
		&cli.StringSliceFlag{
			Name:    includeFlag,
			Aliases: []string{"I"},
			Usage:   "Only run in repositories with this name, /regexp/ for a pattern, may be repeated",
		},
		&cli.StringSliceFlag{
			Name:    excludeFlag,
			Aliases: []string{"x"},
			Usage:   "Skip directories with this name, /regexp/ for a pattern, may be repeated",
		},
		&cli.BoolFlag{
			Name:  nestedFlag,
			Usage: "Search inside repositories for nested repositories",
		},
		&cli.IntFlag{
			Name:    jobsFlag,
			Aliases: []string{"j"},
			Usage:   "Number of repositories to run concurrently",
		},
		&cli.StringFlag{
			Name:      logFlag,
			Usage:     "Append the output of failed repositories to this file",
			TakesFile: true,
		},
		&cli.IntFlag{
			Name:  excerptLinesFlag,
			Usage: "Lines of standard error shown per failed repository in the summary",
		},
		&cli.StringFlag{
			Name:      configFlag,
			Aliases:   []string{"c"},
			Usage:     "Configuration file",
			TakesFile: true,
			Sources:   cli.EnvVars("ALLGIT_CONFIG"),
		},
	}
}

// Action runs the command given as arguments in every repository. Without
// arguments the repositories are listed.
func Action(ctx context.Context, cmd *cli.Command) error {
	cfg, err := ResolveConfig(cmd)
	if err != nil {
		return err
	}

	root := cmd.Root()

	style := color.Style{}
	if root.Writer == os.Stdout {
		style = color.Auto()
	}

	c, err := coordinator.New(cfg,
		coordinator.WithOutput(root.Writer, root.ErrWriter),
		coordinator.WithStyle(style),
	)
	if err != nil {
		return err //nolint:wrapcheck
	}

	sum, err := c.Run(ctx)
	if err != nil {
		return err //nolint:wrapcheck
	}

	ctxlog.Debug(ctx, "run complete", "repositories", sum.Repositories, "failures", len(sum.Failures), "run", sum.RunID)

	return sum.Err()
}

// ResolveConfig loads the configuration file and applies the flags and
// arguments of cmd over it.
func ResolveConfig(cmd *cli.Command) (config.RunConfig, error) {
	path := cmd.String(configFlag)
	required := path != ""

	if !required {
		path = config.DefaultPath()
	}

	cfg, err := config.Load(path, required)
	if err != nil {
		return cfg, err //nolint:wrapcheck
	}

	if cmd.Bool(quietFlag) && cmd.Bool(verboseFlag) {
		return cfg, ErrConflictingFlags
	}

	if cmd.IsSet(rootFlag) {
		cfg.Roots = cmd.StringSlice(rootFlag)
	}

	if cmd.IsSet(listFlag) {
		cfg.ListOnly = cmd.Bool(listFlag)
	}

	if cmd.Bool(quietFlag) {
		cfg.Quiet = config.Quiet
	}

	if cmd.Bool(verboseFlag) {
		cfg.Quiet = config.Verbose
	}

	if cmd.IsSet(inlineFlag) {
		cfg.Inline = cmd.Bool(inlineFlag)
	}

	if cmd.IsSet(widthFlag) {
		cfg.Width = cmd.Int(widthFlag)
	}

	if cmd.IsSet(includeFlag) {
		cfg.Include = cmd.StringSlice(includeFlag)
	}

	if cmd.IsSet(excludeFlag) {
		cfg.Exclude = cmd.StringSlice(excludeFlag)
	}

	if cmd.IsSet(nestedFlag) {
		cfg.Nested = cmd.Bool(nestedFlag)
	}

	if cmd.IsSet(jobsFlag) {
		cfg.Jobs = cmd.Int(jobsFlag)
	}

	if cmd.IsSet(logFlag) {
		cfg.LogFile = cmd.String(logFlag)
	}

	if cmd.IsSet(excerptLinesFlag) {
		cfg.ExcerptLines = cmd.Int(excerptLinesFlag)
	}

	if args := cmd.Args().Slice(); len(args) > 0 {
		cfg.Command = args
	}

	cfg.Normalize()

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("resolving configuration: %w", err)
	}

	return cfg, nil
}
