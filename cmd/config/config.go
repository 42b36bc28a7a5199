// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config implements the config command, which prints the
// configuration a run would use.
package config

import (
	"context"
	"errors"

	"github.com/matt-FFFFFF/allgit/cmd/run"
	"github.com/urfave/cli/v3"
)

// ErrWriteConfig is returned when the configuration cannot be written out.
var ErrWriteConfig = errors.New("failed to write configuration")

// NewConfigCmd returns the config command.
func NewConfigCmd() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Print the resolved configuration as YAML",
		Description: `Prints the configuration after the configuration file and the flags
given before the command name have been applied. The output can be used as a
starting point for the configuration file.`,
		Action: actionFunc,
	}
}

func actionFunc(_ context.Context, cmd *cli.Command) error {
	cfg, err := run.ResolveConfig(cmd)
	if err != nil {
		return err //nolint:wrapcheck
	}

	b, err := cfg.YAML()
	if err != nil {
		return errors.Join(ErrWriteConfig, err)
	}

	if _, err := cmd.Root().Writer.Write(b); err != nil {
		return errors.Join(ErrWriteConfig, err)
	}

	return nil
}
