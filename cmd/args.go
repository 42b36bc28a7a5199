// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package cmd

import (
	"slices"
	"strings"

	"github.com/urfave/cli/v3"
)

const (
	endOfFlags  = "--"
	helpCommand = "help"
)

// SeparateCommand returns args with "--" inserted before the first
// positional argument, so that flags after the command reach the command
// instead of being parsed as allgit flags. args[0] is the program name.
// Subcommand names and arguments already separated by "--" are left alone.
func SeparateCommand(root *cli.Command, args []string) []string {
	takesValue := valueFlagNames(root.Flags)

	for i := 1; i < len(args); i++ {
		arg := args[i]

		switch {
		case arg == endOfFlags:
			return args
		case len(arg) > 1 && strings.HasPrefix(arg, "-"):
			name := strings.TrimLeft(arg, "-")
			if _, _, ok := strings.Cut(name, "="); !ok && takesValue[name] {
				i++
			}
		case arg == helpCommand || root.Command(arg) != nil:
			return args
		default:
			return slices.Concat(args[:i], []string{endOfFlags}, args[i:])
		}
	}

	return args
}

// valueFlagNames returns every name and alias of the flags that consume the
// following argument as their value.
func valueFlagNames(flags []cli.Flag) map[string]bool {
	names := make(map[string]bool)

	for _, f := range flags {
		if df, ok := f.(cli.DocGenerationFlag); !ok || !df.TakesValue() {
			continue
		}

		for _, n := range f.Names() {
			names[n] = true
		}
	}

	return names
}
