// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package color formats the terminal decorations allgit writes around child
// process output: repository headers, inline line prefixes and the failure
// summary.
//
// Color is enabled when NO_COLOR is unset and either FORCE_COLOR is set or
// standard output is a terminal. Terminal detection and width lookups use the
// golang.org/x/term package.
package color
