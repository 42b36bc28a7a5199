// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package coordinator drives one invocation: it takes repositories from the
// locator in discovery order, runs the command in each through the process
// runner, collects the failures and prints the summary at the end.
//
// With more than one job the commands run concurrently, but every
// repository's output is buffered and released in discovery order so the
// terminal never shows two repositories interleaved.
package coordinator
