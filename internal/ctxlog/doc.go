// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ctxlog carries a *slog.Logger in a context.Context.
//
// The default logger writes human readable records to standard error so that
// diagnostics never mix with the child process output forwarded on standard
// output. The level is read from ALLGIT_LOG_LEVEL (DEBUG, INFO, WARN, ERROR)
// and defaults to WARN.
package ctxlog
