// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package procrunner runs one command inside one repository and forwards its
// output to the terminal.
//
// Both output pipes are drained at the same time by a readiness driven loop:
// a reader goroutine per pipe delivers chunks as soon as the runtime poller
// reports the pipe readable, and a single select loop frames, prefixes and
// forwards whichever stream is ready. A child that fills one pipe while the
// other is silent can therefore never stall. The process is only waited on
// after both pipes have reached end of file.
//
// A failed command (non-zero exit, signal, stream or wait error) is reported
// in the returned Outcome. Only failures to start the command are returned as
// errors, since they mean the command itself is unusable.
package procrunner
