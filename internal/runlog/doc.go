// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package runlog persists the output of failed repositories to a log file
// so it can be inspected after the terminal has scrolled away.
//
// The file is only created when the first failure is recorded. Each entry
// starts with a header line carrying the time, the run id, the repository
// and the failure cause, followed by the captured output with every line
// tagged "out| " or "err| ".
package runlog
