// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package procrunner

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
)

// Outcome is the result of running the command in one repository.
type Outcome struct {
	Name     string        // Display name of the repository
	Path     string        // Working directory of the command
	Failed   bool          // True if the command did not complete successfully
	ExitCode int           // Exit code, -1 if the process was killed by a signal or never reaped
	Signal   os.Signal     // Terminating signal, nil if the process exited normally
	Err      error         // Stream, wait or interruption errors, if any
	Stderr   []byte        // Captured standard error (tail)
	Combined []byte        // Captured stdout and stderr lines in arrival order, tagged "out| " and "err| "
	Duration time.Duration // Wall time from spawn to reap
}

// Cause describes why the outcome failed, or returns "" if it did not.
func (o *Outcome) Cause() string {
	if o == nil || !o.Failed {
		return ""
	}

	switch {
	case errors.Is(o.Err, ErrInterrupted):
		return "interrupted"
	case o.Signal != nil:
		return "killed by signal " + signalName(o.Signal)
	case o.ExitCode > 0:
		return fmt.Sprintf("exit status %d", o.ExitCode)
	case o.Err != nil:
		return o.Err.Error()
	default:
		return "failed"
	}
}

func (o *Outcome) fail(err error) {
	o.Failed = true

	if err == nil {
		return
	}

	merr := multierror.Append(o.Err, err)
	merr.ErrorFormat = joinErrors
	o.Err = merr
}

func joinErrors(errs []error) string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}

	return strings.Join(msgs, "; ")
}
