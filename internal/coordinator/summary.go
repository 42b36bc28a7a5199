// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package coordinator

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matt-FFFFFF/allgit/internal/procrunner"
)

const excerptIndent = "    "

// Summary is the result of a run.
type Summary struct {
	RunID        string                // Identifies the run in the failure log
	Repositories int                   // Repositories discovered
	Failures     []*procrunner.Outcome // Failed repositories in discovery order
}

// ExitCode is 1 when any repository failed, otherwise 0.
func (s Summary) ExitCode() int {
	if len(s.Failures) > 0 {
		return 1
	}

	return 0
}

// Err returns ErrRepositoriesFailed when any repository failed.
func (s Summary) Err() error {
	if len(s.Failures) > 0 {
		return ErrRepositoriesFailed
	}

	return nil
}

func (c *Coordinator) printSummary(sum Summary) error {
	if len(sum.Failures) == 0 {
		return nil
	}

	var b strings.Builder

	b.WriteString("\n")

	b.WriteString(c.style.Failure(fmt.Sprintf("%d repositories had issues:", len(sum.Failures))))

	b.WriteString("\n")

	for _, o := range sum.Failures {
		fmt.Fprintf(&b, "  %s: %s\n", o.Name, o.Cause())

		for _, line := range tailLines(o.Stderr, c.cfg.ExcerptLines) {
			b.WriteString(excerptIndent)
			b.Write(line)
			b.WriteString("\n")
		}
	}

	if c.log.Enabled() && c.log.Opened() {
		fmt.Fprintf(&b, "Output of failed repositories was written to %s\n", c.log.Path())
	}

	_, err := c.stderr.Write([]byte(b.String()))

	return err //nolint:wrapcheck
}

// tailLines returns the last n lines of b without their newlines.
func tailLines(b []byte, n int) [][]byte {
	if n <= 0 {
		return nil
	}

	b = bytes.TrimRight(b, "\n")
	if len(b) == 0 {
		return nil
	}

	lines := bytes.Split(b, []byte("\n"))
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}

	return lines
}
