// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build unix

package procrunner

import (
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// signalName returns the conventional name of sig, e.g. SIGTERM.
func signalName(sig os.Signal) string {
	if s, ok := sig.(syscall.Signal); ok {
		if name := unix.SignalName(s); name != "" {
			return name
		}
	}

	return sig.String()
}
