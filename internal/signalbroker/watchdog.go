// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import (
	"context"
	"os"

	"github.com/matt-FFFFFF/allgit/internal/ctxlog"
)

// ExitCodeInterrupted is the conventional status for a process ended by SIGINT.
const ExitCodeInterrupted = 130

// Watch reads sigCh until it is closed. The first signal calls cancel; the
// second signal of a type already seen calls force and returns.
func Watch(ctx context.Context, sigCh <-chan os.Signal, cancel context.CancelFunc, force func(os.Signal)) {
	logger := ctxlog.Logger(ctx)
	seen := make(map[os.Signal]struct{})

	for sig := range sigCh {
		if _, ok := seen[sig]; ok {
			logger.Info("watchdog", "detail", "received second signal of type, forcefully terminating", "signal", sig.String())

			if force != nil {
				force(sig)
			}

			return
		}

		seen[sig] = struct{}{}

		logger.Info("watchdog", "detail", "received signal, cancelling run", "signal", sig.String())
		cancel()
	}
}
