// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestWatch_FirstSignalCancels(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)

	var forced atomic.Bool

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()
		Watch(ctx, sigCh, cancel, func(os.Signal) { forced.Store(true) })
	}()

	sigCh <- os.Interrupt

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context should be cancelled after first signal")
	}

	close(sigCh)
	wg.Wait()
	assert.False(t, forced.Load(), "first signal must not force termination")
}

func TestWatch_SecondSignalForces(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 2)
	got := make(chan os.Signal, 1)

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()
		Watch(ctx, sigCh, cancel, func(s os.Signal) { got <- s })
	}()

	sigCh <- syscall.SIGTERM
	sigCh <- syscall.SIGTERM

	wg.Wait()

	select {
	case s := <-got:
		assert.Equal(t, syscall.SIGTERM, s)
	default:
		t.Fatal("force should be called on the second signal")
	}
}

func TestWatch_DifferentSignalsDoNotForce(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 2)

	var forced atomic.Bool

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()
		Watch(ctx, sigCh, cancel, func(os.Signal) { forced.Store(true) })
	}()

	sigCh <- syscall.SIGINT
	sigCh <- syscall.SIGTERM
	close(sigCh)

	wg.Wait()
	assert.False(t, forced.Load())
	assert.Error(t, ctx.Err())
}

func TestNewAndStop(t *testing.T) {
	ch := New(context.Background(), syscall.SIGTERM)
	Stop(ch)

	_, ok := <-ch
	assert.False(t, ok, "Stop should close the channel")
}
