// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package coordinator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/matt-FFFFFF/allgit/internal/color"
	"github.com/matt-FFFFFF/allgit/internal/config"
	"github.com/matt-FFFFFF/allgit/internal/ctxlog"
	"github.com/matt-FFFFFF/allgit/internal/discovery"
	"github.com/matt-FFFFFF/allgit/internal/procrunner"
	"github.com/matt-FFFFFF/allgit/internal/runlog"
	"golang.org/x/sync/errgroup"
)

// ErrRepositoriesFailed is returned by callers that turn a Summary with
// failures into an error. The summary has already been printed.
var ErrRepositoriesFailed = errors.New("one or more repositories had issues")

// Coordinator owns the state of one run. It is used once.
type Coordinator struct {
	cfg      config.RunConfig
	stdout   io.Writer
	stderr   io.Writer
	style    color.Style
	locator  *discovery.Locator
	runner   *procrunner.Runner
	log      *runlog.Log
	failures []*procrunner.Outcome
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithOutput sets where repository output and the summary are written.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(c *Coordinator) {
		c.stdout = stdout
		c.stderr = stderr
	}
}

// WithStyle sets the styling of headers, prefixes and the summary.
func WithStyle(s color.Style) Option {
	return func(c *Coordinator) {
		c.style = s
	}
}

// New checks cfg and builds the locator, runner and failure log for a run.
func New(cfg config.RunConfig, opts ...Option) (*Coordinator, error) {
	cfg.Normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	include, err := discovery.ParseMatchers(cfg.Include)
	if err != nil {
		return nil, err
	}

	exclude, err := discovery.ParseMatchers(cfg.Exclude)
	if err != nil {
		return nil, err
	}

	c := &Coordinator{
		cfg:    cfg,
		stdout: os.Stdout,
		stderr: os.Stderr,
		style:  color.Auto(),
	}

	for _, o := range opts {
		o(c)
	}

	c.locator = discovery.New(discovery.Options{
		Include: include,
		Exclude: exclude,
		Nested:  cfg.Nested,
	})

	c.runner = procrunner.New(procrunner.Options{
		Stdout:  c.stdout,
		Stderr:  c.stderr,
		Verbose: cfg.Quiet == config.Verbose,
		Inline:  cfg.Inline,
		Width:   c.prefixWidth(),
		Style:   c.style,
	})

	c.log = runlog.New(cfg.LogFile)

	return c, nil
}

// Run walks the roots and runs the command in every repository found, or
// lists them in list only mode. A failing command never stops the run.
//
// The returned error is non-nil when the run itself could not go on: a
// command could not be started or ctx was cancelled. The summary of the
// failures seen so far is printed in every case.
func (c *Coordinator) Run(ctx context.Context) (Summary, error) {
	defer func() {
		if err := c.log.Close(); err != nil {
			ctxlog.Warn(ctx, "closing failure log", "path", c.log.Path(), "error", err)
		}
	}()

	ctxlog.Debug(ctx, "starting run", "roots", c.cfg.Roots, "jobs", c.cfg.Jobs, "listOnly", c.cfg.ListOnly)

	var (
		sum Summary
		err error
	)

	switch {
	case c.cfg.ListOnly:
		err = c.list(ctx, &sum)
	case c.cfg.Jobs > 1:
		err = c.runParallel(ctx, &sum)
	default:
		err = c.runSequential(ctx, &sum)
	}

	sum.Failures = c.failures
	sum.RunID = c.log.RunID()

	if perr := c.printSummary(sum); perr != nil {
		ctxlog.Warn(ctx, "writing summary", "error", perr)
	}

	return sum, err
}

func (c *Coordinator) list(ctx context.Context, sum *Summary) error {
	for t, err := range c.locator.Walk(ctx, c.cfg.Roots) {
		if err != nil {
			return err
		}

		sum.Repositories++

		if _, err := fmt.Fprintln(c.stdout, t.Name); err != nil {
			return fmt.Errorf("writing repository name: %w", err)
		}
	}

	return nil
}

func (c *Coordinator) runSequential(ctx context.Context, sum *Summary) error {
	for t, err := range c.locator.Walk(ctx, c.cfg.Roots) {
		if err != nil {
			return err
		}

		sum.Repositories++

		o, err := c.runner.Run(ctx, t.Path, t.Name, c.cfg.Command)
		if err != nil {
			return fmt.Errorf("%s: %w", t.Name, err)
		}

		c.record(ctx, o)
	}

	return nil
}

// slot is one repository of a parallel run. The worker fills it and closes
// done; the flusher reads it afterwards.
type slot struct {
	target  discovery.Target
	stdout  bytes.Buffer
	stderr  bytes.Buffer
	outcome *procrunner.Outcome
	err     error
	done    chan struct{}
}

func (c *Coordinator) runParallel(ctx context.Context, sum *Summary) error {
	stdin, err := os.Open(os.DevNull)
	if err != nil {
		return fmt.Errorf("opening %s: %w", os.DevNull, err)
	}

	defer stdin.Close() //nolint:errcheck

	runner := c.runner.WithStdin(stdin)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Jobs)

	pending := make(chan *slot, c.cfg.Jobs)
	flushed := make(chan struct{})

	go func() {
		defer close(flushed)

		for s := range pending {
			<-s.done
			c.flush(ctx, s)
		}
	}()

	var walkErr error

	for t, err := range c.locator.Walk(gctx, c.cfg.Roots) {
		if err != nil {
			walkErr = err
			break
		}

		sum.Repositories++

		s := &slot{target: t, done: make(chan struct{})}
		pending <- s

		g.Go(func() error {
			defer close(s.done)

			s.outcome, s.err = runner.WithOutput(&s.stdout, &s.stderr).Run(gctx, t.Path, t.Name, c.cfg.Command)
			if s.err != nil {
				return fmt.Errorf("%s: %w", t.Name, s.err)
			}

			return nil
		})
	}

	close(pending)

	gErr := g.Wait()
	<-flushed

	if gErr != nil {
		return gErr
	}

	return walkErr
}

// flush releases the buffered output of a finished slot.
func (c *Coordinator) flush(ctx context.Context, s *slot) {
	if _, err := c.stdout.Write(s.stdout.Bytes()); err != nil {
		ctxlog.Warn(ctx, "writing output", "repo", s.target.Name, "error", err)
	}

	if _, err := c.stderr.Write(s.stderr.Bytes()); err != nil {
		ctxlog.Warn(ctx, "writing output", "repo", s.target.Name, "error", err)
	}

	if s.err == nil {
		c.record(ctx, s.outcome)
	}
}

func (c *Coordinator) record(ctx context.Context, o *procrunner.Outcome) {
	if o == nil || !o.Failed {
		return
	}

	ctxlog.Info(ctx, "repository failed", "repo", o.Name, "cause", o.Cause())

	c.failures = append(c.failures, o)

	if err := c.log.Record(o); err != nil {
		ctxlog.Warn(ctx, "writing failure log", "path", c.log.Path(), "error", err)
	}
}

func (c *Coordinator) prefixWidth() int {
	if c.cfg.Width != config.AutoWidth {
		return c.cfg.Width
	}

	f, _ := c.stdout.(*os.File)

	return color.AutoPrefixWidth(f)
}
