// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package procrunner

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"sync"
	"syscall"
	"time"

	"github.com/matt-FFFFFF/allgit/internal/color"
	"github.com/matt-FFFFFF/allgit/internal/ctxlog"
)

const (
	// DefaultChunkSize is the largest single read from a pipe.
	DefaultChunkSize = 4096
	// DefaultMaxCapture bounds each capture buffer kept for the failure report.
	DefaultMaxCapture = 1024 * 1024
	// DefaultKillGrace is how long the pipes may stay open after the child was
	// killed, e.g. because a grandchild inherited them.
	DefaultKillGrace = 2 * time.Second

	gitCommand = "git"
	noPager    = "--no-pager"
)

var (
	// ErrEmptyCommand is returned when no command was given.
	ErrEmptyCommand = errors.New("empty command")
	// ErrCouldNotStartProcess is returned when the process could not be started.
	ErrCouldNotStartProcess = errors.New("could not start process")
	// ErrFailedToCreatePipe is returned when the operating system pipe could not be created.
	ErrFailedToCreatePipe = errors.New("failed to create pipe")
	// ErrStreamRead records an unexpected error reading a child output pipe.
	ErrStreamRead = errors.New("failed to read output stream")
	// ErrStreamClose records an error closing a child output pipe.
	ErrStreamClose = errors.New("failed to close output stream")
	// ErrWait records an error waiting for the child process.
	ErrWait = errors.New("failed to wait for process")
	// ErrInterrupted records that the run was cancelled and the child killed.
	ErrInterrupted = errors.New("interrupted")
)

// Options configure how output is presented.
type Options struct {
	Stdout  io.Writer // Sink for child standard output and headers, defaults to os.Stdout
	Stderr  io.Writer // Sink for child standard error, defaults to os.Stderr
	Stdin   *os.File  // Child standard input, defaults to os.Stdin; use a null device when running in parallel
	Verbose bool      // Print the header before every command rather than on first output
	Inline  bool      // Prefix every line with the repository name instead of printing a header
	Width   int       // Pad the inline prefix to this width
	Style   color.Style

	ChunkSize  int           // Defaults to DefaultChunkSize
	MaxCapture int           // Defaults to DefaultMaxCapture
	KillGrace  time.Duration // Defaults to DefaultKillGrace
}

// Runner spawns commands in repositories.
type Runner struct {
	opts     Options
	lookPath func(string) (string, error)
}

// New returns a Runner with defaults applied to opts.
func New(opts Options) *Runner {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}

	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}

	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}

	if opts.MaxCapture <= 0 {
		opts.MaxCapture = DefaultMaxCapture
	}

	if opts.KillGrace <= 0 {
		opts.KillGrace = DefaultKillGrace
	}

	return &Runner{
		opts:     opts,
		lookPath: lookPath,
	}
}

// WithOutput returns a copy of the runner writing to the given sinks.
func (r *Runner) WithOutput(stdout, stderr io.Writer) *Runner {
	c := *r
	c.opts.Stdout = stdout
	c.opts.Stderr = stderr

	return &c
}

// WithStdin returns a copy of the runner whose children read from stdin.
func (r *Runner) WithStdin(stdin *os.File) *Runner {
	c := *r
	c.opts.Stdin = stdin

	return &c
}

// Run executes argv with dir as the working directory and blocks until the
// process has exited and both of its output streams are drained.
//
// The returned error is non-nil only if the command could not be started;
// every other problem is recorded in the Outcome.
func (r *Runner) Run(ctx context.Context, dir, name string, argv []string) (*Outcome, error) {
	if len(argv) == 0 {
		return nil, ErrEmptyCommand
	}

	ctx = ctxlog.WithRepo(ctx, name)
	logger := ctxlog.Logger(ctx)
	argv = WithNoPager(argv)

	path, err := r.lookPath(argv[0])
	if err != nil {
		return nil, errors.Join(ErrCouldNotStartProcess, err)
	}

	s := r.newSession(ctx, name)

	if r.opts.Verbose {
		s.header()
	}

	rOut, wOut, err := os.Pipe()
	if err != nil {
		return nil, errors.Join(ErrFailedToCreatePipe, err)
	}

	rErr, wErr, err := os.Pipe()
	if err != nil {
		_ = rOut.Close()
		_ = wOut.Close()

		return nil, errors.Join(ErrFailedToCreatePipe, err)
	}

	logger.Debug("starting process", "path", path, "cwd", dir, "args", argv)

	ps, err := os.StartProcess(path, argv, &os.ProcAttr{
		Dir:   dir,
		Files: []*os.File{r.opts.Stdin, wOut, wErr},
	})

	// The child holds its own copies of the write ends. Ours must go so that
	// end of file is seen when the child exits.
	_ = wOut.Close()
	_ = wErr.Close()

	if err != nil {
		_ = rOut.Close()
		_ = rErr.Close()

		return nil, errors.Join(ErrCouldNotStartProcess, err)
	}

	start := time.Now()

	logger.Debug("process started", "pid", ps.Pid)

	done := make(chan struct{})
	killed := make(chan struct{})

	var wg sync.WaitGroup

	wg.Add(1)

	// watchdog: kill the child if the run is cancelled.
	go func() {
		defer wg.Done()

		select {
		case <-ctx.Done():
			logger.Info("context done, killing process", "pid", ps.Pid)
			if killPs(ctx, ps) {
				close(killed)
			}
		case <-done:
		}
	}()

	s.out.file = rOut
	s.err.file = rErr
	s.drain(killed)
	s.flush()

	logger.Debug("waiting for process to finish")

	state, waitErr := ps.Wait()

	close(done)
	wg.Wait()

	o := s.outcome
	o.Path = dir
	o.Duration = time.Since(start)
	o.ExitCode = -1

	if waitErr != nil {
		o.fail(errors.Join(ErrWait, waitErr))
	}

	if state != nil {
		o.ExitCode = state.ExitCode()

		if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			o.Signal = ws.Signal()
			o.fail(nil)
		}

		if o.ExitCode != 0 {
			o.fail(nil)
		}
	}

	select {
	case <-killed:
		if killedByUs(state) {
			o.fail(ErrInterrupted)
		}
	default:
	}

	if o.Failed && !r.opts.Inline {
		// Keep failures attributable in quiet mode even if nothing was printed.
		s.header()
	}

	o.Stderr = s.stderr.Bytes()
	o.Combined = s.combined.Bytes()

	logger.Debug("process finished", "exitCode", o.ExitCode, "failed", o.Failed, "duration", o.Duration)

	return o, nil
}

// WithNoPager returns argv with --no-pager inserted after a leading "git",
// so that git never waits on an interactive pager. Other commands are
// returned unchanged.
func WithNoPager(argv []string) []string {
	if len(argv) == 0 || argv[0] != gitCommand {
		return argv
	}

	return slices.Concat([]string{gitCommand, noPager}, argv[1:])
}

// lookPath resolves bare command names on PATH. Names containing a path
// separator are left alone and resolve relative to the repository.
func lookPath(command string) (string, error) {
	if filepath.Base(command) != command {
		return command, nil
	}

	p, err := exec.LookPath(command)
	if err != nil && !errors.Is(err, exec.ErrDot) {
		return "", err //nolint:wrapcheck
	}

	return p, nil
}

// killedByUs reports whether a delivered kill ended the process. The kill
// can still lose the race against a normal exit.
func killedByUs(state *os.ProcessState) bool {
	return state == nil || !state.Exited()
}

// killPs kills the process and reports whether the signal was delivered.
// A process that already finished is not an error.
func killPs(ctx context.Context, ps *os.Process) bool {
	if err := ps.Kill(); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			ctxlog.Debug(ctx, "process already done", "pid", ps.Pid)
			return false
		}

		ctxlog.Error(ctx, "process kill error", "pid", ps.Pid, "error", err)

		return false
	}

	ctxlog.Info(ctx, "process killed", "pid", ps.Pid)

	return true
}
