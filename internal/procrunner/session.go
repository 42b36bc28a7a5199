// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package procrunner

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/matt-FFFFFF/allgit/internal/ctxlog"
	"github.com/matt-FFFFFF/allgit/internal/lineframer"
)

const (
	stdoutTag = "out| "
	stderrTag = "err| "
)

// chunk is one read from a pipe. A non-nil err ends the stream.
type chunk struct {
	data []byte
	err  error
}

// stream is the parent's view of one child output pipe.
type stream struct {
	name   string
	file   *os.File
	ch     chan chunk
	framer *lineframer.Framer // formats lines for the terminal
	tagger *lineframer.Framer // formats lines for the combined capture
	sink   io.Writer
	closed bool
	forced bool // closed by us after the kill grace period expired
}

// session holds the state of one Run call.
type session struct {
	ctx      context.Context //nolint:containedctx
	r        *Runner
	name     string
	out      *stream
	err      *stream
	stderr   *tailBuffer
	combined *tailBuffer
	printed  bool // header written
	sinkErr  bool // a sink write failed and was logged
	outcome  *Outcome
}

func (r *Runner) newSession(ctx context.Context, name string) *session {
	var prefix string
	if r.opts.Inline {
		prefix = r.opts.Style.Prefix(name, r.opts.Width)
	}

	return &session{
		ctx:  ctx,
		r:    r,
		name: name,
		out: &stream{
			name:   "stdout",
			ch:     make(chan chunk),
			framer: lineframer.New(prefix),
			tagger: lineframer.New(stdoutTag),
			sink:   r.opts.Stdout,
		},
		err: &stream{
			name:   "stderr",
			ch:     make(chan chunk),
			framer: lineframer.New(prefix),
			tagger: lineframer.New(stderrTag),
			sink:   r.opts.Stderr,
		},
		stderr:   newTailBuffer(r.opts.MaxCapture),
		combined: newTailBuffer(r.opts.MaxCapture),
		outcome:  &Outcome{Name: name},
	}
}

// header prints the repository header once. Inline output carries the name
// on every line instead.
func (s *session) header() {
	if s.printed || s.r.opts.Inline {
		return
	}

	s.printed = true
	s.write(s.r.opts.Stdout, s.r.opts.Style.Header(s.name))
}

// write sends text to a terminal sink. Failures do not affect the outcome;
// only the first one is logged.
func (s *session) write(w io.Writer, text string) {
	if _, err := io.WriteString(w, text); err != nil && !s.sinkErr {
		s.sinkErr = true
		ctxlog.Debug(s.ctx, "writing output", "error", err)
	}
}

// pump reads st.file until it fails, handing every chunk to the event loop.
// It is the only goroutine reading the file.
func pump(st *stream, size int) {
	for {
		buf := make([]byte, size)
		n, err := st.file.Read(buf)

		if n > 0 || err != nil {
			st.ch <- chunk{data: buf[:n], err: err}
		}

		if err != nil {
			return
		}
	}
}

// drain runs the event loop until both streams have ended. killed is closed
// by the watchdog after it killed the child; from then on the pipes get a
// grace period before they are closed from our side.
func (s *session) drain(killed <-chan struct{}) {
	go pump(s.out, s.r.opts.ChunkSize)
	go pump(s.err, s.r.opts.ChunkSize)

	outCh, errCh := s.out.ch, s.err.ch

	var grace <-chan time.Time

	for outCh != nil || errCh != nil {
		select {
		case c := <-outCh:
			if s.handle(s.out, c) {
				outCh = nil
			}
		case c := <-errCh:
			if s.handle(s.err, c) {
				errCh = nil
			}
		case <-killed:
			killed = nil
			grace = time.After(s.r.opts.KillGrace)
		case <-grace:
			grace = nil

			// Something else still holds the pipes. Closing them unblocks the
			// pumps, which then report os.ErrClosed.
			for _, st := range []*stream{s.out, s.err} {
				if !st.closed {
					st.forced = true
					s.closeStream(st)
				}
			}
		}
	}
}

// handle processes one chunk and reports whether the stream has ended.
func (s *session) handle(st *stream, c chunk) bool {
	if len(c.data) > 0 {
		s.forward(st, c.data)
	}

	if c.err == nil {
		return false
	}

	if !errors.Is(c.err, io.EOF) && !(st.forced && errors.Is(c.err, os.ErrClosed)) {
		s.outcome.fail(errors.Join(ErrStreamRead, c.err))
	}

	s.closeStream(st)

	return true
}

func (s *session) closeStream(st *stream) {
	if st.closed {
		return
	}

	st.closed = true

	if err := st.file.Close(); err != nil {
		s.outcome.fail(errors.Join(ErrStreamClose, err))
	}
}

func (s *session) forward(st *stream, data []byte) {
	s.header()

	if out := st.framer.Feed(data); out != "" {
		s.write(st.sink, out)
	}

	if st == s.err {
		_, _ = s.stderr.Write(data)
	}

	s.combined.WriteString(st.tagger.Feed(data))
}

// flush releases the unterminated last line of each stream.
func (s *session) flush() {
	for _, st := range []*stream{s.out, s.err} {
		if out := st.framer.Finish(); out != "" {
			s.write(st.sink, out)
		}

		s.combined.WriteString(st.tagger.Finish())
	}
}
