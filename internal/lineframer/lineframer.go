// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package lineframer

import (
	"bytes"
	"strings"
)

// Framer buffers the bytes of one stream after its last newline.
// It is not safe for concurrent use; each stream owns one Framer.
type Framer struct {
	pending []byte // never contains '\n'
	prefix  string
}

// New returns a Framer that inserts prefix at the start of every line.
// An empty prefix leaves lines unchanged.
func New(prefix string) *Framer {
	return &Framer{prefix: prefix}
}

// Feed appends chunk and returns every complete line now available,
// formatted. It returns "" when no newline has been seen since the last call.
func (f *Framer) Feed(chunk []byte) string {
	f.pending = append(f.pending, chunk...)

	i := bytes.LastIndexByte(f.pending, '\n')
	if i < 0 {
		return ""
	}

	out := f.format(f.pending[:i+1])

	// Copy the remainder to the front so that the backing array does not grow
	// without bound on long running streams.
	n := copy(f.pending, f.pending[i+1:])
	f.pending = f.pending[:n]

	return out
}

// Finish returns the formatted remainder with a newline appended, or "" if
// nothing is pending. It must be called once, after the stream has closed.
func (f *Framer) Finish() string {
	if len(f.pending) == 0 {
		return ""
	}

	out := f.format(append(f.pending, '\n'))
	f.pending = f.pending[:0]

	return out
}

// Pending returns the number of bytes held back waiting for a newline.
func (f *Framer) Pending() int {
	return len(f.pending)
}

// format prefixes every line of b that has content. b always ends in '\n'.
func (f *Framer) format(b []byte) string {
	if f.prefix == "" {
		return string(b)
	}

	var sb strings.Builder

	sb.Grow(len(b) + len(f.prefix)*(bytes.Count(b, []byte{'\n'})))

	for len(b) > 0 {
		i := bytes.IndexByte(b, '\n')
		line := b[:i+1]
		b = b[i+1:]

		if len(line) > 1 {
			sb.WriteString(f.prefix)
		}

		sb.Write(line)
	}

	return sb.String()
}
