// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package lineframer reassembles byte chunks read from a child process stream
// into whole lines. Output is only released up to the last newline seen, so
// lines from standard output and standard error are never split when both are
// forwarded to the terminal. The unterminated remainder is released, with a
// newline added, once the stream is finished.
package lineframer
