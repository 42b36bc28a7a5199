// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runlog

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/matt-FFFFFF/allgit/internal/procrunner"
	"github.com/spf13/afero"
)

var (
	// ErrOpenLog is returned when the log file could not be opened.
	ErrOpenLog = errors.New("failed to open failure log")
	// ErrWriteLog is returned when an entry could not be written.
	ErrWriteLog = errors.New("failed to write failure log")
	// ErrCloseLog is returned when the log file could not be closed.
	ErrCloseLog = errors.New("failed to close failure log")
)

// FsFactory returns the filesystem new logs are written to.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// Log appends failure records to a file. The zero path disables it.
// A Log is not safe for concurrent use.
type Log struct {
	fs     afero.Fs
	path   string
	runID  string
	file   afero.File
	opened bool
	now    func() time.Time
}

// New returns a Log that will append to path. Nothing is created until the
// first Record.
func New(path string) *Log {
	return &Log{
		fs:    FsFactory(),
		path:  path,
		runID: uuid.NewString(),
		now:   time.Now,
	}
}

// RunID identifies this invocation in every entry.
func (l *Log) RunID() string {
	return l.runID
}

// Path returns the log file location.
func (l *Log) Path() string {
	return l.path
}

// Enabled reports whether records are persisted.
func (l *Log) Enabled() bool {
	return l != nil && l.path != ""
}

// Opened reports whether anything has been recorded.
func (l *Log) Opened() bool {
	return l != nil && l.opened
}

// Record appends an entry for o. It opens the file on first use.
func (l *Log) Record(o *procrunner.Outcome) error {
	if !l.Enabled() || o == nil {
		return nil
	}

	if err := l.open(); err != nil {
		return err
	}

	var b bytes.Buffer

	fmt.Fprintf(&b, "=== %s run=%s repo=%s path=%s cause=%s\n",
		l.now().Format(time.RFC3339), l.runID, o.Name, o.Path, o.Cause())
	b.Write(o.Combined)

	if len(o.Combined) > 0 && o.Combined[len(o.Combined)-1] != '\n' {
		b.WriteByte('\n')
	}

	if _, err := l.file.Write(b.Bytes()); err != nil {
		return errors.Join(ErrWriteLog, err)
	}

	return nil
}

// Close closes the file if it was opened. It is safe to call more than once.
func (l *Log) Close() error {
	if l == nil || l.file == nil {
		return nil
	}

	f := l.file
	l.file = nil

	if err := f.Close(); err != nil {
		return errors.Join(ErrCloseLog, err)
	}

	return nil
}

func (l *Log) open() error {
	if l.file != nil {
		return nil
	}

	if dir := filepath.Dir(l.path); dir != "." {
		if err := l.fs.MkdirAll(dir, 0o755); err != nil {
			return errors.Join(ErrOpenLog, err)
		}
	}

	f, err := l.fs.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return errors.Join(ErrOpenLog, err)
	}

	l.file = f
	l.opened = true

	return nil
}
