// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package discovery

import (
	"context"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matt-FFFFFF/allgit/internal/ctxlog"
	"github.com/spf13/afero"
)

// metadataNames mark a directory as a repository root.
var metadataNames = []string{".git", ".hg", ".svn"}

// vendorManifests are files whose presence next to a vendor directory marks
// it as package manager output rather than a hand maintained tree.
var vendorManifests = []string{
	"go.mod",
	"composer.json",
	"composer.lock",
	"Gemfile",
	"Gemfile.lock",
	"Cargo.lock",
	"package.json",
}

// prunedNames are never descended into.
var prunedNames = []string{"node_modules", "log", "logs"}

// Target is one discovered repository.
type Target struct {
	Path string // Directory to run the command in
	Name string // Display name: the root as given joined with the path below it
}

// Options configure a Locator.
type Options struct {
	Include []Matcher // If set, only repositories matching one of these are yielded
	Exclude []Matcher // Directories matching one of these are not descended into
	Nested  bool      // Keep walking below a repository to find nested ones
}

// Locator finds repositories below a set of roots.
type Locator struct {
	fs   afero.Fs
	opts Options
}

// New returns a Locator over the filesystem from FsFactory.
func New(opts Options) *Locator {
	return &Locator{
		fs:   FsFactory(),
		opts: opts,
	}
}

// Walk yields repositories under each root in turn, depth first with
// directory entries in lexical order. Targets are produced lazily, so the
// caller may act on one before the next is searched for.
//
// The only error yielded is the context error when ctx is cancelled, after
// which the sequence ends.
func (l *Locator) Walk(ctx context.Context, roots []string) iter.Seq2[Target, error] {
	return func(yield func(Target, error) bool) {
		for _, root := range roots {
			info, err := l.fs.Stat(root)
			if err != nil {
				ctxlog.Warn(ctx, "skipping root", "root", root, "error", err)
				continue
			}

			if !info.IsDir() {
				ctxlog.Warn(ctx, "skipping root, not a directory", "root", root)
				continue
			}

			if !l.walk(ctx, root, root, yield) {
				return
			}
		}
	}
}

// walk visits dir and reports whether the walk should go on.
func (l *Locator) walk(ctx context.Context, root, dir string, yield func(Target, error) bool) bool {
	if err := ctx.Err(); err != nil {
		yield(Target{}, err)
		return false
	}

	entries, err := afero.ReadDir(l.fs, dir)
	if err != nil {
		ctxlog.Warn(ctx, "skipping unreadable directory", "dir", dir, "error", err)
		return true
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}

	if isRepository(names) {
		t := Target{Path: dir, Name: displayName(root, dir)}

		if l.included(t) {
			ctxlog.Debug(ctx, "found repository", "repo", t.Name, "path", t.Path)

			if !yield(t, nil) {
				return false
			}
		}

		if !l.opts.Nested {
			return true
		}
	}

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}

		child := filepath.Join(dir, e.Name())
		if l.pruned(root, child, e, names) {
			continue
		}

		if !l.walk(ctx, root, child, yield) {
			return false
		}
	}

	return true
}

func (l *Locator) included(t Target) bool {
	return len(l.opts.Include) == 0 || matchesAny(l.opts.Include, t.Name)
}

// pruned reports whether the directory entry e of a directory whose entries
// are siblings should be skipped.
func (l *Locator) pruned(root, path string, e os.FileInfo, siblings []string) bool {
	name := e.Name()

	switch {
	case strings.HasPrefix(name, "."):
		return true
	case slices.Contains(prunedNames, name):
		return true
	case name == "vendor" && slices.ContainsFunc(vendorManifests, func(m string) bool {
		return slices.Contains(siblings, m)
	}):
		return true
	}

	return matchesAny(l.opts.Exclude, displayName(root, path))
}

func isRepository(names []string) bool {
	return slices.ContainsFunc(metadataNames, func(m string) bool {
		return slices.Contains(names, m)
	})
}

// displayName joins the root, as the user wrote it, with the path of dir
// below it.
func displayName(root, dir string) string {
	rel, err := filepath.Rel(root, dir)
	if err != nil || rel == "." {
		return filepath.Clean(root)
	}

	return filepath.Join(root, rel)
}
