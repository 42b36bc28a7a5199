// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package discovery walks directory trees and yields the version controlled
// repositories found below them, in walk order.
//
// A directory is a repository when it contains a .git, .hg or .svn entry.
// The walk prunes node_modules, vendor directories that belong to a package
// manager, log directories, hidden directories and anything matching an
// exclude filter. Unreadable directories are logged and skipped.
package discovery
