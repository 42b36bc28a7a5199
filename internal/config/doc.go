// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config holds RunConfig, the settings for one invocation, and
// loads defaults for it from an optional YAML file.
//
// Precedence is built in defaults, then the file, then command line flags.
// Flags are applied by the caller after Load returns.
package config
