// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package run

import (
	"context"
	"testing"

	"github.com/matt-FFFFFF/allgit/internal/config"
	"github.com/prashantv/gostub"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

// setup installs a memory filesystem holding the default configuration file
// with the given content, or no file if content is empty.
func setup(t *testing.T, content string) afero.Fs {
	t.Helper()

	t.Setenv(config.XDGConfigHomeEnvVar, "/xdg")
	t.Setenv("ALLGIT_CONFIG", "")

	fs := afero.NewMemMapFs()
	if content != "" {
		require.NoError(t, afero.WriteFile(fs, "/xdg/allgit/config.yaml", []byte(content), 0o644))
	}

	stubs := gostub.Stub(&config.FsFactory, func() afero.Fs {
		return fs
	})
	t.Cleanup(stubs.Reset)

	return fs
}

func resolve(t *testing.T, args ...string) (config.RunConfig, error) {
	t.Helper()

	var (
		cfg config.RunConfig
		err error
	)

	cmd := &cli.Command{
		Name:                      "allgit",
		Flags:                     Flags(),
		DisableSliceFlagSeparator: true,
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg, err = ResolveConfig(cmd)
			return nil
		},
	}

	require.NoError(t, cmd.Run(context.Background(), append([]string{"allgit"}, args...)))

	return cfg, err
}

func TestResolveConfig_Defaults(t *testing.T) {
	setup(t, "")

	cfg, err := resolve(t)
	require.NoError(t, err)

	want := config.Default()
	want.ListOnly = true
	assert.Equal(t, want, cfg)
}

func TestResolveConfig_FlagsOverrideFile(t *testing.T) {
	setup(t, `
roots: [/from-file]
jobs: 4
inline: true
excerptLines: 5
`)

	cfg, err := resolve(t, "-r", "/a", "--root", "/b", "-j", "2", "-v", "--", "git", "status", "-s")
	require.NoError(t, err)

	assert.Equal(t, []string{"/a", "/b"}, cfg.Roots)
	assert.Equal(t, 2, cfg.Jobs)
	assert.Equal(t, config.Verbose, cfg.Quiet)
	assert.True(t, cfg.Inline, "kept from file")
	assert.Equal(t, 5, cfg.ExcerptLines, "kept from file")
	assert.Equal(t, []string{"git", "status", "-s"}, cfg.Command)
	assert.False(t, cfg.ListOnly)
}

func TestResolveConfig_AllFlags(t *testing.T) {
	setup(t, "")

	cfg, err := resolve(t,
		"-l", "-i", "-w", "-1",
		"-I", "/a{1,2}/", "-x", "archive", "-x", "/^tmp/",
		"--nested", "--log", "/tmp/allgit.log", "--excerpt-lines", "0",
		"make", "lint",
	)
	require.NoError(t, err)

	assert.True(t, cfg.ListOnly)
	assert.True(t, cfg.Inline)
	assert.Equal(t, config.AutoWidth, cfg.Width)
	assert.Equal(t, []string{"/a{1,2}/"}, cfg.Include)
	assert.Equal(t, []string{"archive", "/^tmp/"}, cfg.Exclude)
	assert.True(t, cfg.Nested)
	assert.Equal(t, "/tmp/allgit.log", cfg.LogFile)
	assert.Equal(t, 0, cfg.ExcerptLines)
	assert.Equal(t, []string{"make", "lint"}, cfg.Command)
}

func TestResolveConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{name: "quiet and verbose", args: []string{"-q", "-v"}, wantErr: ErrConflictingFlags},
		{name: "explicit missing config", args: []string{"-c", "/nope.yaml"}, wantErr: config.ErrReadFile},
		{name: "bad jobs", args: []string{"-j", "0"}, wantErr: config.ErrInvalidConfig},
		{name: "bad width", args: []string{"-w", "-3"}, wantErr: config.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setup(t, "")

			_, err := resolve(t, tt.args...)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestResolveConfig_ExplicitConfigFile(t *testing.T) {
	fs := setup(t, "jobs: 9\n")
	require.NoError(t, afero.WriteFile(fs, "/other.yaml", []byte("jobs: 3\n"), 0o644))

	cfg, err := resolve(t, "--config", "/other.yaml")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Jobs)

	t.Setenv("ALLGIT_CONFIG", "/other.yaml")

	cfg, err = resolve(t)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Jobs)
}
