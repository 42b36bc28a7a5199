// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"path/filepath"
	"testing"

	"github.com/prashantv/gostub"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memFs(t *testing.T, files map[string]string) {
	t.Helper()

	fs := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}

	stubs := gostub.Stub(&FsFactory, func() afero.Fs {
		return fs
	})
	t.Cleanup(stubs.Reset)
}

func TestLoad_MissingOptionalFile(t *testing.T) {
	memFs(t, nil)

	cfg, err := Load("/home/u/.config/allgit/config.yaml", false)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingRequiredFile(t *testing.T) {
	memFs(t, nil)

	_, err := Load("/nope.yaml", true)
	assert.ErrorIs(t, err, ErrReadFile)
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("", true)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	memFs(t, map[string]string{
		"/c.yaml": `
roots:
  - ~/src
  - /work
output: verbose
inline: true
width: -1
exclude:
  - /^archive-/
jobs: 4
`,
	})

	cfg, err := Load("/c.yaml", true)
	require.NoError(t, err)

	want := Default()
	want.Roots = []string{"~/src", "/work"}
	want.Quiet = Verbose
	want.Inline = true
	want.Width = AutoWidth
	want.Exclude = []string{"/^archive-/"}
	want.Jobs = 4

	assert.Equal(t, want, cfg)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown field", content: "colour: true\n"},
		{name: "bad level", content: "output: loud\n"},
		{name: "not yaml", content: "roots: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			memFs(t, map[string]string{"/c.yaml": tt.content})

			_, err := Load("/c.yaml", true)
			assert.ErrorIs(t, err, ErrInvalidYaml)
		})
	}
}

func TestNormalize(t *testing.T) {
	cfg := RunConfig{Jobs: 1}
	cfg.Normalize()
	assert.True(t, cfg.ListOnly)
	assert.Equal(t, []string{"."}, cfg.Roots)

	cfg = RunConfig{Command: []string{"git", "status"}, Roots: []string{"/a"}}
	cfg.Normalize()
	assert.False(t, cfg.ListOnly)
	assert.Equal(t, []string{"/a"}, cfg.Roots)
}

func TestValidate(t *testing.T) {
	require.NoError(t, Default().Validate())

	cfg := Default()
	cfg.Jobs = 0
	cfg.Width = -2
	cfg.ExcerptLines = -1

	err := cfg.Validate()
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "jobs")
	assert.Contains(t, err.Error(), "width")
	assert.Contains(t, err.Error(), "excerpt")
}

func TestYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Quiet = Verbose
	cfg.Command = []string{"git", "pull"}

	b, err := cfg.YAML()
	require.NoError(t, err)
	assert.Contains(t, string(b), "output: verbose")

	memFs(t, map[string]string{"/c.yaml": string(b)})

	got, err := Load("/c.yaml", true)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDefaultPath(t *testing.T) {
	t.Setenv(XDGConfigHomeEnvVar, "/xdg")
	assert.Equal(t, filepath.Join("/xdg", "allgit", "config.yaml"), DefaultPath())
}
