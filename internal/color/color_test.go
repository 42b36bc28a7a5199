// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package color

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsColorCapable(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.False(t, isColorCapable(), "Expected color output to be disabled")

	t.Setenv("FORCE_COLOR", "1")
	assert.False(t, isColorCapable(), "Expected color output to be disabled as NO_COLOR is still set")

	t.Setenv("NO_COLOR", "")
	assert.True(t, isColorCapable(), "Expected color output to be enabled as FORCE_COLOR is set and NO_COLOR is unset")
}

func TestStyle_Header(t *testing.T) {
	assert.Equal(t, "==> foo/bar <==\n", Style{}.Header("foo/bar"))

	colored := Style{Color: true}.Header("foo")
	assert.Contains(t, colored, "==> foo <==")
	assert.Equal(t, "\033[1;36m==> foo <==\033[0m\n", colored)
}

func TestStyle_Prefix(t *testing.T) {
	tests := []struct {
		name  string
		repo  string
		width int
		want  string
	}{
		{name: "no padding", repo: "repo", width: 0, want: "repo: "},
		{name: "padded", repo: "repo", width: 8, want: "repo:    "},
		{name: "name longer than width", repo: "a/long/name", width: 4, want: "a/long/name: "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Style{}.Prefix(tt.repo, tt.width))
		})
	}
}

func TestStyle_Failure(t *testing.T) {
	assert.Equal(t, "x", Style{}.Failure("x"))
	assert.Equal(t, "\033[1;31mx\033[0m", Style{Color: true}.Failure("x"))
}

func TestWidth_NotATerminal(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)

	defer f.Close() //nolint:errcheck

	assert.Equal(t, 80, Width(f))
	assert.Equal(t, 20, AutoPrefixWidth(f))
	assert.Equal(t, 80, Width(nil))
}
