// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package lineframer

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFramer_Feed(t *testing.T) {
	tests := []struct {
		name        string
		prefix      string
		chunks      []string
		wantFeeds   []string
		wantFinish  string
		wantPending int
	}{
		{
			name:       "single complete line",
			chunks:     []string{"hello\n"},
			wantFeeds:  []string{"hello\n"},
			wantFinish: "",
		},
		{
			name:        "partial line held back",
			chunks:      []string{"hel", "lo"},
			wantFeeds:   []string{"", ""},
			wantFinish:  "hello\n",
			wantPending: 5,
		},
		{
			name:        "flush up to last newline",
			chunks:      []string{"a\nb\nc"},
			wantFeeds:   []string{"a\nb\n"},
			wantFinish:  "c\n",
			wantPending: 1,
		},
		{
			name:        "newline completes earlier partial",
			chunks:      []string{"ab", "c\nd"},
			wantFeeds:   []string{"", "abc\n"},
			wantFinish:  "d\n",
			wantPending: 1,
		},
		{
			name:       "prefix on every line",
			prefix:     "repo: ",
			chunks:     []string{"one\ntwo\n"},
			wantFeeds:  []string{"repo: one\nrepo: two\n"},
			wantFinish: "",
		},
		{
			name:       "prefix skips empty lines",
			prefix:     "repo: ",
			chunks:     []string{"one\n\ntwo\n"},
			wantFeeds:  []string{"repo: one\n\nrepo: two\n"},
			wantFinish: "",
		},
		{
			name:        "prefix applied to finished fragment",
			prefix:      "> ",
			chunks:      []string{"x\ny"},
			wantFeeds:   []string{"> x\n"},
			wantFinish:  "> y\n",
			wantPending: 1,
		},
		{
			name:       "empty chunk",
			prefix:     "> ",
			chunks:     []string{""},
			wantFeeds:  []string{""},
			wantFinish: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New(tt.prefix)

			for i, c := range tt.chunks {
				assert.Equal(t, tt.wantFeeds[i], f.Feed([]byte(c)), "feed %d", i)
			}

			assert.Equal(t, tt.wantPending, f.Pending())
			assert.Equal(t, tt.wantFinish, f.Finish())
			assert.Zero(t, f.Pending())
		})
	}
}

// frame feeds s to a new Framer in the given chunk sizes and returns the
// concatenated output and every Feed result.
func frame(prefix, s string, sizes []int) (string, []string) {
	f := New(prefix)

	var (
		out   strings.Builder
		feeds []string
	)

	for _, n := range sizes {
		if n > len(s) {
			n = len(s)
		}

		got := f.Feed([]byte(s[:n]))
		feeds = append(feeds, got)
		out.WriteString(got)
		s = s[n:]
	}

	if len(s) > 0 {
		got := f.Feed([]byte(s))
		feeds = append(feeds, got)
		out.WriteString(got)
	}

	out.WriteString(f.Finish())

	return out.String(), feeds
}

func randomSizes(r *rand.Rand, total int) []int {
	var sizes []int
	for total > 0 {
		n := r.Intn(7) + 1
		sizes = append(sizes, n)
		total -= n
	}

	return sizes
}

func TestFramer_LosslessUnderRechunking(t *testing.T) {
	inputs := []string{
		"",
		"no newline at all",
		"one\n",
		"one\ntwo\nthree",
		"\n\n\n",
		"mixed\n\npartial lines\r\nand trailing",
		strings.Repeat("0123456789abcdef\n", 300) + "tail",
	}

	r := rand.New(rand.NewSource(1))

	for _, in := range inputs {
		want := in
		if in != "" && !strings.HasSuffix(in, "\n") {
			want += "\n"
		}

		whole, _ := frame("", in, []int{len(in)})
		assert.Equal(t, want, whole)

		for range 20 {
			got, feeds := frame("", in, randomSizes(r, len(in)))
			assert.Equal(t, want, got, "re-chunking must not change output")

			for _, fd := range feeds {
				if fd != "" {
					assert.True(t, strings.HasSuffix(fd, "\n"), "feed emitted a partial line: %q", fd)
				}
			}
		}
	}
}

func TestFramer_PrefixInvariant(t *testing.T) {
	const prefix = "[r] "

	in := "alpha\n\nbeta\ngamma"
	r := rand.New(rand.NewSource(2))

	for range 20 {
		got, _ := frame(prefix, in, randomSizes(r, len(in)))
		assert.Equal(t, "[r] alpha\n\n[r] beta\n[r] gamma\n", got)

		for _, line := range strings.Split(strings.TrimSuffix(got, "\n"), "\n") {
			if line == "" {
				continue
			}

			assert.True(t, strings.HasPrefix(line, prefix))
			assert.False(t, strings.HasPrefix(strings.TrimPrefix(line, prefix), prefix), "prefix applied twice")
		}
	}
}

func TestFramer_FinishWithoutPending(t *testing.T) {
	f := New("p ")
	assert.Equal(t, "p done\n", f.Feed([]byte("done\n")))
	assert.Empty(t, f.Finish())
}
