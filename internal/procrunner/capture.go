// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package procrunner

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	max       int
	b         []byte
	truncated bool
}

func newTailBuffer(maxSize int) *tailBuffer {
	return &tailBuffer{max: maxSize}
}

// Write implements io.Writer. It never fails.
func (t *tailBuffer) Write(p []byte) (int, error) {
	n := len(p)

	if t.max <= 0 {
		t.b = append(t.b, p...)
		return n, nil
	}

	if len(p) >= t.max {
		t.truncated = t.truncated || len(t.b) > 0 || len(p) > t.max
		t.b = append(t.b[:0], p[len(p)-t.max:]...)

		return n, nil
	}

	if over := len(t.b) + len(p) - t.max; over > 0 {
		t.b = append(t.b[:0], t.b[over:]...)
		t.truncated = true
	}

	t.b = append(t.b, p...)

	return n, nil
}

// WriteString is a convenience wrapper used for framed text.
func (t *tailBuffer) WriteString(s string) {
	if s == "" {
		return
	}

	_, _ = t.Write([]byte(s))
}

// Bytes returns a copy of the retained bytes.
func (t *tailBuffer) Bytes() []byte {
	if len(t.b) == 0 {
		return nil
	}

	out := make([]byte, len(t.b))
	copy(out, t.b)

	return out
}
