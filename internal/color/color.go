// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package color

import (
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

const (
	sbPadding = 16 // padding for the strings.Builder

	// NoColor is the environment variable that disables color output.
	NoColor = "NO_COLOR"
	// ForceColor is the environment variable that forces color output.
	ForceColor = "FORCE_COLOR"

	reset  = "\033[0m"
	prefix = "\033["
	suffix = "m"

	defaultWidth = 80
	// maxAutoPrefixWidth caps the automatically computed inline prefix width.
	maxAutoPrefixWidth = 40
)

// Code represents an ANSI SGR code.
type Code int

// Control codes for text formatting.
const (
	Reset Code = iota
	Bold
	Faint
)

// Foreground text colors.
const (
	FgBlack Code = iota + 30
	FgRed
	FgGreen
	FgYellow
	FgBlue
	FgMagenta
	FgCyan
	FgWhite
)

// Foreground Hi-Intensity text colors.
const (
	FgHiBlack Code = iota + 90
	FgHiRed
	FgHiGreen
	FgHiYellow
	FgHiBlue
	FgHiMagenta
	FgHiCyan
	FgHiWhite
)

var enabled = isColorCapable()

// Enabled reports whether color output was detected as supported at start up.
func Enabled() bool {
	return enabled
}

// Colorize wraps str in the given codes followed by a reset.
// It returns str unchanged when color output is disabled.
func Colorize(str string, codes ...Code) string {
	if !enabled {
		return str
	}

	return wrap(str, codes...)
}

func wrap(str string, codes ...Code) string {
	if len(codes) == 0 {
		return str
	}

	sb := strings.Builder{}
	sb.Grow(len(str) + len(prefix) + len(suffix) + len(reset) + sbPadding)
	sb.WriteString(prefix)

	for i, code := range codes {
		if i > 0 {
			sb.WriteString(";")
		}

		sb.WriteString(strconv.Itoa(int(code)))
	}

	sb.WriteString(suffix)
	sb.WriteString(str)
	sb.WriteString(reset)

	return sb.String()
}

// Style decides whether decorations are colored. The zero value is plain.
// Writers that are not the process terminal (buffers in tests, log files)
// use a plain Style regardless of Enabled.
type Style struct {
	Color bool
}

// Auto returns a Style that colors when the terminal supports it.
func Auto() Style {
	return Style{Color: enabled}
}

// Paint applies codes to str when the style is colored.
func (s Style) Paint(str string, codes ...Code) string {
	if !s.Color {
		return str
	}

	return wrap(str, codes...)
}

// Header returns the line printed before a repository's output, including
// the trailing newline.
func (s Style) Header(name string) string {
	return s.Paint("==> "+name+" <==", Bold, FgCyan) + "\n"
}

// Prefix returns the inline prefix for a repository, padded to width.
func (s Style) Prefix(name string, width int) string {
	p := name + ":"
	if pad := width - len(p); pad > 0 {
		p += strings.Repeat(" ", pad)
	}

	return s.Paint(p+" ", FgBlue)
}

// Failure highlights a failed repository name in the summary.
func (s Style) Failure(str string) string {
	return s.Paint(str, Bold, FgRed)
}

// Width returns the width of the terminal attached to f, or 80 when f is not
// a terminal.
func Width(f *os.File) int {
	if f == nil || !term.IsTerminal(int(f.Fd())) {
		return defaultWidth
	}

	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return defaultWidth
	}

	return w
}

// AutoPrefixWidth is the inline prefix width used when the user asks for
// automatic padding.
func AutoPrefixWidth(f *os.File) int {
	return min(Width(f)/4, maxAutoPrefixWidth)
}

func isColorCapable() bool {
	if nc := os.Getenv(NoColor); nc != "" {
		return false
	}

	if fc := os.Getenv(ForceColor); fc != "" {
		return true
	}

	return term.IsTerminal(int(os.Stdout.Fd()))
}
