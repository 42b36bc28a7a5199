// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package discovery

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrInvalidPattern is returned when a /regexp/ filter does not compile.
var ErrInvalidPattern = errors.New("invalid filter pattern")

// MatcherKind tells how a Matcher compares names.
type MatcherKind int

const (
	// MatchLiteral compares names for equality.
	MatchLiteral MatcherKind = iota
	// MatchPattern searches names with a regular expression.
	MatchPattern
)

// Matcher is an include or exclude filter. It is either a literal name or a
// compiled regular expression.
type Matcher struct {
	kind    MatcherKind
	literal string
	re      *regexp.Regexp
}

// Literal returns a Matcher for an exact name.
func Literal(name string) Matcher {
	return Matcher{kind: MatchLiteral, literal: name}
}

// Pattern returns a Matcher for a compiled regular expression.
func Pattern(re *regexp.Regexp) Matcher {
	return Matcher{kind: MatchPattern, re: re}
}

// ParseMatcher parses a filter. A value enclosed in slashes, such as
// "/^go-/", is a regular expression; anything else is a literal name.
func ParseMatcher(s string) (Matcher, error) {
	if len(s) >= 2 && strings.HasPrefix(s, "/") && strings.HasSuffix(s, "/") {
		re, err := regexp.Compile(s[1 : len(s)-1])
		if err != nil {
			return Matcher{}, fmt.Errorf("%w: %q: %w", ErrInvalidPattern, s, err)
		}

		return Pattern(re), nil
	}

	return Literal(s), nil
}

// ParseMatchers parses every filter in values.
func ParseMatchers(values []string) ([]Matcher, error) {
	ms := make([]Matcher, 0, len(values))

	for _, v := range values {
		m, err := ParseMatcher(v)
		if err != nil {
			return nil, err
		}

		ms = append(ms, m)
	}

	return ms, nil
}

// Kind returns the variant of m.
func (m Matcher) Kind() MatcherKind {
	return m.kind
}

// Matches reports whether candidate matches. A literal matches the whole
// candidate or its last path element.
func (m Matcher) Matches(candidate string) bool {
	switch m.kind {
	case MatchPattern:
		return m.re != nil && m.re.MatchString(candidate)
	default:
		return candidate == m.literal || filepath.Base(candidate) == m.literal
	}
}

// String returns the filter as the user would write it.
func (m Matcher) String() string {
	if m.kind == MatchPattern && m.re != nil {
		return "/" + m.re.String() + "/"
	}

	return m.literal
}

func matchesAny(ms []Matcher, candidate string) bool {
	for _, m := range ms {
		if m.Matches(candidate) {
			return true
		}
	}

	return false
}
