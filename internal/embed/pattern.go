package embed

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// ErrPatternCaptureGroups reports a marker pattern that does not expose
// exactly one capture group.
var ErrPatternCaptureGroups = errors.New("embed: marker pattern must have exactly one capture group")

// Matcher recognises markers. The pattern finds complete markers inside a
// single text node; the open and close literals find markers whose URL was
// turned into a link element by the host pipeline.
type Matcher struct {
	pattern      *regexp.Regexp
	openLiteral  string
	closeLiteral string
}

// NewMatcher validates pattern and the split form literals.
func NewMatcher(pattern *regexp.Regexp, openLiteral, closeLiteral string) (*Matcher, error) {
	if pattern == nil {
		return nil, fmt.Errorf("embed: marker pattern is required")
	}
	if pattern.NumSubexp() != 1 {
		return nil, fmt.Errorf("%w: got %d", ErrPatternCaptureGroups, pattern.NumSubexp())
	}
	openLiteral = strings.TrimRightFunc(openLiteral, unicode.IsSpace)
	closeLiteral = strings.TrimLeftFunc(closeLiteral, unicode.IsSpace)
	if openLiteral == "" || closeLiteral == "" {
		return nil, fmt.Errorf("embed: marker literals are required")
	}
	return &Matcher{pattern: pattern, openLiteral: openLiteral, closeLiteral: closeLiteral}, nil
}

// openIndex returns the offset of the opening literal when text ends with it,
// allowing trailing whitespace, or -1.
func (m *Matcher) openIndex(text string) int {
	trimmed := strings.TrimRightFunc(text, unicode.IsSpace)
	if !strings.HasSuffix(trimmed, m.openLiteral) {
		return -1
	}
	return len(trimmed) - len(m.openLiteral)
}

// closeEnd returns the offset just past the closing literal when text starts
// with it, allowing leading whitespace, or -1.
func (m *Matcher) closeEnd(text string) int {
	trimmed := strings.TrimLeftFunc(text, unicode.IsSpace)
	if !strings.HasPrefix(trimmed, m.closeLiteral) {
		return -1
	}
	return len(text) - len(trimmed) + len(m.closeLiteral)
}
