// Package sections splits paper text into named sections by heading detection.
//
// A line is a heading when, after normalisation, it equals one of the
// recognised labels in domain.SectionVocabulary. Body lines that happen to
// normalise to a heading word are treated as headings too.
package sections

import (
	"strings"

	"github.com/custodia-labs/paperdex/internal/core/domain"
	"github.com/custodia-labs/paperdex/internal/core/ports/driven"
)

// Ensure Segmenter implements the interface.
var _ driven.Segmenter = (*Segmenter)(nil)

// Name is the segmenter identifier.
const Name = "sections"

// Segmenter assigns lines to heading-delimited sections.
type Segmenter struct{}

// New creates a new section segmenter.
func New() *Segmenter {
	return &Segmenter{}
}

// Name returns the segmenter name.
func (s *Segmenter) Name() string {
	return Name
}

// Segment splits text into sections.
// Empty lines are skipped, heading lines are consumed, and every other line
// is appended trimmed to the current section. Content before the first
// heading lands in domain.SectionUnknown.
func (s *Segmenter) Segment(text string) *domain.Sections {
	out := domain.NewSections()
	current := domain.SectionUnknown

	for _, raw := range strings.FieldsFunc(text, isLineBreak) {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if heading := NormalizeHeading(line); domain.IsSectionHeading(heading) {
			current = heading
			out.Open(current)
			continue
		}

		out.Append(current, line)
	}

	return out
}

// isLineBreak reports the line boundaries found in extracted PDF text,
// including bare carriage returns, form feeds and Unicode line separators.
func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

// NormalizeHeading lowercases a line and strips surrounding whitespace and
// any leading section number such as "4.", "2.1" or "3 ".
func NormalizeHeading(line string) string {
	h := strings.ToLower(strings.TrimSpace(line))
	h = strings.TrimLeft(h, "0123456789. ")
	return strings.TrimSpace(h)
}
