package domain

import "strings"

// SectionUnknown is the section name for content that precedes the first
// recognised heading.
const SectionUnknown = "unknown"

var sectionVocabulary = []string{
	"abstract",
	"introduction",
	"methods",
	"methodology",
	"experiments",
	"results",
	"discussion",
	"conclusion",
	"references",
}

// SectionVocabulary returns the closed set of recognised heading labels.
func SectionVocabulary() []string {
	out := make([]string, len(sectionVocabulary))
	copy(out, sectionVocabulary)
	return out
}

// IsSectionHeading reports whether a normalised label is a recognised heading.
func IsSectionHeading(label string) bool {
	for _, v := range sectionVocabulary {
		if v == label {
			return true
		}
	}
	return false
}

// Section is a named span of text delimited by a recognised heading.
// The heading line itself is not part of Lines.
type Section struct {
	// Name is the normalised heading label or SectionUnknown.
	Name string

	// Lines are the content lines in original order.
	Lines []string
}

// Text joins the section lines with newlines.
func (s Section) Text() string {
	return strings.Join(s.Lines, "\n")
}

// Sections is an ordered set of sections keyed by name.
// Order is the order in which each name first appeared.
type Sections struct {
	order []string
	byKey map[string]*Section
}

// NewSections returns an empty section set.
func NewSections() *Sections {
	return &Sections{byKey: make(map[string]*Section)}
}

// Open registers a bucket for name if it does not exist yet.
func (s *Sections) Open(name string) {
	if _, ok := s.byKey[name]; ok {
		return
	}
	s.order = append(s.order, name)
	s.byKey[name] = &Section{Name: name}
}

// Append adds a content line to the named bucket, registering it if needed.
func (s *Sections) Append(name, line string) {
	s.Open(name)
	sec := s.byKey[name]
	sec.Lines = append(sec.Lines, line)
}

// Len returns the number of sections.
func (s *Sections) Len() int {
	return len(s.order)
}

// Names returns section names in order of first appearance.
func (s *Sections) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Get returns a copy of the named section.
func (s *Sections) Get(name string) (Section, bool) {
	sec, ok := s.byKey[name]
	if !ok {
		return Section{}, false
	}
	return Section{Name: sec.Name, Lines: append([]string(nil), sec.Lines...)}, true
}

// List returns copies of all sections in order of first appearance.
func (s *Sections) List() []Section {
	out := make([]Section, 0, len(s.order))
	for _, name := range s.order {
		sec, _ := s.Get(name)
		out = append(out, sec)
	}
	return out
}

// Lines returns all content lines, section by section, in discovery order.
func (s *Sections) Lines() []string {
	var out []string
	for _, name := range s.order {
		out = append(out, s.byKey[name].Lines...)
	}
	return out
}

// Flatten returns the display form: section name to its lines concatenated
// without a separator.
func (s *Sections) Flatten() map[string]string {
	out := make(map[string]string, len(s.order))
	for _, name := range s.order {
		out[name] = strings.Join(s.byKey[name].Lines, "")
	}
	return out
}
