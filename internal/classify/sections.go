package classify

import (
	"github.com/ppiankov/releasediff/internal/document"
)

// UnknownTitle is used for sections without a text-bearing heading
const UnknownTitle = "unknown"

// Section is a heading and the blocks that follow it up to the next
// heading of the same or a higher level.
type Section struct {
	Heading *document.Node // nil for content before the first heading
	Body    []*document.Node
}

// Title returns the first text-bearing leaf of the heading, or UnknownTitle
func (s Section) Title() string {
	if s.Heading == nil {
		return UnknownTitle
	}
	if title, ok := document.FirstText(s.Heading); ok {
		return title
	}
	return UnknownTitle
}

// Document returns the section body as a standalone document
func (s Section) Document() *document.Node {
	return document.NewDocument(s.Body...)
}

// Split segments a document's top-level blocks into sections.
// Deeper headings stay inside the enclosing section's body.
func Split(doc *document.Node) []Section {
	if doc == nil {
		return nil
	}

	var (
		sections []Section
		current  *Section
	)

	for _, block := range doc.Children() {
		if block.Kind() == document.KindHeading && startsSection(current, block) {
			if current != nil {
				sections = append(sections, *current)
			}
			current = &Section{Heading: block}
			continue
		}

		if current == nil {
			current = &Section{}
		}
		current.Body = append(current.Body, block)
	}

	if current != nil {
		sections = append(sections, *current)
	}

	return sections
}

func startsSection(current *Section, heading *document.Node) bool {
	if current == nil || current.Heading == nil {
		return true
	}
	return heading.Level() <= current.Heading.Level()
}
