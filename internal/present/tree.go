// Package present defines the display-ready tree produced for each change
// entry and writers that turn it into HTML or terminal text.
package present

import "fmt"

// Primitive is a presentation building block. The set is closed: a
// presentation tree never contains anything else.
type Primitive int

const (
	Box           Primitive = iota // Root container
	Heading                        // Section heading (Props.As, Props.Size)
	Text                           // Paragraph
	Link                           // Hyperlink (Props.Href)
	List                           // Bulleted or numbered list (Props.StyleType)
	ListItem                       // List entry
	Code                           // Inline code, or preformatted block when Props.As is "pre"
	BlockQuote                     // Quoted block
	Emphasis                       // Italic
	Strong                         // Bold
	Strikethrough                  // Deleted text
	Break                          // Hard line break
	Divider                        // Horizontal rule
	Token                          // Highlighted code token (Props.Class)
	Plain                          // Text leaf (Node.Text)
)

var primitiveNames = [...]string{
	Box:           "Box",
	Heading:       "Heading",
	Text:          "Text",
	Link:          "Link",
	List:          "List",
	ListItem:      "ListItem",
	Code:          "Code",
	BlockQuote:    "BlockQuote",
	Emphasis:      "Emphasis",
	Strong:        "Strong",
	Strikethrough: "Strikethrough",
	Break:         "Break",
	Divider:       "Divider",
	Token:         "Token",
	Plain:         "Plain",
}

func (p Primitive) String() string {
	if p.Valid() {
		return primitiveNames[p]
	}
	return fmt.Sprintf("Primitive(%d)", int(p))
}

// Valid reports whether p belongs to the primitive set
func (p Primitive) Valid() bool {
	return p >= Box && p <= Plain
}

// Primitives returns every primitive in declaration order
func Primitives() []Primitive {
	out := make([]Primitive, 0, len(primitiveNames))
	for p := Box; p <= Plain; p++ {
		out = append(out, p)
	}
	return out
}

// Props carries the fixed stylistic defaults of a primitive
type Props struct {
	As           string `json:"as,omitempty"`        // Element to render as (h2..h6, pre)
	Size         string `json:"size,omitempty"`      // Heading size: xl, lg, md, sm, xs
	MarginBottom int    `json:"mb,omitempty"`        // Spacing below, in theme units
	Padding      int    `json:"p,omitempty"`         // Inner spacing, in theme units
	StyleType    string `json:"styleType,omitempty"` // List marker: disc, decimal
	Start        int    `json:"start,omitempty"`     // First number of an ordered list
	Href         string `json:"href,omitempty"`      // Link target
	Title        string `json:"title,omitempty"`     // Link title
	Class        string `json:"class,omitempty"`     // Highlighting classes
}

// Node is one node of a presentation tree. Trees are built once per render
// and treated as read-only afterwards.
type Node struct {
	Primitive Primitive `json:"primitive"`
	Props     Props     `json:"props,omitzero"`
	Text      string    `json:"text,omitempty"`
	Children  []*Node   `json:"children,omitempty"`
}

// IsPreformatted reports whether n is a preformatted code block
func (n *Node) IsPreformatted() bool {
	return n.Primitive == Code && n.Props.As == "pre"
}

// IsBlock reports whether n is laid out as a block
func (n *Node) IsBlock() bool {
	switch n.Primitive {
	case Box, Heading, Text, List, ListItem, BlockQuote, Divider:
		return true
	case Code:
		return n.IsPreformatted()
	}
	return false
}

// Walk visits n and its descendants depth-first
func Walk(n *Node, fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// TextContent returns the concatenated text of all Plain leaves under n
func TextContent(n *Node) string {
	var out []byte
	Walk(n, func(c *Node) {
		if c.Primitive == Plain {
			out = append(out, c.Text...)
		}
	})
	return string(out)
}
