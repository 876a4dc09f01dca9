// Package document holds the immutable tree a release note is parsed into.
//
// Nodes are created through constructors and never modified afterwards;
// every transformation builds a new tree, sharing untouched subtrees.
package document

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"slices"
	"strings"
)

// Kind identifies the type of a node
type Kind int

const (
	KindDocument Kind = iota
	KindHeading
	KindParagraph
	KindList
	KindListItem
	KindCodeBlock
	KindBlockQuote
	KindThematicBreak
	KindText
	KindSoftBreak
	KindHardBreak
	KindEmphasis
	KindStrong
	KindStrikethrough
	KindCodeSpan
	KindLink
	KindImage
	KindReference
)

var kindNames = [...]string{
	KindDocument:      "document",
	KindHeading:       "heading",
	KindParagraph:     "paragraph",
	KindList:          "list",
	KindListItem:      "listItem",
	KindCodeBlock:     "code",
	KindBlockQuote:    "blockquote",
	KindThematicBreak: "thematicBreak",
	KindText:          "text",
	KindSoftBreak:     "softBreak",
	KindHardBreak:     "break",
	KindEmphasis:      "emphasis",
	KindStrong:        "strong",
	KindStrikethrough: "delete",
	KindCodeSpan:      "inlineCode",
	KindLink:          "link",
	KindImage:         "image",
	KindReference:     "reference",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// IsBlock reports whether nodes of this kind are block-level
func (k Kind) IsBlock() bool {
	return k <= KindThematicBreak
}

// RefKind classifies a hosting-platform reference
type RefKind int

const (
	RefIssue   RefKind = iota // #123 or owner/repo#123 (issues and pull requests)
	RefMention                // @user
	RefCommit                 // full or abbreviated commit SHA
)

func (k RefKind) String() string {
	switch k {
	case RefIssue:
		return "issue"
	case RefMention:
		return "mention"
	case RefCommit:
		return "commit"
	default:
		return "unknown"
	}
}

// Reference is an unresolved issue, mention or commit reference
type Reference struct {
	Kind  RefKind
	Owner string // Set for cross-repository issue references
	Repo  string
	Value string // Issue number, user name or SHA
}

// Literal returns the reference as it appeared in the source text
func (r Reference) Literal() string {
	switch r.Kind {
	case RefIssue:
		if r.Owner != "" {
			return r.Owner + "/" + r.Repo + "#" + r.Value
		}
		return "#" + r.Value
	case RefMention:
		return "@" + r.Value
	default:
		return r.Value
	}
}

// Node is a single immutable node of a document tree
type Node struct {
	kind     Kind
	level    int    // heading level
	ordered  bool   // list
	tight    bool   // list
	start    int    // ordered list start
	literal  string // text, code, image alt
	lang     string // code block language
	dest     string // link/image destination
	title    string // link title
	ref      Reference
	children []*Node
}

func newNode(kind Kind, children []*Node) *Node {
	return &Node{kind: kind, children: compact(children)}
}

func compact(children []*Node) []*Node {
	if len(children) == 0 {
		return nil
	}
	out := make([]*Node, 0, len(children))
	for _, c := range children {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

// NewDocument creates a document root
func NewDocument(children ...*Node) *Node {
	return newNode(KindDocument, children)
}

// NewHeading creates a heading; level is clamped to 1..6
func NewHeading(level int, children ...*Node) *Node {
	n := newNode(KindHeading, children)
	n.level = min(max(level, 1), 6)
	return n
}

// NewParagraph creates a paragraph
func NewParagraph(children ...*Node) *Node {
	return newNode(KindParagraph, children)
}

// NewList creates a list of items
func NewList(ordered bool, start int, tight bool, items ...*Node) *Node {
	n := newNode(KindList, items)
	n.ordered = ordered
	n.start = start
	n.tight = tight
	return n
}

// NewListItem creates a list item
func NewListItem(children ...*Node) *Node {
	return newNode(KindListItem, children)
}

// NewCodeBlock creates a code block with an optional declared language
func NewCodeBlock(lang, code string) *Node {
	n := newNode(KindCodeBlock, nil)
	n.lang = lang
	n.literal = code
	return n
}

// NewBlockQuote creates a block quote
func NewBlockQuote(children ...*Node) *Node {
	return newNode(KindBlockQuote, children)
}

// NewThematicBreak creates a horizontal rule
func NewThematicBreak() *Node {
	return newNode(KindThematicBreak, nil)
}

// NewText creates a text leaf
func NewText(value string) *Node {
	n := newNode(KindText, nil)
	n.literal = value
	return n
}

// NewSoftBreak creates a soft line break
func NewSoftBreak() *Node {
	return newNode(KindSoftBreak, nil)
}

// NewHardBreak creates a hard line break
func NewHardBreak() *Node {
	return newNode(KindHardBreak, nil)
}

// NewEmphasis creates emphasized inline content
func NewEmphasis(children ...*Node) *Node {
	return newNode(KindEmphasis, children)
}

// NewStrong creates strongly emphasized inline content
func NewStrong(children ...*Node) *Node {
	return newNode(KindStrong, children)
}

// NewStrikethrough creates struck-through inline content
func NewStrikethrough(children ...*Node) *Node {
	return newNode(KindStrikethrough, children)
}

// NewCodeSpan creates inline code
func NewCodeSpan(code string) *Node {
	n := newNode(KindCodeSpan, nil)
	n.literal = code
	return n
}

// NewLink creates a hyperlink
func NewLink(dest, title string, children ...*Node) *Node {
	n := newNode(KindLink, children)
	n.dest = dest
	n.title = title
	return n
}

// NewImage creates an image with alternative text
func NewImage(dest, alt string) *Node {
	n := newNode(KindImage, nil)
	n.dest = dest
	n.literal = alt
	return n
}

// NewReference creates an unresolved reference
func NewReference(ref Reference) *Node {
	n := newNode(KindReference, nil)
	n.ref = ref
	return n
}

func (n *Node) Kind() Kind { return n.kind }
func (n *Node) Level() int { return n.level }
func (n *Node) Ordered() bool { return n.ordered }
func (n *Node) Tight() bool { return n.tight }
func (n *Node) Start() int { return n.start }
func (n *Node) Literal() string { return n.literal }
func (n *Node) Language() string { return n.lang }
func (n *Node) Destination() string { return n.dest }
func (n *Node) Title() string { return n.title }
func (n *Node) Reference() Reference { return n.ref }
func (n *Node) ChildCount() int { return len(n.children) }
func (n *Node) Child(i int) *Node { return n.children[i] }
func (n *Node) Children() []*Node { return slices.Clone(n.children) }

// WithChildren returns a copy of n with the given children
func (n *Node) WithChildren(children ...*Node) *Node {
	cp := *n
	cp.children = compact(children)
	return &cp
}

// Walk visits n and its descendants in document order.
// Returning false from fn skips the node's children.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.children {
		Walk(c, fn)
	}
}

// PlainText returns the concatenated text content of n
func PlainText(n *Node) string {
	var b strings.Builder
	Walk(n, func(c *Node) bool {
		switch c.kind {
		case KindText, KindCodeSpan, KindCodeBlock, KindImage:
			b.WriteString(c.literal)
		case KindReference:
			b.WriteString(c.ref.Literal())
		case KindSoftBreak, KindHardBreak:
			b.WriteByte(' ')
		}
		return true
	})
	return b.String()
}

// FirstText returns the value of the first text-bearing leaf under n
func FirstText(n *Node) (string, bool) {
	var (
		found string
		ok    bool
	)
	Walk(n, func(c *Node) bool {
		if ok {
			return false
		}
		switch c.kind {
		case KindText, KindCodeSpan:
			if strings.TrimSpace(c.literal) != "" {
				found, ok = c.literal, true
			}
		case KindReference:
			found, ok = c.ref.Literal(), true
		}
		return !ok
	})
	return found, ok
}

// Fingerprint returns a stable digest of the tree's structure and content
func Fingerprint(n *Node) string {
	h := sha256.New()
	writeFingerprint(h, n)
	return hex.EncodeToString(h.Sum(nil))
}

func writeFingerprint(h hash.Hash, n *Node) {
	if n == nil {
		return
	}
	fmt.Fprintf(h, "(%d %d %t %t %d %q %q %q %q %d %q %q %q",
		n.kind, n.level, n.ordered, n.tight, n.start, n.literal, n.lang, n.dest, n.title,
		n.ref.Kind, n.ref.Owner, n.ref.Repo, n.ref.Value)
	for _, c := range n.children {
		writeFingerprint(h, c)
	}
	h.Write([]byte{')'})
}
