package document

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// Parser converts release note markdown into document trees
type Parser struct {
	md goldmark.Markdown
}

// NewParser creates a parser with GitHub-flavoured inline extensions
func NewParser() *Parser {
	return &Parser{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.Strikethrough,
				extension.TaskList,
				extension.Linkify,
			),
		),
	}
}

// Parse parses markdown into a document tree.
// It never fails: input the markdown parser cannot handle degrades to plain paragraphs.
func (p *Parser) Parse(source string) (doc *Node) {
	defer func() {
		if r := recover(); r != nil {
			doc = plainDocument(source)
		}
	}()

	src := []byte(source)
	root := p.md.Parser().Parse(text.NewReader(src))

	c := &converter{source: src}
	return NewDocument(c.blocks(root)...)
}

var blankLines = regexp.MustCompile(`\n[ \t]*\n`)

// plainDocument splits text into paragraphs on blank lines
func plainDocument(source string) *Node {
	var paragraphs []*Node
	for _, chunk := range blankLines.Split(source, -1) {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		paragraphs = append(paragraphs, NewParagraph(NewText(chunk)))
	}
	return NewDocument(paragraphs...)
}

// converter maps goldmark's AST onto document nodes
type converter struct {
	source []byte
	inLink int
}

func (c *converter) blocks(parent ast.Node) []*Node {
	var out []*Node
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		out = append(out, c.block(n)...)
	}
	return out
}

func (c *converter) block(n ast.Node) []*Node {
	switch n := n.(type) {
	case *ast.Heading:
		return []*Node{NewHeading(n.Level, c.inlines(n)...)}
	case *ast.Paragraph:
		return []*Node{NewParagraph(c.inlines(n)...)}
	case *ast.TextBlock:
		return []*Node{NewParagraph(c.inlines(n)...)}
	case *ast.List:
		return []*Node{NewList(n.IsOrdered(), n.Start, n.IsTight, c.blocks(n)...)}
	case *ast.ListItem:
		return []*Node{NewListItem(c.blocks(n)...)}
	case *ast.FencedCodeBlock:
		return []*Node{NewCodeBlock(string(n.Language(c.source)), c.lines(n))}
	case *ast.CodeBlock:
		return []*Node{NewCodeBlock("", c.lines(n))}
	case *ast.Blockquote:
		return []*Node{NewBlockQuote(c.blocks(n)...)}
	case *ast.ThematicBreak:
		return []*Node{NewThematicBreak()}
	case *ast.HTMLBlock:
		// raw HTML is never carried into the tree
		return nil
	}

	if n.Type() == ast.TypeInline {
		return []*Node{NewParagraph(c.inline(n)...)}
	}
	return c.blocks(n)
}

func (c *converter) lines(n ast.Node) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(c.source))
	}
	return b.String()
}

// inlines converts the inline children of parent, merging adjacent text
// and recognizing references in text outside of links.
func (c *converter) inlines(parent ast.Node) []*Node {
	var raw []*Node
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		raw = append(raw, c.inline(n)...)
	}

	merged := mergeText(raw)
	if c.inLink > 0 {
		return merged
	}

	var out []*Node
	for _, n := range merged {
		if n.kind == KindText {
			out = append(out, ScanReferences(n.literal)...)
			continue
		}
		out = append(out, n)
	}
	return out
}

func (c *converter) inline(n ast.Node) []*Node {
	switch n := n.(type) {
	case *ast.Text:
		out := []*Node{NewText(string(n.Segment.Value(c.source)))}
		if n.HardLineBreak() {
			out = append(out, NewHardBreak())
		} else if n.SoftLineBreak() {
			out = append(out, NewSoftBreak())
		}
		return out
	case *ast.String:
		return []*Node{NewText(string(n.Value))}
	case *ast.CodeSpan:
		return []*Node{NewCodeSpan(c.plain(n))}
	case *ast.Emphasis:
		if n.Level >= 2 {
			return []*Node{NewStrong(c.inlines(n)...)}
		}
		return []*Node{NewEmphasis(c.inlines(n)...)}
	case *ast.Link:
		c.inLink++
		children := c.inlines(n)
		c.inLink--
		return []*Node{NewLink(string(n.Destination), string(n.Title), children...)}
	case *ast.AutoLink:
		return []*Node{autoLink(n, c.source)}
	case *ast.Image:
		return []*Node{NewImage(string(n.Destination), c.plain(n))}
	case *ast.RawHTML:
		return nil
	case *extast.Strikethrough:
		return []*Node{NewStrikethrough(c.inlines(n)...)}
	case *extast.TaskCheckBox:
		if n.IsChecked {
			return []*Node{NewText("[x] ")}
		}
		return []*Node{NewText("[ ] ")}
	}

	return c.inlines(n)
}

func autoLink(n *ast.AutoLink, source []byte) *Node {
	label := string(n.Label(source))
	dest := string(n.URL(source))

	switch {
	case n.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(strings.ToLower(dest), "mailto:"):
		dest = "mailto:" + dest
	case n.AutoLinkType == ast.AutoLinkURL && !strings.Contains(dest, "://"):
		dest = "http://" + dest
	}

	return NewLink(dest, "", NewText(label))
}

// plain returns the raw text content of an inline node
func (c *converter) plain(n ast.Node) string {
	var b strings.Builder
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := child.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(c.source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

func mergeText(nodes []*Node) []*Node {
	var out []*Node
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if last := len(out) - 1; last >= 0 && n.kind == KindText && out[last].kind == KindText {
			out[last] = NewText(out[last].literal + n.literal)
			continue
		}
		out = append(out, n)
	}
	return out
}
