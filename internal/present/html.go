package present

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// WriteHTML writes the tree as an HTML fragment
func WriteHTML(w io.Writer, n *Node) error {
	if n == nil {
		return nil
	}
	if err := html.Render(w, ToHTML(n)); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

// ToHTML converts the tree into an HTML node
func ToHTML(n *Node) *html.Node {
	if n.Primitive == Plain {
		return &html.Node{Type: html.TextNode, Data: n.Text}
	}

	el := newElement(tagFor(n), attributesFor(n)...)
	for _, c := range n.Children {
		el.AppendChild(ToHTML(c))
	}
	return el
}

func newElement(tag string, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     attrs,
	}
}

func tagFor(n *Node) string {
	switch n.Primitive {
	case Heading:
		return n.Props.As
	case Text:
		return "p"
	case Link:
		return "a"
	case List:
		if n.Props.StyleType == "decimal" {
			return "ol"
		}
		return "ul"
	case ListItem:
		return "li"
	case Code:
		if n.IsPreformatted() {
			return "pre"
		}
		return "code"
	case BlockQuote:
		return "blockquote"
	case Emphasis:
		return "em"
	case Strong:
		return "strong"
	case Strikethrough:
		return "del"
	case Break:
		return "br"
	case Divider:
		return "hr"
	case Token:
		return "span"
	default:
		return "div"
	}
}

func attributesFor(n *Node) []html.Attribute {
	var attrs []html.Attribute
	add := func(key, val string) {
		if val != "" {
			attrs = append(attrs, html.Attribute{Key: key, Val: val})
		}
	}

	classes := []string{}
	if n.Props.Size != "" {
		classes = append(classes, "size-"+n.Props.Size)
	}
	if n.Props.MarginBottom > 0 {
		classes = append(classes, "mb-"+strconv.Itoa(n.Props.MarginBottom))
	}
	if n.Props.Padding > 0 {
		classes = append(classes, "p-"+strconv.Itoa(n.Props.Padding))
	}
	if n.Props.Class != "" {
		classes = append(classes, n.Props.Class)
	}
	add("class", strings.Join(classes, " "))

	switch n.Primitive {
	case Link:
		add("href", n.Props.Href)
		add("title", n.Props.Title)
		add("rel", "noopener noreferrer")
	case List:
		add("style", "list-style-type: "+n.Props.StyleType)
		if n.Props.Start > 1 {
			add("start", strconv.Itoa(n.Props.Start))
		}
	}

	return attrs
}
