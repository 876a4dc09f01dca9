package render

import (
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ppiankov/releasediff/internal/document"
)

func element(tag string, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     attrs,
	}
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

// toHTML converts a document tree into an HTML tree rooted at a document node
func toHTML(doc *document.Node) *html.Node {
	root := &html.Node{Type: html.DocumentNode}
	appendAll(root, convertChildren(doc, false))
	return root
}

func appendAll(parent *html.Node, children []*html.Node) {
	for _, c := range children {
		parent.AppendChild(c)
	}
}

func convertChildren(n *document.Node, tight bool) []*html.Node {
	var out []*html.Node
	for i := range n.ChildCount() {
		out = append(out, convert(n.Child(i), tight)...)
	}
	return out
}

// convert maps one document node. tight is set for the direct content of
// items of a tight list, whose paragraphs are not wrapped.
func convert(n *document.Node, tight bool) []*html.Node {
	wrap := func(el *html.Node, childrenTight bool) []*html.Node {
		appendAll(el, convertChildren(n, childrenTight))
		return []*html.Node{el}
	}

	switch n.Kind() {
	case document.KindDocument:
		return convertChildren(n, false)
	case document.KindHeading:
		return wrap(element("h"+strconv.Itoa(n.Level())), false)
	case document.KindParagraph:
		if tight {
			return convertChildren(n, false)
		}
		return wrap(element("p"), false)
	case document.KindList:
		if !n.Ordered() {
			return wrap(element("ul"), n.Tight())
		}
		el := element("ol")
		if n.Start() != 1 {
			el.Attr = append(el.Attr, attr("start", strconv.Itoa(n.Start())))
		}
		return wrap(el, n.Tight())
	case document.KindListItem:
		return wrap(element("li"), tight)
	case document.KindCodeBlock:
		code := element("code")
		if n.Language() != "" {
			code.Attr = append(code.Attr, attr("class", "language-"+n.Language()))
		}
		code.AppendChild(textNode(n.Literal()))
		pre := element("pre")
		pre.AppendChild(code)
		return []*html.Node{pre}
	case document.KindBlockQuote:
		return wrap(element("blockquote"), false)
	case document.KindThematicBreak:
		return []*html.Node{element("hr")}
	case document.KindText:
		return []*html.Node{textNode(n.Literal())}
	case document.KindSoftBreak:
		return []*html.Node{textNode("\n")}
	case document.KindHardBreak:
		return []*html.Node{element("br"), textNode("\n")}
	case document.KindEmphasis:
		return wrap(element("em"), false)
	case document.KindStrong:
		return wrap(element("strong"), false)
	case document.KindStrikethrough:
		return wrap(element("del"), false)
	case document.KindCodeSpan:
		code := element("code")
		code.AppendChild(textNode(n.Literal()))
		return []*html.Node{code}
	case document.KindLink:
		a := element("a", attr("href", n.Destination()))
		if n.Title() != "" {
			a.Attr = append(a.Attr, attr("title", n.Title()))
		}
		return wrap(a, false)
	case document.KindImage:
		return []*html.Node{element("img", attr("src", n.Destination()), attr("alt", n.Literal()))}
	case document.KindReference:
		return []*html.Node{textNode(n.Reference().Literal())}
	default:
		return convertChildren(n, false)
	}
}
