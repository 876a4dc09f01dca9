package render

import (
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/ppiankov/releasediff/internal/present"
)

// headingProps maps h1..h6 to presentation headings one level down
var headingProps = map[string]present.Props{
	"h1": {As: "h2", Size: "xl", MarginBottom: 4},
	"h2": {As: "h3", Size: "lg", MarginBottom: 4},
	"h3": {As: "h4", Size: "md", MarginBottom: 4},
	"h4": {As: "h5", Size: "sm", MarginBottom: 4},
	"h5": {As: "h6", Size: "xs", MarginBottom: 2},
	"h6": {As: "h6", Size: "xs", MarginBottom: 2},
}

// dropped elements never reach the presentation tree, not even their text
var dropped = map[string]bool{
	"script":   true,
	"style":    true,
	"iframe":   true,
	"object":   true,
	"embed":    true,
	"template": true,
}

// toPresentation maps an HTML tree onto presentation primitives
func toPresentation(root *html.Node) *present.Node {
	return &present.Node{
		Primitive: present.Box,
		Children:  presentChildren(root),
	}
}

func presentChildren(n *html.Node) []*present.Node {
	var out []*present.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, presentNode(c)...)
	}
	return out
}

func presentNode(n *html.Node) []*present.Node {
	switch n.Type {
	case html.TextNode:
		if n.Data == "" {
			return nil
		}
		return []*present.Node{{Primitive: present.Plain, Text: n.Data}}
	case html.ElementNode:
	case html.DocumentNode:
		return presentChildren(n)
	default:
		return nil
	}

	wrap := func(p present.Primitive, props present.Props) []*present.Node {
		return []*present.Node{{Primitive: p, Props: props, Children: presentChildren(n)}}
	}

	if props, ok := headingProps[n.Data]; ok {
		return wrap(present.Heading, props)
	}

	switch n.Data {
	case "p":
		return wrap(present.Text, present.Props{MarginBottom: 2})
	case "a":
		href, ok := safeURL(attrOf(n, "href"))
		if !ok {
			return presentChildren(n)
		}
		return wrap(present.Link, present.Props{Href: href, Title: attrOf(n, "title")})
	case "img":
		return presentImage(n)
	case "ul":
		return wrap(present.List, present.Props{StyleType: "disc", MarginBottom: 4})
	case "ol":
		start, _ := strconv.Atoi(attrOf(n, "start"))
		return wrap(present.List, present.Props{StyleType: "decimal", MarginBottom: 4, Start: start})
	case "li":
		return wrap(present.ListItem, present.Props{})
	case "pre":
		return wrap(present.Code, present.Props{As: "pre", MarginBottom: 4, Padding: 3})
	case "code":
		return wrap(present.Code, present.Props{Class: classOf(n)})
	case "blockquote":
		return wrap(present.BlockQuote, present.Props{MarginBottom: 2})
	case "em":
		return wrap(present.Emphasis, present.Props{})
	case "strong":
		return wrap(present.Strong, present.Props{})
	case "del":
		return wrap(present.Strikethrough, present.Props{})
	case "br":
		return []*present.Node{{Primitive: present.Break}}
	case "hr":
		return []*present.Node{{Primitive: present.Divider}}
	case "span":
		return wrap(present.Token, present.Props{Class: classOf(n)})
	}

	if dropped[n.Data] {
		return nil
	}
	return presentChildren(n)
}

// presentImage shows an image as a link to its source, labelled with the
// alt text
func presentImage(n *html.Node) []*present.Node {
	src, ok := safeURL(attrOf(n, "src"))
	alt := attrOf(n, "alt")
	if !ok {
		if alt == "" {
			return nil
		}
		return []*present.Node{{Primitive: present.Plain, Text: alt}}
	}
	if alt == "" {
		alt = src
	}
	return []*present.Node{{
		Primitive: present.Link,
		Props:     present.Props{Href: src},
		Children:  []*present.Node{{Primitive: present.Plain, Text: alt}},
	}}
}

// safeURL accepts relative URLs and the http, https and mailto schemes
func safeURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https", "mailto":
		return raw, true
	}
	return "", false
}

func attrOf(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
