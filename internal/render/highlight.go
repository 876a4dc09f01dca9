package render

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"golang.org/x/net/html"
)

const highlightClass = "hljs"

// highlighter annotates code elements with token spans
type highlighter struct {
	detect bool // guess the language of blocks that declare none
}

// Highlight walks the tree in place and returns the problems it skipped
func (h highlighter) Highlight(root *html.Node) []error {
	var issues []error
	var walk func(n *html.Node, inPre bool)
	walk = func(n *html.Node, inPre bool) {
		if n.Type == html.ElementNode && n.Data == "code" {
			if !inPre {
				return
			}
			if err := h.block(n); err != nil {
				issues = append(issues, err)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, inPre || (n.Type == html.ElementNode && n.Data == "pre"))
		}
	}
	walk(root, false)
	return issues
}

// block tokenizes the text of a pre > code element
func (h highlighter) block(code *html.Node) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("highlight code block: %v", r)
		}
	}()

	source := textOf(code)
	lang := declaredLanguage(code)

	var lexer chroma.Lexer
	if lang != "" {
		lexer = lexers.Get(lang)
	}
	if lexer == nil && lang == "" && h.detect {
		lexer = lexers.Analyse(source)
		if lexer != nil {
			addClass(code, "language-"+lexerName(lexer))
		}
	}
	if lexer == nil {
		if lang != "" {
			return fmt.Errorf("highlight code block: unknown language %q", lang)
		}
		return nil
	}

	it, err := chroma.Coalesce(lexer).Tokenise(nil, source)
	if err != nil {
		return fmt.Errorf("tokenise %s: %w", lexerName(lexer), err)
	}

	spans := tokenNodes(it.Tokens(), source)
	for c := code.FirstChild; c != nil; {
		next := c.NextSibling
		code.RemoveChild(c)
		c = next
	}
	for _, s := range spans {
		code.AppendChild(s)
	}
	addClass(code, highlightClass)
	return nil
}

// tokenNodes turns tokens into span and text nodes. Lexers may append a
// final newline the source did not have; it is dropped.
func tokenNodes(tokens []chroma.Token, source string) []*html.Node {
	var out []*html.Node
	total := 0
	for _, tok := range tokens {
		value := tok.Value
		if total+len(value) > len(source) {
			value = value[:max(len(source)-total, 0)]
		}
		total += len(value)
		if value == "" {
			continue
		}

		cls := tokenClass(tok.Type)
		if cls == "" {
			out = append(out, textNode(value))
			continue
		}
		span := element("span", attr("class", cls))
		span.AppendChild(textNode(value))
		out = append(out, span)
	}
	return out
}

// tokenClass returns the short CSS class of a token type, falling back to
// its sub-category and category
func tokenClass(t chroma.TokenType) string {
	for _, tt := range []chroma.TokenType{t, t.SubCategory(), t.Category()} {
		if cls, ok := chroma.StandardTypes[tt]; ok && cls != "" {
			return cls
		}
	}
	return ""
}

func lexerName(l chroma.Lexer) string {
	cfg := l.Config()
	if len(cfg.Aliases) > 0 {
		return cfg.Aliases[0]
	}
	return strings.ToLower(cfg.Name)
}

func declaredLanguage(n *html.Node) string {
	for _, cls := range strings.Fields(classOf(n)) {
		if lang, ok := strings.CutPrefix(cls, "language-"); ok {
			return lang
		}
	}
	return ""
}

func classOf(n *html.Node) string {
	for _, a := range n.Attr {
		if a.Key == "class" {
			return a.Val
		}
	}
	return ""
}

// addClass appends cls to the element's class list unless already present
func addClass(n *html.Node, cls string) {
	for i, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		fields := strings.Fields(a.Val)
		for _, f := range fields {
			if f == cls {
				return
			}
		}
		n.Attr[i].Val = strings.Join(append([]string{cls}, fields...), " ")
		return
	}
	n.Attr = append(n.Attr, attr("class", cls))
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
