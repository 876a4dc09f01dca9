package present

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
)

// TextOptions controls terminal output
type TextOptions struct {
	NoColor bool
}

type palette struct {
	heading *color.Color
	link    *color.Color
	code    *color.Color
	strong  *color.Color
	emph    *color.Color
	strike  *color.Color
	quote   *color.Color
	keyword *color.Color
	str     *color.Color
	comment *color.Color
	number  *color.Color
}

func newPalette(noColor bool) palette {
	p := palette{
		heading: color.New(color.Bold, color.Underline),
		link:    color.New(color.FgCyan, color.Underline),
		code:    color.New(color.FgYellow),
		strong:  color.New(color.Bold),
		emph:    color.New(color.Italic),
		strike:  color.New(color.CrossedOut),
		quote:   color.New(color.FgHiBlack),
		keyword: color.New(color.FgMagenta),
		str:     color.New(color.FgGreen),
		comment: color.New(color.FgHiBlack, color.Italic),
		number:  color.New(color.FgCyan),
	}
	if noColor {
		for _, c := range []*color.Color{
			p.heading, p.link, p.code, p.strong, p.emph, p.strike,
			p.quote, p.keyword, p.str, p.comment, p.number,
		} {
			c.DisableColor()
		}
	}
	return p
}

// tokenColor picks a color from chroma-style short class names
func (p palette) tokenColor(class string) *color.Color {
	for _, cls := range strings.Fields(class) {
		switch {
		case cls == "hljs":
			continue
		case strings.HasPrefix(cls, "k"):
			return p.keyword
		case strings.HasPrefix(cls, "s"):
			return p.str
		case strings.HasPrefix(cls, "c"):
			return p.comment
		case strings.HasPrefix(cls, "m"):
			return p.number
		}
	}
	return nil
}

// WriteText writes the tree as terminal text
func WriteText(w io.Writer, n *Node, opts TextOptions) error {
	if n == nil {
		return nil
	}

	tw := &textWriter{p: newPalette(opts.NoColor)}
	tw.block(n, "")

	out := strings.TrimRight(tw.b.String(), "\n")
	if out == "" {
		return nil
	}
	if _, err := io.WriteString(w, out+"\n"); err != nil {
		return fmt.Errorf("write text: %w", err)
	}
	return nil
}

type textWriter struct {
	b strings.Builder
	p palette
}

// emit writes s line by line, prefixing the first line with first and the
// remaining lines with rest
func (tw *textWriter) emit(first, rest, s string) {
	for i, line := range strings.Split(s, "\n") {
		prefix := rest
		if i == 0 {
			prefix = first
		}
		if line == "" {
			tw.b.WriteString(strings.TrimRight(prefix, " "))
		} else {
			tw.b.WriteString(prefix)
			tw.b.WriteString(line)
		}
		tw.b.WriteByte('\n')
	}
}

// gap separates blocks with a single blank line
func (tw *textWriter) gap() {
	s := tw.b.String()
	if s == "" || strings.HasSuffix(s, "\n\n") {
		return
	}
	tw.b.WriteByte('\n')
}

func (tw *textWriter) blocks(children []*Node, indent string) {
	var run []*Node
	flush := func() {
		if len(run) > 0 {
			tw.emit(indent, indent, tw.inlines(run))
			run = nil
		}
	}

	for _, c := range children {
		if c.IsBlock() {
			flush()
			tw.block(c, indent)
			continue
		}
		run = append(run, c)
	}
	flush()
}

func (tw *textWriter) block(n *Node, indent string) {
	switch n.Primitive {
	case Box:
		tw.blocks(n.Children, indent)

	case Heading:
		tw.emit(indent, indent, tw.p.heading.Sprint(tw.inlines(n.Children)))
		tw.gap()

	case Text:
		tw.emit(indent, indent, tw.inlines(n.Children))
		tw.gap()

	case List:
		start := max(n.Props.Start, 1)
		for i, item := range n.Children {
			marker := "• "
			if n.Props.StyleType == "decimal" {
				marker = fmt.Sprintf("%d. ", start+i)
			}
			tw.item(item, indent, marker)
		}
		tw.gap()

	case ListItem:
		tw.item(n, indent, "• ")

	case Code:
		if !n.IsPreformatted() {
			tw.emit(indent, indent, tw.inline(n))
			return
		}
		code := strings.TrimRight(tw.codeText(n.Children), "\n")
		tw.emit(indent+"    ", indent+"    ", code)
		tw.gap()

	case BlockQuote:
		sub := &textWriter{p: tw.p}
		sub.blocks(n.Children, "")
		bar := tw.p.quote.Sprint("│") + " "
		tw.emit(indent+bar, indent+bar, strings.TrimRight(sub.b.String(), "\n"))
		tw.gap()

	case Divider:
		tw.emit(indent, indent, strings.Repeat("─", 8))
		tw.gap()

	default:
		tw.emit(indent, indent, tw.inline(n))
	}
}

func (tw *textWriter) item(item *Node, indent, marker string) {
	pad := strings.Repeat(" ", utf8.RuneCountInString(marker))
	first := true
	write := func(s string) {
		if first {
			tw.emit(indent+marker, indent+pad, s)
			first = false
			return
		}
		tw.emit(indent+pad, indent+pad, s)
	}

	var run []*Node
	for _, c := range item.Children {
		if !c.IsBlock() {
			run = append(run, c)
			continue
		}
		if len(run) > 0 {
			write(tw.inlines(run))
			run = nil
		}
		sub := &textWriter{p: tw.p}
		sub.block(c, "")
		write(strings.TrimRight(sub.b.String(), "\n"))
	}
	if len(run) > 0 || first {
		write(tw.inlines(run))
	}
}

func (tw *textWriter) inlines(nodes []*Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		sb.WriteString(tw.inline(n))
	}
	return sb.String()
}

func (tw *textWriter) inline(n *Node) string {
	switch n.Primitive {
	case Plain:
		return n.Text
	case Link:
		label := tw.inlines(n.Children)
		s := tw.p.link.Sprint(label)
		if href := n.Props.Href; href != "" && href != label && "mailto:"+label != href {
			s += " <" + href + ">"
		}
		return s
	case Code:
		return tw.p.code.Sprint(tw.plainCode(n.Children))
	case Emphasis:
		return tw.p.emph.Sprint(tw.inlines(n.Children))
	case Strong:
		return tw.p.strong.Sprint(tw.inlines(n.Children))
	case Strikethrough:
		return tw.p.strike.Sprint(tw.inlines(n.Children))
	case Break:
		return "\n"
	case Token:
		return tw.token(n)
	default:
		return tw.inlines(n.Children)
	}
}

// codeText renders the content of a preformatted block with token colors
func (tw *textWriter) codeText(nodes []*Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		switch n.Primitive {
		case Plain:
			sb.WriteString(n.Text)
		case Token:
			sb.WriteString(tw.token(n))
		default:
			sb.WriteString(tw.codeText(n.Children))
		}
	}
	return sb.String()
}

// plainCode renders inline code content without token colors
func (tw *textWriter) plainCode(nodes []*Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		if n.Primitive == Plain {
			sb.WriteString(n.Text)
			continue
		}
		sb.WriteString(tw.plainCode(n.Children))
	}
	return sb.String()
}

// token colors each line separately so prefixes added later stay uncolored
func (tw *textWriter) token(n *Node) string {
	text := tw.codeText(n.Children)
	c := tw.p.tokenColor(n.Props.Class)
	if c == nil {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = c.Sprint(l)
		}
	}
	return strings.Join(lines, "\n")
}
