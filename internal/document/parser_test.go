package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(nodes []*Node) []Kind {
	out := make([]Kind, len(nodes))
	for i, n := range nodes {
		out[i] = n.Kind()
	}
	return out
}

func TestParser_Blocks(t *testing.T) {
	src := "# Title\n\nSome *text* here.\n\n- one\n- two\n\n```go\nfunc main() {}\n```\n\n> quoted\n\n---\n"

	doc := NewParser().Parse(src)
	require.Equal(t, KindDocument, doc.Kind())

	assert.Equal(t, []Kind{
		KindHeading, KindParagraph, KindList, KindCodeBlock, KindBlockQuote, KindThematicBreak,
	}, kinds(doc.Children()))

	heading := doc.Child(0)
	assert.Equal(t, 1, heading.Level())
	assert.Equal(t, "Title", PlainText(heading))

	para := doc.Child(1)
	assert.Equal(t, []Kind{KindText, KindEmphasis, KindText}, kinds(para.Children()))

	list := doc.Child(2)
	assert.False(t, list.Ordered())
	assert.True(t, list.Tight())
	assert.Equal(t, 2, list.ChildCount())

	code := doc.Child(3)
	assert.Equal(t, "go", code.Language())
	assert.Equal(t, "func main() {}\n", code.Literal())
}

func TestParser_OrderedList(t *testing.T) {
	doc := NewParser().Parse("3. first\n4. second\n")

	list := doc.Child(0)
	require.Equal(t, KindList, list.Kind())
	assert.True(t, list.Ordered())
	assert.Equal(t, 3, list.Start())
}

func TestParser_Inlines(t *testing.T) {
	doc := NewParser().Parse("**bold** ~~gone~~ `code` [link](https://example.com \"t\") ![alt](img.png)")
	para := doc.Child(0)

	var found []Kind
	for _, c := range para.Children() {
		if c.Kind() != KindText {
			found = append(found, c.Kind())
		}
	}
	assert.Equal(t, []Kind{KindStrong, KindStrikethrough, KindCodeSpan, KindLink, KindImage}, found)

	for _, c := range para.Children() {
		switch c.Kind() {
		case KindLink:
			assert.Equal(t, "https://example.com", c.Destination())
			assert.Equal(t, "t", c.Title())
			assert.Equal(t, "link", PlainText(c))
		case KindImage:
			assert.Equal(t, "img.png", c.Destination())
			assert.Equal(t, "alt", c.Literal())
		case KindCodeSpan:
			assert.Equal(t, "code", c.Literal())
		}
	}
}

func TestParser_DropsRawHTML(t *testing.T) {
	doc := NewParser().Parse("<script>alert(1)</script>\n\ntext <b>bold</b>\n")

	assert.NotContains(t, PlainText(doc), "alert")
	assert.NotContains(t, PlainText(doc), "<b>")
	assert.Contains(t, PlainText(doc), "bold")
}

func TestParser_References(t *testing.T) {
	doc := NewParser().Parse("Fixed #12 and acme/widgets#7, thanks @octo-cat (a1b2c3d)")
	para := doc.Child(0)

	var refs []Reference
	for _, c := range para.Children() {
		if c.Kind() == KindReference {
			refs = append(refs, c.Reference())
		}
	}

	assert.Equal(t, []Reference{
		{Kind: RefIssue, Value: "12"},
		{Kind: RefIssue, Owner: "acme", Repo: "widgets", Value: "7"},
		{Kind: RefMention, Value: "octo-cat"},
		{Kind: RefCommit, Value: "a1b2c3d"},
	}, refs)
	assert.Equal(t, "Fixed #12 and acme/widgets#7, thanks @octo-cat (a1b2c3d)", PlainText(para))
}

func TestParser_NoReferencesInLinksOrCode(t *testing.T) {
	doc := NewParser().Parse("[see #12](https://example.com) `#13` and mail me@example.com")

	Walk(doc, func(n *Node) bool {
		assert.NotEqual(t, KindReference, n.Kind(), "unexpected reference %q", n.Reference().Literal())
		return true
	})
}

func TestParser_Total(t *testing.T) {
	inputs := []string{
		"",
		"```\nunterminated fence",
		"[broken link(",
		"####### seven hashes",
		"* * *\n- \n-",
		"\x00\xff\xfe",
	}

	p := NewParser()
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			doc := p.Parse(in)
			assert.Equal(t, KindDocument, doc.Kind())
		}, "input %q", in)
	}
}

func TestPlainDocument(t *testing.T) {
	doc := plainDocument("first\nline\n\n  \n\nsecond")
	require.Equal(t, 2, doc.ChildCount())
	assert.Equal(t, "first\nline", PlainText(doc.Child(0)))
	assert.Equal(t, "second", PlainText(doc.Child(1)))
}
