package cli

import (
	"encoding/json"
	"io"

	"github.com/ppiankov/releasediff/internal/cache"
	"github.com/ppiankov/releasediff/internal/model"
	"github.com/ppiankov/releasediff/internal/pipeline"
	"github.com/ppiankov/releasediff/internal/present"
)

const (
	formatText = "text"
	formatHTML = "html"
	formatJSON = "json"
)

// resultSource looks up the render state of an entry
type resultSource interface {
	Result(id string) (cache.Slot, bool)
}

// writeChangelog writes the changelog page in the configured format
func writeChangelog(w io.Writer, results resultSource, cl *pipeline.Changelog, out model.OutputConfig) error {
	page := changelogPage(results, cl)

	switch out.Format {
	case formatHTML:
		return present.WriteHTML(w, page)
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(page)
	default:
		return present.WriteText(w, page, present.TextOptions{NoColor: out.NoColor})
	}
}

// changelogPage assembles the title, header, groups and entry trees into a
// single presentation tree
func changelogPage(results resultSource, cl *pipeline.Changelog) *present.Node {
	page := &present.Node{Primitive: present.Box}
	add := func(n *present.Node) { page.Children = append(page.Children, n) }

	if cl.Repository.Name != "" {
		add(heading("h1", "2xl", present.RepositoryTitle(cl.Repository.Name)))
	}
	add(paragraph(plain(cl.Header())))

	if !cl.HasSelection() || len(cl.Groups) == 0 {
		add(paragraph(plain(cl.EmptyMessage())))
		return page
	}

	for _, g := range cl.Groups {
		add(heading("h2", "xl", g.Category.Title()))
		for _, e := range g.Entries {
			add(paragraph(&present.Node{Primitive: present.Strong, Children: []*present.Node{plain(entryLabel(e))}}))
			add(entryTree(results, e))
		}
	}
	return page
}

// entryLabel names the release an entry came from. Well-known categories
// also show the section title as written.
func entryLabel(e model.ChangeEntry) string {
	label := e.TagName
	switch {
	case e.IsDraft:
		label += " (draft)"
	case e.IsPrerelease:
		label += " (pre-release)"
	}
	if !e.Category.IsCustom() && e.OriginalTitle != "" && e.OriginalTitle != e.Title {
		label += " · " + e.OriginalTitle
	}
	return label
}

func entryTree(results resultSource, e model.ChangeEntry) *present.Node {
	slot, ok := results.Result(e.ID)
	if !ok || slot.State == cache.StateProcessing || slot.Result.Tree == nil {
		return paragraph(plain("Not rendered"))
	}
	return slot.Result.Tree
}

func heading(as, size, text string) *present.Node {
	return &present.Node{
		Primitive: present.Heading,
		Props:     present.Props{As: as, Size: size, MarginBottom: 4},
		Children:  []*present.Node{plain(text)},
	}
}

func paragraph(children ...*present.Node) *present.Node {
	return &present.Node{
		Primitive: present.Text,
		Props:     present.Props{MarginBottom: 2},
		Children:  children,
	}
}

func plain(s string) *present.Node {
	return &present.Node{Primitive: present.Plain, Text: s}
}
