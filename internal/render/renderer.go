// Package render turns a change entry's document tree into a presentation
// tree through a fixed sequence of stages. A failing stage is skipped and
// recorded; rendering itself never fails.
package render

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/net/html"

	"github.com/ppiankov/releasediff/internal/document"
	"github.com/ppiankov/releasediff/internal/model"
	"github.com/ppiankov/releasediff/internal/present"
)

// Stage names one step of the render pipeline
type Stage string

const (
	StageResolve   Stage = "resolve"
	StageConvert   Stage = "convert"
	StageHighlight Stage = "highlight"
	StagePresent   Stage = "present"
)

// Options configures a Renderer
type Options struct {
	DetectLanguage bool // Guess the language of code blocks without one
}

// Result is the outcome of rendering one entry
type Result struct {
	Tree     *present.Node
	Degraded []Stage // Stages that were skipped
	Issues   []string
}

// IsDegraded reports whether any stage was skipped
func (r Result) IsDegraded() bool {
	return len(r.Degraded) > 0
}

// Renderer runs the render stages for single entries. It holds no
// per-entry state and is safe for concurrent use.
type Renderer struct {
	opts Options
	log  *slog.Logger
}

// NewRenderer creates a renderer. A nil logger discards output.
func NewRenderer(opts Options, log *slog.Logger) *Renderer {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Renderer{opts: opts, log: log}
}

// Render runs every stage over the entry's document. The only error is the
// context's, returned when it is done before rendering starts.
func (r *Renderer) Render(ctx context.Context, entry model.ChangeEntry, repo model.RepositoryContext) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	run := &run{entry: entry.ID, log: r.log}
	doc := entry.Document
	if doc == nil {
		doc = document.NewDocument()
	}

	doc = run.resolve(doc, repo)
	tree := run.convert(doc)
	run.highlight(tree, r.opts.DetectLanguage)
	out := run.present(tree, doc)

	return Result{Tree: out, Degraded: run.degraded, Issues: run.issues}, nil
}

// run collects the outcome of one Render call
type run struct {
	entry    string
	log      *slog.Logger
	degraded []Stage
	issues   []string
}

func (r *run) fail(stage Stage, err error) {
	r.degraded = append(r.degraded, stage)
	r.issues = append(r.issues, fmt.Sprintf("%s: %v", stage, err))
	r.log.Debug("render stage degraded", "entry", r.entry, "stage", string(stage), "error", err)
}

// issue records a problem that did not stop the stage
func (r *run) issue(stage Stage, err error) {
	r.issues = append(r.issues, fmt.Sprintf("%s: %v", stage, err))
	r.log.Debug("render issue", "entry", r.entry, "stage", string(stage), "error", err)
}

// guard runs fn and turns a panic into a stage failure
func (r *run) guard(stage Stage, fn func() error) (ok bool) {
	defer func() {
		if p := recover(); p != nil {
			r.fail(stage, fmt.Errorf("panic: %v", p))
			ok = false
		}
	}()
	if err := fn(); err != nil {
		r.fail(stage, err)
		return false
	}
	return true
}

func (r *run) resolve(doc *document.Node, repo model.RepositoryContext) *document.Node {
	resolved := doc
	r.guard(StageResolve, func() error {
		res, err := newResolver(repo.URL)
		if err != nil {
			return err
		}
		resolved = res.Resolve(doc)
		return nil
	})
	return resolved
}

func (r *run) convert(doc *document.Node) *html.Node {
	var tree *html.Node
	if r.guard(StageConvert, func() error {
		tree = toHTML(doc)
		return nil
	}) {
		return tree
	}

	// text-only fallback
	root := &html.Node{Type: html.DocumentNode}
	p := element("p")
	p.AppendChild(textNode(document.PlainText(doc)))
	root.AppendChild(p)
	return root
}

func (r *run) highlight(tree *html.Node, detect bool) {
	r.guard(StageHighlight, func() error {
		for _, err := range (highlighter{detect: detect}).Highlight(tree) {
			r.issue(StageHighlight, err)
		}
		return nil
	})
}

func (r *run) present(tree *html.Node, doc *document.Node) *present.Node {
	var out *present.Node
	if r.guard(StagePresent, func() error {
		out = toPresentation(tree)
		return nil
	}) {
		return out
	}

	return &present.Node{
		Primitive: present.Box,
		Children: []*present.Node{{
			Primitive: present.Text,
			Children:  []*present.Node{{Primitive: present.Plain, Text: document.PlainText(doc)}},
		}},
	}
}
