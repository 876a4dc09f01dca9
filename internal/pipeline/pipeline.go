// Package pipeline turns a release list and a version range into an ordered
// changelog and renders its entries.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/ppiankov/releasediff/internal/cache"
	"github.com/ppiankov/releasediff/internal/classify"
	"github.com/ppiankov/releasediff/internal/document"
	"github.com/ppiankov/releasediff/internal/group"
	"github.com/ppiankov/releasediff/internal/model"
	"github.com/ppiankov/releasediff/internal/render"
	"github.com/ppiankov/releasediff/internal/version"
	"github.com/ppiankov/releasediff/internal/worker"
)

// State is the caller-visible state of a changelog
type State int

const (
	StateNoSelection State = iota // Range incomplete, or nothing in it
	StateProcessing               // Some entries have no published result yet
	StateReady                    // Every entry has a published result
)

func (s State) String() string {
	switch s {
	case StateNoSelection:
		return "no selection"
	case StateProcessing:
		return "processing"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Group is one category heading with its entries, newest release first
type Group struct {
	Category model.Category
	Entries  []model.ChangeEntry
}

// Changelog is the grouped, ordered result of one range selection
type Changelog struct {
	Repository model.RepositoryContext
	Range      model.VersionRange
	Releases   []model.Release // Selected releases, newest first
	Groups     []Group         // In display order
}

// HasSelection reports whether the range selected any release.
// An incomplete range and an empty one are not told apart.
func (c *Changelog) HasSelection() bool {
	return c.Range.IsSelected() && len(c.Releases) > 0
}

// Header describes the comparison
func (c *Changelog) Header() string {
	if !c.Range.IsSelected() {
		return "No releases selected to compare"
	}
	return fmt.Sprintf("Comparing releases from %s to %s", c.Range.From, c.Range.To)
}

// EmptyMessage is shown in place of groups when there are none
func (c *Changelog) EmptyMessage() string {
	return "No processed releases to show"
}

// Entries returns every entry in display order
func (c *Changelog) Entries() []model.ChangeEntry {
	var out []model.ChangeEntry
	for _, g := range c.Groups {
		out = append(out, g.Entries...)
	}
	return out
}

// Pipeline wires the parser, classifier, ordering policy and renderer
type Pipeline struct {
	parser     *document.Parser
	classifier *classify.Classifier
	policy     *group.Policy
	store      *cache.ResultStore
	batch      *worker.BatchProcessor
	config     *model.Config
	log        *slog.Logger
}

// NewPipeline creates a pipeline with the given configuration. A nil logger
// discards output.
func NewPipeline(cfg *model.Config, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	renderer := render.NewRenderer(render.Options{DetectLanguage: cfg.Render.DetectLanguage}, log)
	store := cache.NewResultStore(cfg.Cache.TTL, cfg.Cache.CleanupInterval)
	limiter := worker.NewLimiter(cfg.Render.RateLimit, cfg.Render.Burst)
	for host, perSecond := range cfg.Render.HostRates {
		limiter.SetHostRate(host, perSecond, cfg.Render.Burst)
	}

	return &Pipeline{
		parser:     document.NewParser(),
		classifier: classify.NewClassifier(),
		policy:     group.NewPolicy(cfg.Groups.HighPriority, cfg.Groups.LowPriority),
		store:      store,
		batch:      worker.NewBatchProcessor(renderer, store, limiter, cfg.Render.Workers, log),
		config:     cfg,
		log:        log,
	}
}

// Build filters, parses, classifies, groups and orders the releases of a
// range. It does not render.
func (p *Pipeline) Build(repo model.RepositoryContext, releases []model.Release, rng model.VersionRange) *Changelog {
	cl := &Changelog{Repository: repo, Range: rng}
	if !rng.IsSelected() {
		p.log.Debug("no range selected")
		return cl
	}

	cl.Releases = version.FilterByRange(withUniqueIDs(releases), rng)
	p.log.Debug("releases selected", "from", rng.From, "to", rng.To, "count", len(cl.Releases))

	var entries []model.ChangeEntry
	for _, r := range cl.Releases {
		doc := p.parser.Parse(r.Description)
		entries = append(entries, p.classifier.Entries(r, doc)...)
	}

	collection := group.Fold(entries)
	for _, category := range p.policy.Order(collection) {
		cl.Groups = append(cl.Groups, Group{
			Category: category,
			Entries:  collection.Entries(category),
		})
	}
	return cl
}

// withUniqueIDs returns a copy of releases where every ID is set and
// distinct. A missing ID becomes "<tag>@<position>"; a repeated one gets a
// "#n" suffix. Entry IDs derive from release IDs, so they stay unique too.
func withUniqueIDs(releases []model.Release) []model.Release {
	out := make([]model.Release, len(releases))
	seen := make(map[string]bool, len(releases))
	for i, r := range releases {
		id := r.ID
		if id == "" {
			id = r.TagName + "@" + strconv.Itoa(i)
		}
		for n, base := 1, id; seen[id]; n++ {
			id = base + "#" + strconv.Itoa(n)
		}
		seen[id] = true

		r.ID = id
		out[i] = r
	}
	return out
}

// Render renders every entry of the changelog whose input changed since
// its last run and returns the results of the runs it started
func (p *Pipeline) Render(ctx context.Context, cl *Changelog) []*worker.RenderResult {
	results := p.batch.Process(ctx, cl.Entries(), cl.Repository)
	p.log.Debug("render batch finished", "runs", len(results), "slots", p.store.Len())
	return results
}

// Result returns the stored render state of an entry
func (p *Pipeline) Result(id string) (cache.Slot, bool) {
	return p.store.Get(id)
}

// State reports the caller-visible state of a changelog
func (p *Pipeline) State(cl *Changelog) State {
	if !cl.HasSelection() {
		return StateNoSelection
	}
	for _, e := range cl.Entries() {
		slot, ok := p.store.Get(e.ID)
		if !ok || slot.State == cache.StateProcessing {
			return StateProcessing
		}
	}
	return StateReady
}
