package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ppiankov/releasediff/internal/cache"
	"github.com/ppiankov/releasediff/internal/model"
	"github.com/ppiankov/releasediff/internal/render"
)

// Renderer renders a single change entry
type Renderer interface {
	Render(ctx context.Context, entry model.ChangeEntry, repo model.RepositoryContext) (render.Result, error)
}

// RenderJob renders one entry for a registered generation
type RenderJob struct {
	Entry      model.ChangeEntry
	Repo       model.RepositoryContext
	Generation uint64
	Renderer   Renderer
	Store      cache.Store
	Limiter    *Limiter
}

// Execute renders the entry and publishes the result. A job whose
// generation was superseded before it started does no work.
func (j *RenderJob) Execute(ctx context.Context) Result {
	out := &RenderResult{EntryID: j.Entry.ID, Generation: j.Generation}

	if !j.current() {
		out.Stale = true
		return out
	}

	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx, j.Repo.URL); err != nil {
			j.Store.Abandon(j.Entry.ID, j.Generation)
			out.Error = fmt.Errorf("wait for %s: %w", j.Entry.ID, err)
			return out
		}
	}

	res, err := j.Renderer.Render(ctx, j.Entry, j.Repo)
	if err != nil {
		j.Store.Abandon(j.Entry.ID, j.Generation)
		out.Error = fmt.Errorf("render %s: %w", j.Entry.ID, err)
		return out
	}

	out.Result = res
	out.Published = j.Store.Publish(j.Entry.ID, j.Generation, res)
	out.Stale = !out.Published
	return out
}

func (j *RenderJob) current() bool {
	slot, ok := j.Store.Get(j.Entry.ID)
	return ok && slot.Generation == j.Generation
}

// RenderResult is the outcome of a render job
type RenderResult struct {
	EntryID    string
	Generation uint64
	Result     render.Result
	Published  bool // Stored as the entry's current result
	Stale      bool // Superseded by a newer run
	Error      error
}

// GetError returns the job error
func (r *RenderResult) GetError() error {
	return r.Error
}

// BatchProcessor renders many entries concurrently
type BatchProcessor struct {
	renderer    Renderer
	store       cache.Store
	limiter     *Limiter
	concurrency int
	log         *slog.Logger
}

// NewBatchProcessor creates a batch processor. limiter may be nil.
func NewBatchProcessor(renderer Renderer, store cache.Store, limiter *Limiter, concurrency int, log *slog.Logger) *BatchProcessor {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &BatchProcessor{
		renderer:    renderer,
		store:       store,
		limiter:     limiter,
		concurrency: concurrency,
		log:         log,
	}
}

// Process registers a run for each entry and renders the ones whose input
// changed. Results come back in entry order; entries already registered
// with the same input are not rendered again and have no result.
func (b *BatchProcessor) Process(ctx context.Context, entries []model.ChangeEntry, repo model.RepositoryContext) []*RenderResult {
	if len(entries) == 0 {
		return []*RenderResult{}
	}

	var jobs []*RenderJob
	for _, e := range entries {
		gen, started := b.store.Begin(e.ID, cache.Fingerprint(e.Document, repo.URL))
		if !started {
			b.log.Debug("render up to date", "entry", e.ID, "generation", gen)
			continue
		}
		jobs = append(jobs, &RenderJob{
			Entry:      e,
			Repo:       repo,
			Generation: gen,
			Renderer:   b.renderer,
			Store:      b.store,
			Limiter:    b.limiter,
		})
	}
	if len(jobs) == 0 {
		return []*RenderResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()
	stop := context.AfterFunc(ctx, pool.Shutdown)
	defer stop()

	for _, job := range jobs {
		if err := pool.Submit(job); err != nil {
			b.store.Abandon(job.Entry.ID, job.Generation)
			b.log.Warn("render not scheduled", "entry", job.Entry.ID, "error", err)
		}
	}

	byID := make(map[string]*RenderResult, len(jobs))
	for _, r := range pool.Wait() {
		rr, ok := r.(*RenderResult)
		if !ok {
			b.log.Error("render job failed", "error", r.GetError())
			continue
		}
		if rr.Error != nil {
			b.log.Warn("render failed", "entry", rr.EntryID, "error", rr.Error)
		}
		byID[rr.EntryID] = rr
	}

	out := make([]*RenderResult, 0, len(byID))
	for _, job := range jobs {
		rr, ok := byID[job.Entry.ID]
		if !ok {
			b.store.Abandon(job.Entry.ID, job.Generation)
			continue
		}
		out = append(out, rr)
	}
	return out
}
