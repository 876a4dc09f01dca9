package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/releasediff/internal/cache"
	"github.com/ppiankov/releasediff/internal/document"
	"github.com/ppiankov/releasediff/internal/model"
	"github.com/ppiankov/releasediff/internal/present"
	"github.com/ppiankov/releasediff/internal/render"
)

var repo = model.RepositoryContext{Name: "widget", URL: "https://github.com/acme/widget"}

// fakeRenderer echoes the document text into a presentation tree
type fakeRenderer struct {
	calls atomic.Int32
	err   error
	hook  func(entry model.ChangeEntry)
	block bool // wait for cancellation
}

func (f *fakeRenderer) Render(ctx context.Context, entry model.ChangeEntry, _ model.RepositoryContext) (render.Result, error) {
	f.calls.Add(1)
	if f.hook != nil {
		f.hook(entry)
	}
	if f.block {
		<-ctx.Done()
		return render.Result{}, ctx.Err()
	}
	if f.err != nil {
		return render.Result{}, f.err
	}
	return render.Result{Tree: &present.Node{
		Primitive: present.Box,
		Children:  []*present.Node{{Primitive: present.Plain, Text: document.PlainText(entry.Document)}},
	}}, nil
}

func entries(texts ...string) []model.ChangeEntry {
	out := make([]model.ChangeEntry, len(texts))
	for i, s := range texts {
		out[i] = model.ChangeEntry{
			ID:       "r" + string(rune('0'+i)) + "/0",
			Document: document.NewDocument(document.NewParagraph(document.NewText(s))),
		}
	}
	return out
}

func TestBatchProcessor_Process(t *testing.T) {
	r := &fakeRenderer{}
	store := cache.NewResultStore(0, 0)
	b := NewBatchProcessor(r, store, NewLimiter(0, 1), 3, nil)

	results := b.Process(context.Background(), entries("a", "b", "c", "d"), repo)

	require.Len(t, results, 4)
	for i, res := range results {
		assert.Equal(t, entries("a", "b", "c", "d")[i].ID, res.EntryID)
		assert.NoError(t, res.GetError())
		assert.True(t, res.Published)
		assert.False(t, res.Stale)

		slot, ok := store.Get(res.EntryID)
		require.True(t, ok)
		assert.Equal(t, cache.StateReady, slot.State)
		assert.Equal(t, present.TextContent(res.Result.Tree), present.TextContent(slot.Result.Tree))
	}
	assert.EqualValues(t, 4, r.calls.Load())
}

func TestBatchProcessor_SkipsUnchanged(t *testing.T) {
	r := &fakeRenderer{}
	store := cache.NewResultStore(0, 0)
	b := NewBatchProcessor(r, store, nil, 2, nil)

	b.Process(context.Background(), entries("a", "b"), repo)
	again := b.Process(context.Background(), entries("a", "b"), repo)

	assert.Empty(t, again)
	assert.EqualValues(t, 2, r.calls.Load())

	changed := entries("a", "B")
	results := b.Process(context.Background(), changed, repo)
	require.Len(t, results, 1)
	assert.Equal(t, changed[1].ID, results[0].EntryID)

	slot, _ := store.Get(changed[1].ID)
	assert.Equal(t, "B", present.TextContent(slot.Result.Tree))
}

func TestBatchProcessor_RepositoryChangeRestarts(t *testing.T) {
	r := &fakeRenderer{}
	b := NewBatchProcessor(r, cache.NewResultStore(0, 0), nil, 1, nil)

	b.Process(context.Background(), entries("a"), repo)
	other := model.RepositoryContext{Name: "widget", URL: "https://github.com/fork/widget"}
	results := b.Process(context.Background(), entries("a"), other)

	require.Len(t, results, 1)
	assert.True(t, results[0].Published)
	assert.EqualValues(t, 2, r.calls.Load())
}

func TestBatchProcessor_RenderError(t *testing.T) {
	r := &fakeRenderer{err: errors.New("render failed")}
	store := cache.NewResultStore(0, 0)
	b := NewBatchProcessor(r, store, nil, 1, nil)

	results := b.Process(context.Background(), entries("a"), repo)

	require.Len(t, results, 1)
	assert.Error(t, results[0].GetError())
	assert.False(t, results[0].Published)

	_, ok := store.Get(results[0].EntryID)
	assert.False(t, ok, "failed run leaves no slot so it can be retried")
}

func TestBatchProcessor_CancelStopsPool(t *testing.T) {
	r := &fakeRenderer{block: true}
	store := cache.NewResultStore(0, 0)
	b := NewBatchProcessor(r, store, nil, 1, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan []*RenderResult)
	batch := entries("a", "b", "c", "d", "e")
	go func() { done <- b.Process(ctx, batch, repo) }()

	var results []*RenderResult
	select {
	case results = <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Process did not return after cancellation")
	}

	for _, res := range results {
		err := res.GetError()
		assert.True(t, errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled), "unexpected error %v", err)
		assert.False(t, res.Published)
	}
	for _, e := range batch {
		_, ok := store.Get(e.ID)
		assert.False(t, ok, "cancelled run leaves no slot for %s", e.ID)
	}
	assert.Less(t, int(r.calls.Load()), len(batch))
}

func TestBatchProcessor_Empty(t *testing.T) {
	b := NewBatchProcessor(&fakeRenderer{}, cache.NewResultStore(0, 0), nil, 1, nil)
	results := b.Process(context.Background(), nil, repo)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestRenderJob_SupersededWhileRunning(t *testing.T) {
	store := cache.NewResultStore(0, 0)
	e := entries("old")[0]
	gen, _ := store.Begin(e.ID, "fp-old")

	r := &fakeRenderer{hook: func(model.ChangeEntry) {
		// a newer run registers while this one renders
		store.Begin(e.ID, "fp-new")
	}}
	job := &RenderJob{Entry: e, Repo: repo, Generation: gen, Renderer: r, Store: store}

	res := job.Execute(context.Background()).(*RenderResult)
	assert.False(t, res.Published)
	assert.True(t, res.Stale)

	slot, _ := store.Get(e.ID)
	assert.Equal(t, cache.StateProcessing, slot.State)
	assert.Equal(t, "fp-new", slot.Fingerprint)
}

func TestRenderJob_SupersededBeforeStart(t *testing.T) {
	store := cache.NewResultStore(0, 0)
	e := entries("x")[0]
	gen, _ := store.Begin(e.ID, "fp-1")
	store.Begin(e.ID, "fp-2")

	r := &fakeRenderer{}
	res := (&RenderJob{Entry: e, Repo: repo, Generation: gen, Renderer: r, Store: store}).Execute(context.Background())

	assert.True(t, res.(*RenderResult).Stale)
	assert.Zero(t, r.calls.Load())
}
