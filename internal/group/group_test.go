package group

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/releasediff/internal/model"
)

func entry(id string, c model.Category) model.ChangeEntry {
	return model.ChangeEntry{ID: id, Category: c, Title: c.Title()}
}

func ids(entries []model.ChangeEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func titles(cs []model.Category) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Title()
	}
	return out
}

func TestFold(t *testing.T) {
	notes := model.CustomCategory("notes")
	entries := []model.ChangeEntry{
		entry("v3/0", model.Features),
		entry("v3/1", notes),
		entry("v2/0", model.BugFixes),
		entry("v2/1", model.Features),
		entry("v1/0", notes),
	}

	c := Fold(entries)

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, 5, c.Count())
	assert.Equal(t, []string{"Features", "notes", "Bug Fixes"}, titles(c.Categories()))
	assert.Equal(t, []string{"v3/0", "v2/1"}, ids(c.Entries(model.Features)))
	assert.Equal(t, []string{"v3/1", "v1/0"}, ids(c.Entries(notes)))
	assert.Empty(t, c.Entries(model.Thanks))
}

func TestFold_Empty(t *testing.T) {
	c := Fold(nil)
	assert.True(t, c.IsEmpty())
	assert.Zero(t, c.Count())
	assert.Empty(t, c.Categories())
}

func TestFold_DoesNotShareState(t *testing.T) {
	c := Fold([]model.ChangeEntry{entry("a", model.Features)})

	got := c.Entries(model.Features)
	got[0].ID = "mutated"
	keys := c.Categories()
	keys[0] = model.Thanks

	assert.Equal(t, "a", c.Entries(model.Features)[0].ID)
	assert.Equal(t, model.Features, c.Categories()[0])
}

func TestPolicy_Order(t *testing.T) {
	entries := []model.ChangeEntry{
		entry("1", model.Thanks),
		entry("2", model.CustomCategory("zeta")),
		entry("3", model.BugFixes),
		entry("4", model.Artifacts),
		entry("5", model.CustomCategory("alpha")),
		entry("6", model.BreakingChanges),
		entry("7", model.Credits),
		entry("8", model.Features),
	}

	got := DefaultPolicy().Order(Fold(entries))
	assert.Equal(t, []string{
		"Breaking Changes", "Features", "Bug Fixes",
		"zeta", "alpha",
		"Thanks", "Credits", "Artifacts",
	}, titles(got))
}

func TestPolicy_Compare(t *testing.T) {
	p := DefaultPolicy()
	neutral := model.CustomCategory("misc")

	assert.Negative(t, p.Compare(model.BreakingChanges, model.Features))
	assert.Positive(t, p.Compare(model.BugFixes, model.Features))
	assert.Negative(t, p.Compare(model.BugFixes, neutral))
	assert.Negative(t, p.Compare(neutral, model.Thanks))
	assert.Negative(t, p.Compare(model.Features, model.Artifacts))
	assert.Positive(t, p.Compare(model.Artifacts, model.Credits))
	assert.Zero(t, p.Compare(neutral, model.CustomCategory("other")))
	assert.Zero(t, p.Compare(model.Features, model.Features))
}

func TestPolicy_TotalOrder(t *testing.T) {
	p := DefaultPolicy()
	all := []model.Category{
		model.BreakingChanges, model.Features, model.BugFixes,
		model.Thanks, model.Credits, model.Artifacts,
		model.CustomCategory("x"), model.CustomCategory("y"),
	}

	sign := func(v int) int {
		switch {
		case v < 0:
			return -1
		case v > 0:
			return 1
		}
		return 0
	}

	for _, a := range all {
		assert.Zero(t, p.Compare(a, a))
		for _, b := range all {
			assert.Equal(t, -sign(p.Compare(a, b)), sign(p.Compare(b, a)), "antisymmetry %s/%s", a, b)
			for _, c := range all {
				if p.Compare(a, b) <= 0 && p.Compare(b, c) <= 0 {
					assert.LessOrEqual(t, p.Compare(a, c), 0, "transitivity %s/%s/%s", a, b, c)
				}
			}
		}
	}
}

func TestPolicy_StableForNeutral(t *testing.T) {
	var entries []model.ChangeEntry
	var want []string
	for _, name := range []string{"delta", "alpha", "charlie", "bravo"} {
		entries = append(entries, entry(name, model.CustomCategory(name)))
		want = append(want, name)
	}

	// high and low priority entries mixed in at random positions
	r := rand.New(rand.NewSource(7))
	for _, c := range []model.Category{model.Features, model.Thanks} {
		i := r.Intn(len(entries) + 1)
		entries = slices.Insert(entries, i, entry(c.Title(), c))
	}

	got := titles(DefaultPolicy().Order(Fold(entries)))
	require.Len(t, got, 6)
	assert.Equal(t, "Features", got[0])
	assert.Equal(t, want, got[1:5])
	assert.Equal(t, "Thanks", got[5])
}

func TestPolicy_CustomLists(t *testing.T) {
	p := NewPolicy([]string{"security"}, []string{"Features"})
	c := Fold([]model.ChangeEntry{
		entry("1", model.Features),
		entry("2", model.BugFixes),
		entry("3", model.CustomCategory("security")),
	})

	assert.Equal(t, []string{"security", "Bug Fixes", "Features"}, titles(p.Order(c)))
}
