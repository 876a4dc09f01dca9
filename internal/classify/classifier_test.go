package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/releasediff/internal/document"
	"github.com/ppiankov/releasediff/internal/model"
)

func TestClassifier_Classify(t *testing.T) {
	tests := map[string]struct {
		title string
		want  model.Category
	}{
		"features":                  {title: "Features", want: model.Features},
		"major features":            {title: "Major Features", want: model.Features},
		"minor changes":             {title: "Minor Changes", want: model.Features},
		"new feature with emoji":    {title: "🚀 New Feature", want: model.Features},
		"breaking changes":          {title: "Breaking Changes", want: model.BreakingChanges},
		"breaking api change":       {title: "Breaking API change", want: model.BreakingChanges},
		"major changes":             {title: "Major Changes", want: model.BreakingChanges},
		"bug fixes and patches":     {title: "Bug Fixes & Patches", want: model.BugFixes},
		"patch changes":             {title: "Patch Changes", want: model.BugFixes},
		"hotfixes":                  {title: "Hotfixes", want: model.BugFixes},
		"thanks":                    {title: "Thank you!", want: model.Thanks},
		"artifacts":                 {title: "Release Artifacts", want: model.Artifacts},
		"credits":                   {title: "Credits", want: model.Credits},
		"pass-through":              {title: "Random Notes", want: model.CustomCategory("random notes")},
		"pass-through camel case":   {title: "OtherStuff", want: model.CustomCategory("other stuff")},
		"breaking without change":   {title: "Breaking news", want: model.CustomCategory("breaking news")},
		"change before breaking":    {title: "Changes (breaking)", want: model.CustomCategory("changes breaking")},
		"unknown title passthrough": {title: UnknownTitle, want: model.CustomCategory("unknown")},
	}

	c := NewClassifier()
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.title))
		})
	}
}

func TestClassifier_HeadingLevels(t *testing.T) {
	p := document.NewParser()
	c := NewClassifier()

	for _, src := range []string{"## Major Features", "### Breaking Changes", "# Bug Fixes & Patches"} {
		entries := c.Entries(model.Release{ID: "r"}, p.Parse(src))
		require.Len(t, entries, 1, src)
	}

	entries := c.Entries(model.Release{ID: "r"}, p.Parse("## Major Features"))
	assert.Equal(t, model.Features, entries[0].Category)

	entries = c.Entries(model.Release{ID: "r"}, p.Parse("### Breaking Changes"))
	assert.Equal(t, model.BreakingChanges, entries[0].Category)
}

func TestClassifier_Entries(t *testing.T) {
	release := model.Release{
		ID:           "rel-2",
		TagName:      "2.0.0",
		IsPrerelease: true,
		Description:  "## Breaking Changes\n- removed X\n\n## Random Notes\nhello\n",
	}

	doc := document.NewParser().Parse(release.Description)
	entries := NewClassifier().Entries(release, doc)
	require.Len(t, entries, 2)

	first := entries[0]
	assert.Equal(t, "rel-2/0", first.ID)
	assert.Equal(t, "rel-2", first.ReleaseID)
	assert.Equal(t, "2.0.0", first.TagName)
	assert.True(t, first.IsPrerelease)
	assert.False(t, first.IsDraft)
	assert.Equal(t, model.BreakingChanges, first.Category)
	assert.Equal(t, "Breaking Changes", first.Title)
	assert.Equal(t, "Breaking Changes", first.OriginalTitle)
	assert.Equal(t, "removed X", document.PlainText(first.Document))

	second := entries[1]
	assert.Equal(t, "rel-2/1", second.ID)
	assert.Equal(t, model.CustomCategory("random notes"), second.Category)
	assert.Equal(t, "random notes", second.Title)
	assert.Equal(t, "Random Notes", second.OriginalTitle)
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"Bug Fixes & Patches": "bug fixes patches",
		"Random Notes":        "random notes",
		"  spaced   out ":     "spaced out",
		"HTTPServer changes":  "http server changes",
		"v2 API":              "v 2 api",
		"Don't Panic":         "dont panic",
		"Café Notes":          "cafe notes",
		"":                    "",
		"!!!":                 "",
	}

	for in, want := range tests {
		assert.Equal(t, want, Normalize(in), "Normalize(%q)", in)
	}
}
