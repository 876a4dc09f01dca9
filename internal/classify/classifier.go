// Package classify segments release notes into sections and maps each
// section title onto a change category.
package classify

import (
	"strconv"
	"strings"

	"github.com/ppiankov/releasediff/internal/document"
	"github.com/ppiankov/releasediff/internal/model"
)

// Rule maps a normalized title onto a category when Match returns true
type Rule struct {
	Name     string
	Match    func(title string) bool
	Category model.Category
}

// DefaultRules returns the title heuristics in evaluation order.
// Features are checked before breaking changes so that "Major Features"
// is grouped as features.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "feature|minor", Match: containsAny("feature", "minor"), Category: model.Features},
		{Name: "breaking change|major", Match: breakingChange, Category: model.BreakingChanges},
		{Name: "bug|fix|patch", Match: containsAny("bug", "fix", "patch"), Category: model.BugFixes},
		{Name: "thank", Match: containsAny("thank"), Category: model.Thanks},
		{Name: "artifact", Match: containsAny("artifact"), Category: model.Artifacts},
		{Name: "credit", Match: containsAny("credit"), Category: model.Credits},
	}
}

func containsAny(keywords ...string) func(string) bool {
	return func(title string) bool {
		for _, kw := range keywords {
			if strings.Contains(title, kw) {
				return true
			}
		}
		return false
	}
}

func breakingChange(title string) bool {
	if i := strings.Index(title, "breaking"); i >= 0 && strings.Contains(title[i:], "change") {
		return true
	}
	return strings.Contains(title, "major")
}

// Classifier assigns categories to release note sections
type Classifier struct {
	rules []Rule
}

// NewClassifier creates a classifier with the default rules
func NewClassifier() *Classifier {
	return &Classifier{rules: DefaultRules()}
}

// Classify returns the category for a section title.
// The first matching rule wins; unmatched titles pass through normalized.
func (c *Classifier) Classify(title string) model.Category {
	normalized := Normalize(title)
	for _, r := range c.rules {
		if r.Match(normalized) {
			return r.Category
		}
	}
	return model.CustomCategory(normalized)
}

// Entries splits a parsed release note into classified change entries
func (c *Classifier) Entries(release model.Release, doc *document.Node) []model.ChangeEntry {
	sections := Split(doc)
	entries := make([]model.ChangeEntry, 0, len(sections))

	for i, s := range sections {
		original := s.Title()
		category := c.Classify(original)

		entries = append(entries, model.ChangeEntry{
			ID:            release.ID + "/" + strconv.Itoa(i),
			ReleaseID:     release.ID,
			TagName:       release.TagName,
			IsDraft:       release.IsDraft,
			IsPrerelease:  release.IsPrerelease,
			Category:      category,
			Title:         category.Title(),
			OriginalTitle: original,
			Document:      s.Document(),
		})
	}

	return entries
}
