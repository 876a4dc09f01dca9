// Package group aggregates change entries by category and orders the
// categories for display.
package group

import (
	"slices"

	"github.com/ppiankov/releasediff/internal/model"
)

// Collection maps categories to their change entries.
// It is built once by Fold and never modified afterwards.
type Collection struct {
	keys    []model.Category
	entries map[model.Category][]model.ChangeEntry
}

// Fold groups entries by category. Entries must be given newest release
// first; each category keeps the input order. Categories are recorded in
// first-seen order.
func Fold(entries []model.ChangeEntry) Collection {
	c := Collection{entries: make(map[model.Category][]model.ChangeEntry)}

	for _, e := range entries {
		if _, seen := c.entries[e.Category]; !seen {
			c.keys = append(c.keys, e.Category)
		}
		c.entries[e.Category] = append(c.entries[e.Category], e)
	}

	return c
}

// Categories returns the categories in first-seen order
func (c Collection) Categories() []model.Category {
	return slices.Clone(c.keys)
}

// Entries returns the entries of a category in input order
func (c Collection) Entries(category model.Category) []model.ChangeEntry {
	return slices.Clone(c.entries[category])
}

// Len returns the number of categories
func (c Collection) Len() int {
	return len(c.keys)
}

// Count returns the total number of entries across all categories
func (c Collection) Count() int {
	n := 0
	for _, list := range c.entries {
		n += len(list)
	}
	return n
}

// IsEmpty reports whether the collection holds no entries
func (c Collection) IsEmpty() bool {
	return len(c.keys) == 0
}
