package group

import (
	"slices"

	"github.com/ppiankov/releasediff/internal/model"
)

// DefaultHighPriority lists the categories shown first, in order
var DefaultHighPriority = []string{"Breaking Changes", "Features", "Bug Fixes"}

// DefaultLowPriority lists the categories shown last, in order
var DefaultLowPriority = []string{"Thanks", "Credits", "Artifacts"}

type tier int

const (
	tierHigh    tier = -1
	tierNeutral tier = 0
	tierLow     tier = 1
)

// Policy orders categories by reference lists of high and low priority titles
type Policy struct {
	high []string
	low  []string
}

// NewPolicy creates an ordering policy. Titles are matched exactly.
func NewPolicy(high, low []string) *Policy {
	return &Policy{
		high: slices.Clone(high),
		low:  slices.Clone(low),
	}
}

// DefaultPolicy returns the policy with the default reference lists
func DefaultPolicy() *Policy {
	return NewPolicy(DefaultHighPriority, DefaultLowPriority)
}

func (p *Policy) tier(title string) tier {
	if slices.Contains(p.high, title) {
		return tierHigh
	}
	if slices.Contains(p.low, title) {
		return tierLow
	}
	return tierNeutral
}

// Compare orders two categories: high priority titles first (by list
// position), neutral titles next (equal to each other), low priority
// titles last (by list position).
func (p *Policy) Compare(a, b model.Category) int {
	ta, tb := p.tier(a.Title()), p.tier(b.Title())
	if ta != tb {
		return int(ta) - int(tb)
	}

	var reference []string
	switch ta {
	case tierHigh:
		reference = p.high
	case tierLow:
		reference = p.low
	default:
		return 0
	}

	ia := slices.Index(reference, a.Title())
	ib := slices.Index(reference, b.Title())
	switch {
	case ia < ib:
		return -1
	case ia > ib:
		return 1
	}
	return 0
}

// Order returns the collection's categories in display order.
// Neutral categories keep their first-seen order.
func (p *Policy) Order(c Collection) []model.Category {
	keys := c.Categories()
	slices.SortStableFunc(keys, p.Compare)
	return keys
}
