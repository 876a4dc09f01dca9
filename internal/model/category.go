package model

// CategoryKind enumerates the well-known change categories
type CategoryKind int

const (
	KindCustom          CategoryKind = iota // Section title passed through unchanged
	KindBreakingChanges                     // Major / breaking changes
	KindFeatures                            // Features and minor changes
	KindBugFixes                            // Bug fixes and patches
	KindThanks                              // Acknowledgements
	KindCredits                             // Credits
	KindArtifacts                           // Build artifacts, downloads
)

// Category is the semantic group a change entry belongs to.
// It is either one of the well-known kinds or a custom title.
type Category struct {
	kind   CategoryKind
	custom string
}

// Well-known categories
var (
	BreakingChanges = Category{kind: KindBreakingChanges}
	Features        = Category{kind: KindFeatures}
	BugFixes        = Category{kind: KindBugFixes}
	Thanks          = Category{kind: KindThanks}
	Credits         = Category{kind: KindCredits}
	Artifacts       = Category{kind: KindArtifacts}
)

var knownTitles = map[CategoryKind]string{
	KindBreakingChanges: "Breaking Changes",
	KindFeatures:        "Features",
	KindBugFixes:        "Bug Fixes",
	KindThanks:          "Thanks",
	KindCredits:         "Credits",
	KindArtifacts:       "Artifacts",
}

// CustomCategory returns a pass-through category for an unmatched title
func CustomCategory(title string) Category {
	return Category{kind: KindCustom, custom: title}
}

// Kind returns the category variant
func (c Category) Kind() CategoryKind {
	return c.kind
}

// IsCustom reports whether the category is a pass-through title
func (c Category) IsCustom() bool {
	return c.kind == KindCustom
}

// Title returns the display title used for grouping and ordering
func (c Category) Title() string {
	if c.kind == KindCustom {
		return c.custom
	}
	return knownTitles[c.kind]
}

func (c Category) String() string {
	return c.Title()
}
