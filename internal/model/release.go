package model

import (
	"fmt"
	"strings"
)

// LatestTag is the sentinel tag/version meaning "newest release"
const LatestTag = "latest"

// Release represents a published release of a hosted repository
type Release struct {
	ID           string `json:"id" yaml:"id"`                     // Opaque identifier from the hosting platform
	TagName      string `json:"tagName" yaml:"tagName"`           // Semantic version or "latest"
	Name         string `json:"name,omitempty" yaml:"name"`       // Display name (used when TagName is "latest")
	Description  string `json:"description" yaml:"description"`   // Raw release note (markdown)
	IsDraft      bool   `json:"isDraft" yaml:"isDraft"`           // Not yet published
	IsPrerelease bool   `json:"isPrerelease" yaml:"isPrerelease"` // Marked as pre-release
}

// VersionRange selects releases in (From, To]
type VersionRange struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"` // May be "latest" (any case)
}

// IsSelected reports whether both bounds are present
func (r VersionRange) IsSelected() bool {
	return strings.TrimSpace(r.From) != "" && strings.TrimSpace(r.To) != ""
}

// ToIsLatest reports whether the upper bound is the "latest" sentinel
func (r VersionRange) ToIsLatest() bool {
	return strings.EqualFold(strings.TrimSpace(r.To), LatestTag)
}

// RepositoryContext identifies the repository release notes belong to.
// URL is the base for resolving issue, pull request and commit references.
type RepositoryContext struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
}

// DefaultHost is used when a repository is given as "owner/name"
const DefaultHost = "https://github.com"

// ParseRepositorySlug maps "owner/name" to a repository context on DefaultHost
func ParseRepositorySlug(slug string) (RepositoryContext, error) {
	owner, name, ok := strings.Cut(strings.Trim(strings.TrimSpace(slug), "/"), "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return RepositoryContext{}, fmt.Errorf("invalid repository %q (expected owner/name)", slug)
	}

	return RepositoryContext{
		Name: name,
		URL:  DefaultHost + "/" + owner + "/" + name,
	}, nil
}
