// Package version implements semantic-version ordering over releases.
package version

import (
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/ppiankov/releasediff/internal/model"
)

// ReleaseVersion returns the version string of a release.
// A release tagged "latest" is identified by its display name instead.
func ReleaseVersion(r model.Release) string {
	if r.TagName == model.LatestTag && r.Name != "" {
		return r.Name
	}
	return r.TagName
}

// Parse parses a full MAJOR.MINOR.PATCH version, accepting one leading "v".
// Partial versions such as "1.5" are rejected.
func Parse(v string) (*semver.Version, bool) {
	parsed, err := semver.StrictNewVersion(strings.TrimPrefix(strings.TrimSpace(v), "v"))
	if err != nil {
		return nil, false
	}
	return parsed, true
}

// ResolveUpper returns the concrete upper bound of a range:
// "latest" resolves to the version of the newest (first) release.
func ResolveUpper(releases []model.Release, rng model.VersionRange) string {
	if rng.ToIsLatest() {
		if len(releases) == 0 {
			return ""
		}
		return ReleaseVersion(releases[0])
	}
	return rng.To
}

// FilterByRange returns the releases whose version lies in (from, to],
// preserving input order. Versions that are not semantic versions are
// skipped. An unparseable bound selects nothing.
func FilterByRange(releases []model.Release, rng model.VersionRange) []model.Release {
	from, ok := Parse(rng.From)
	if !ok {
		return []model.Release{}
	}
	to, ok := Parse(ResolveUpper(releases, rng))
	if !ok {
		return []model.Release{}
	}

	filtered := make([]model.Release, 0, len(releases))
	for _, r := range releases {
		v, ok := Parse(ReleaseVersion(r))
		if !ok {
			continue
		}
		if v.GreaterThan(from) && !v.GreaterThan(to) {
			filtered = append(filtered, r)
		}
	}

	return filtered
}

// IsStable reports whether a release is tagged with a valid, non pre-release version
func IsStable(r model.Release) bool {
	v, ok := Parse(r.TagName)
	return ok && v.Prerelease() == ""
}

// Compare orders releases newest first. Releases with unparseable tags
// sort after all valid ones and keep their relative order.
func Compare(a, b model.Release) int {
	va, okA := Parse(a.TagName)
	vb, okB := Parse(b.TagName)

	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return 1
	case !okB:
		return -1
	}
	return vb.Compare(va)
}

// SortNewestFirst returns a copy of releases ordered by descending version
func SortNewestFirst(releases []model.Release) []model.Release {
	sorted := slices.Clone(releases)
	slices.SortStableFunc(sorted, Compare)
	return sorted
}
