package version

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ppiankov/releasediff/internal/model"
)

func releases(tags ...string) []model.Release {
	out := make([]model.Release, len(tags))
	for i, tag := range tags {
		out[i] = model.Release{ID: tag, TagName: tag}
	}
	return out
}

func tags(rs []model.Release) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.TagName
	}
	return out
}

func TestFilterByRange(t *testing.T) {
	history := releases("3.0.0", "2.1.0", "2.0.0", "2.0.0-rc.1", "not-a-version", "1.5.0", "v1.2.0", "1.0.0")

	tests := map[string]struct {
		rng  model.VersionRange
		want []string
	}{
		"exclusive from, inclusive to": {
			rng:  model.VersionRange{From: "1.0.0", To: "2.0.0"},
			want: []string{"2.0.0", "2.0.0-rc.1", "1.5.0", "v1.2.0"},
		},
		"latest resolves to newest": {
			rng:  model.VersionRange{From: "2.0.0", To: "latest"},
			want: []string{"3.0.0", "2.1.0"},
		},
		"latest is case insensitive": {
			rng:  model.VersionRange{From: "2.0.0", To: "LaTeSt"},
			want: []string{"3.0.0", "2.1.0"},
		},
		"v prefix on bounds": {
			rng:  model.VersionRange{From: "v2.0.0", To: "v2.1.0"},
			want: []string{"2.1.0"},
		},
		"empty range": {
			rng:  model.VersionRange{From: "2.0.0", To: "2.0.0"},
			want: []string{},
		},
		"inverted range": {
			rng:  model.VersionRange{From: "3.0.0", To: "1.0.0"},
			want: []string{},
		},
		"invalid bound": {
			rng:  model.VersionRange{From: "garbage", To: "2.0.0"},
			want: []string{},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, tags(FilterByRange(history, tt.rng)))
		})
	}
}

func TestFilterByRange_PartialVersionsExcluded(t *testing.T) {
	history := releases("2", "1.5", "1.2.0", "release-1.3.0", "v1.1.0")

	got := FilterByRange(history, model.VersionRange{From: "1.0.0", To: "2.0.0"})
	assert.Equal(t, []string{"1.2.0", "v1.1.0"}, tags(got))

	assert.Empty(t, FilterByRange(history, model.VersionRange{From: "1", To: "2.0.0"}))
}

func TestFilterByRange_TrimsBounds(t *testing.T) {
	history := releases("1.2.0", "1.1.0", "1.0.0")

	got := FilterByRange(history, model.VersionRange{From: " 1.0.0", To: "1.1.0\t"})
	assert.Equal(t, []string{"1.1.0"}, tags(got))

	got = FilterByRange(history, model.VersionRange{From: "1.0.0 ", To: " latest "})
	assert.Equal(t, []string{"1.2.0", "1.1.0"}, tags(got))
}

func TestParse(t *testing.T) {
	for _, v := range []string{"1.0.0", "v1.0.0", "1.0.0-rc.1", "1.0.0+build.5"} {
		_, ok := Parse(v)
		assert.True(t, ok, v)
	}
	for _, v := range []string{"", "1", "1.5", "vv1.0.0", "release-1.3.0", "latest", "01.0.0"} {
		_, ok := Parse(v)
		assert.False(t, ok, v)
	}
}

func TestFilterByRange_LatestEquivalence(t *testing.T) {
	history := releases("1.4.0", "1.3.0", "1.2.0", "1.1.0")

	latest := FilterByRange(history, model.VersionRange{From: "1.1.0", To: "latest"})
	concrete := FilterByRange(history, model.VersionRange{From: "1.1.0", To: "1.4.0"})

	assert.Equal(t, concrete, latest)
}

func TestFilterByRange_LatestTaggedRelease(t *testing.T) {
	history := []model.Release{
		{ID: "a", TagName: "latest", Name: "1.3.0"},
		{ID: "b", TagName: "1.2.0"},
		{ID: "c", TagName: "1.1.0"},
	}

	got := FilterByRange(history, model.VersionRange{From: "1.1.0", To: "latest"})
	assert.Equal(t, []string{"latest", "1.2.0"}, tags(got))
}

func TestFilterByRange_NoReleases(t *testing.T) {
	assert.Empty(t, FilterByRange(nil, model.VersionRange{From: "1.0.0", To: "latest"}))
}

func TestReleaseVersion(t *testing.T) {
	assert.Equal(t, "1.0.0", ReleaseVersion(model.Release{TagName: "1.0.0", Name: "First"}))
	assert.Equal(t, "2.0.0", ReleaseVersion(model.Release{TagName: "latest", Name: "2.0.0"}))
	assert.Equal(t, "latest", ReleaseVersion(model.Release{TagName: "latest"}))
}

func TestIsStable(t *testing.T) {
	assert.True(t, IsStable(model.Release{TagName: "1.0.0"}))
	assert.True(t, IsStable(model.Release{TagName: "v1.0.0"}))
	assert.False(t, IsStable(model.Release{TagName: "1.0.0-beta.1"}))
	assert.False(t, IsStable(model.Release{TagName: "nightly"}))
	assert.False(t, IsStable(model.Release{TagName: "2"}))
}

func TestSortNewestFirst(t *testing.T) {
	history := releases("1.0.0", "bogus", "2.0.0", "1.10.0", "2.0.0-rc.1")

	sorted := SortNewestFirst(history)
	assert.Equal(t, []string{"2.0.0", "2.0.0-rc.1", "1.10.0", "1.0.0", "bogus"}, tags(sorted))
	assert.Equal(t, "1.0.0", history[0].TagName, "input is not modified")
}
