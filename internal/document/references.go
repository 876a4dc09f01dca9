package document

import (
	"regexp"
	"strings"
)

// referencePattern matches, in order of the capture groups:
// owner/repo#N (1, 2, 3), #N (3), @user (4) and commit SHAs (5)
var referencePattern = regexp.MustCompile(
	`(?:([A-Za-z0-9][A-Za-z0-9-]*)/([A-Za-z0-9_.-]+))?#([0-9]+)\b` +
		`|@([A-Za-z0-9](?:[A-Za-z0-9]|-[A-Za-z0-9]){0,38})\b` +
		`|\b([0-9a-f]{7,40})\b`,
)

// ScanReferences splits text into text and reference nodes
func ScanReferences(s string) []*Node {
	matches := referencePattern.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return []*Node{NewText(s)}
	}

	var out []*Node
	last := 0
	for _, m := range matches {
		ref, ok := referenceAt(s, m)
		if !ok {
			continue
		}
		if m[0] > last {
			out = append(out, NewText(s[last:m[0]]))
		}
		out = append(out, NewReference(ref))
		last = m[1]
	}
	if last < len(s) {
		out = append(out, NewText(s[last:]))
	}
	return mergeText(out)
}

func referenceAt(s string, m []int) (Reference, bool) {
	if m[0] > 0 && !isBoundary(s[m[0]-1]) {
		return Reference{}, false
	}

	group := func(i int) string {
		if m[2*i] < 0 {
			return ""
		}
		return s[m[2*i]:m[2*i+1]]
	}

	switch {
	case group(3) != "":
		return Reference{Kind: RefIssue, Owner: group(1), Repo: group(2), Value: group(3)}, true
	case group(4) != "":
		return Reference{Kind: RefMention, Value: group(4)}, true
	case group(5) != "":
		sha := group(5)
		if !strings.ContainsAny(sha, "0123456789") || !strings.ContainsAny(sha, "abcdef") {
			return Reference{}, false
		}
		return Reference{Kind: RefCommit, Value: sha}, true
	}
	return Reference{}, false
}

// isBoundary reports whether b may precede a reference
func isBoundary(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return false
	}
	return !strings.ContainsRune("_/&@.-#", rune(b))
}
