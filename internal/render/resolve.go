package render

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ppiankov/releasediff/internal/document"
	"github.com/ppiankov/releasediff/internal/model"
)

// shortSHA is the length commit labels are abbreviated to
const shortSHA = 7

// resolver turns hosting-platform references into links
type resolver struct {
	repo string // repository URL without trailing slash
	host string // scheme and host
}

func newResolver(repoURL string) (*resolver, error) {
	raw := strings.TrimRight(strings.TrimSpace(repoURL), "/")
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidRepositoryURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidRepositoryURL, repoURL)
	}

	return &resolver{
		repo: raw,
		host: u.Scheme + "://" + u.Host,
	}, nil
}

// URL returns the link target for a reference
func (r *resolver) URL(ref document.Reference) string {
	switch ref.Kind {
	case document.RefIssue:
		if ref.Owner != "" {
			return r.host + "/" + ref.Owner + "/" + ref.Repo + "/issues/" + ref.Value
		}
		return r.repo + "/issues/" + ref.Value
	case document.RefMention:
		return r.host + "/" + ref.Value
	default:
		return r.repo + "/commit/" + ref.Value
	}
}

func label(ref document.Reference) *document.Node {
	switch ref.Kind {
	case document.RefMention:
		return document.NewStrong(document.NewText(ref.Literal()))
	case document.RefCommit:
		sha := ref.Value
		if len(sha) > shortSHA {
			sha = sha[:shortSHA]
		}
		return document.NewCodeSpan(sha)
	default:
		return document.NewText(ref.Literal())
	}
}

// Resolve returns a copy of the tree with every reference replaced by a
// link. Unchanged subtrees are shared with the input.
func (r *resolver) Resolve(n *document.Node) *document.Node {
	if n.Kind() == document.KindReference {
		ref := n.Reference()
		return document.NewLink(r.URL(ref), "", label(ref))
	}
	if n.ChildCount() == 0 {
		return n
	}

	children := n.Children()
	changed := false
	for i, c := range children {
		if rc := r.Resolve(c); rc != c {
			children[i] = rc
			changed = true
		}
	}
	if !changed {
		return n
	}
	return n.WithChildren(children...)
}
