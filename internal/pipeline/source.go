package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/releasediff/internal/model"
	"github.com/ppiankov/releasediff/internal/util"
)

// Source is a repository and its releases, newest first
type Source struct {
	Repository model.RepositoryContext `json:"repository" yaml:"repository"`
	Releases   []model.Release         `json:"releases" yaml:"releases"`
}

// apiRelease is a release as listed by the GitHub REST API
type apiRelease struct {
	ID         int64  `json:"id" yaml:"id"`
	TagName    string `json:"tag_name" yaml:"tag_name"`
	Name       string `json:"name" yaml:"name"`
	Body       string `json:"body" yaml:"body"`
	Draft      bool   `json:"draft" yaml:"draft"`
	Prerelease bool   `json:"prerelease" yaml:"prerelease"`
}

func (r apiRelease) release() model.Release {
	return model.Release{
		ID:           strconv.FormatInt(r.ID, 10),
		TagName:      r.TagName,
		Name:         r.Name,
		Description:  r.Body,
		IsDraft:      r.Draft,
		IsPrerelease: r.Prerelease,
	}
}

// Loader reads release sources from files, stdin or http(s) URLs
type Loader struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	stdin      io.Reader
}

// NewLoader creates a loader from the source settings
func NewLoader(cfg model.SourceConfig) *Loader {
	return &Loader{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBytes,
		stdin:     os.Stdin,
	}
}

// Load reads and decodes a source. "-" reads standard input.
func (l *Loader) Load(ctx context.Context, location string) (*Source, error) {
	var (
		data []byte
		err  error
	)
	switch {
	case location == "-":
		data, err = l.readAll(l.stdin)
	case strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://"):
		data, err = l.fetch(ctx, location)
	default:
		data, err = os.ReadFile(location)
	}
	if err != nil {
		return nil, fmt.Errorf("read source %s: %w", location, err)
	}

	src, err := ParseSource(data)
	if err != nil {
		return nil, fmt.Errorf("parse source %s: %w", location, err)
	}
	return src, nil
}

func (l *Loader) readAll(r io.Reader) ([]byte, error) {
	if l.maxBytes > 0 {
		r = io.LimitReader(r, l.maxBytes)
	}
	return io.ReadAll(r)
}

func (l *Loader) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", l.userAgent)
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.8")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	body, err := l.readAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// ParseSource decodes a source document. It accepts the source format as
// YAML or JSON, or a bare list of releases as returned by the GitHub API.
func ParseSource(data []byte) (*Source, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, model.ErrEmptySource
	}

	var src *Source
	var err error
	if trimmed[0] == '[' || trimmed[0] == '{' {
		src, err = decodeSource(trimmed, json.Unmarshal)
	} else {
		src, err = decodeSource(trimmed, yaml.Unmarshal)
	}
	if err != nil {
		return nil, err
	}

	if len(src.Releases) == 0 {
		return nil, model.ErrEmptySource
	}
	return src, nil
}

func decodeSource(data []byte, unmarshal func([]byte, any) error) (*Source, error) {
	var shape any
	if err := unmarshal(data, &shape); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	if _, isList := shape.([]any); isList {
		var list []apiRelease
		if err := unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("decode release list: %w", err)
		}
		src := &Source{Releases: make([]model.Release, 0, len(list))}
		for _, r := range list {
			src.Releases = append(src.Releases, r.release())
		}
		return src, nil
	}

	var src Source
	if err := unmarshal(data, &src); err != nil {
		return nil, fmt.Errorf("decode source: %w", err)
	}
	return &src, nil
}
