package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/releasediff/internal/model"
	"github.com/ppiankov/releasediff/internal/pipeline"
)

var (
	fromVersion   string
	toVersion     string
	outPath       string
	repoSlug      string
	renderTimeout time.Duration
)

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render <source>",
	Short: "Render the changelog between two releases",
	Long: `Render reads a release list and prints the changelog of every release
newer than --from up to and including --to.

The source is a YAML or JSON file, "-" for standard input, or an http(s)
URL. Both a releasediff source document and a GitHub API release list
are accepted.

Example:
  releasediff render releases.yaml --from 1.0.0 --to latest
  releasediff render releases.json --from v2.3.0 --to v2.5.1 --format html --out changelog.html
  curl -s https://api.github.com/repos/acme/widget/releases | releasediff render - --repo acme/widget --from 1.0.0 --to latest`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	defaults := model.DefaultConfig()

	// Range flags
	renderCmd.Flags().StringVar(&fromVersion, "from", "", "exclusive lower version bound")
	renderCmd.Flags().StringVar(&toVersion, "to", "", `inclusive upper version bound, or "latest"`)
	renderCmd.Flags().StringVar(&repoSlug, "repo", "", "repository as owner/name (overrides the source)")

	// Output flags
	renderCmd.Flags().StringVar(&outPath, "out", "", "output path (default: stdout)")
	renderCmd.Flags().String("format", defaults.Output.Format, "output format (text, html, json)")
	renderCmd.Flags().Bool("no-color", defaults.Output.NoColor, "disable colored text output")

	// Render flags
	renderCmd.Flags().Int("workers", defaults.Render.Workers, "number of concurrent render workers")
	renderCmd.Flags().Float64("rate-limit", defaults.Render.RateLimit, "render runs per second per repository host (0 = unlimited)")
	renderCmd.Flags().Bool("detect-language", defaults.Render.DetectLanguage, "guess the language of code blocks without one")

	// Source flags
	renderCmd.Flags().DurationVar(&renderTimeout, "timeout", 2*time.Minute, "overall timeout")
	renderCmd.Flags().Duration("fetch-timeout", defaults.Source.Timeout, "timeout for fetching a source URL")
	renderCmd.Flags().String("ua", defaults.Source.UserAgent, "HTTP User-Agent")
	renderCmd.Flags().Int64("max-bytes", defaults.Source.MaxBytes, "max source bytes to read")
	renderCmd.Flags().String("http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	renderCmd.Flags().String("https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")

	for key, flag := range map[string]string{
		"output.format":          "format",
		"output.no_color":        "no-color",
		"render.workers":         "workers",
		"render.rate_limit":      "rate-limit",
		"render.detect_language": "detect-language",
		"source.timeout":         "fetch-timeout",
		"source.user_agent":      "ua",
		"source.max_bytes":       "max-bytes",
		"source.http_proxy":      "http-proxy",
		"source.https_proxy":     "https-proxy",
	} {
		_ = viper.BindPFlag(key, renderCmd.Flags().Lookup(flag))
	}
}

func runRender(cmd *cobra.Command, args []string) (err error) {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger()

	ctx, cancel := context.WithTimeout(cmd.Context(), renderTimeout)
	defer cancel()

	src, err := pipeline.NewLoader(cfg.Source).Load(ctx, args[0])
	if err != nil {
		return err
	}

	repo, err := repositoryFor(src, repoSlug)
	if err != nil {
		return err
	}
	if repo.URL == "" {
		log.Warn("no repository URL, references are left unlinked (use --repo)")
	}

	p := pipeline.NewPipeline(cfg, log)
	cl := p.Build(repo, src.Releases, model.VersionRange{From: fromVersion, To: toVersion})
	log.Debug("changelog built", "releases", len(cl.Releases), "groups", len(cl.Groups))

	for _, res := range p.Render(ctx, cl) {
		if res.Error != nil {
			log.Warn("render failed", "entry", res.EntryID, "error", res.Error)
		}
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	var w io.Writer = cmd.OutOrStdout()
	if outPath != "" {
		f, createErr := os.Create(outPath)
		if createErr != nil {
			return fmt.Errorf("create output: %w", createErr)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("close output: %w", closeErr)
			}
		}()
		w = f
	}

	return writeChangelog(w, p, cl, cfg.Output)
}

// repositoryFor picks the repository of a source, letting slug override it.
// A missing name is taken from the last URL segment.
func repositoryFor(src *pipeline.Source, slug string) (model.RepositoryContext, error) {
	if slug != "" {
		return model.ParseRepositorySlug(slug)
	}

	repo := src.Repository
	if repo.Name == "" && repo.URL != "" {
		repo.Name = path.Base(repo.URL)
	}
	return repo, nil
}
