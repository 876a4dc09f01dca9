package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ppiankov/releasediff/internal/pipeline"
	"github.com/ppiankov/releasediff/internal/version"
)

var stableOnly bool

// versionsCmd represents the versions command
var versionsCmd = &cobra.Command{
	Use:   "versions <source>",
	Short: "List the releases of a source, newest first",
	Long: `Versions lists every release of a source ordered by semantic version,
newest first, to help choose --from and --to for render.

Example:
  releasediff versions releases.yaml
  releasediff versions https://api.github.com/repos/acme/widget/releases --stable`,
	Args: cobra.ExactArgs(1),
	RunE: runVersions,
}

func init() {
	rootCmd.AddCommand(versionsCmd)
	versionsCmd.Flags().BoolVar(&stableOnly, "stable", false, "hide drafts, pre-releases and unparseable tags")
}

func runVersions(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Source.Timeout)
	defer cancel()

	src, err := pipeline.NewLoader(cfg.Source).Load(ctx, args[0])
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	for _, r := range version.SortNewestFirst(src.Releases) {
		stable := version.IsStable(r) && !r.IsDraft && !r.IsPrerelease
		if stableOnly && !stable {
			continue
		}

		_, parsed := version.Parse(r.TagName)
		status := "stable"
		switch {
		case r.IsDraft:
			status = "draft"
		case !parsed:
			status = "unversioned"
		case !stable:
			status = "pre-release"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", version.ReleaseVersion(r), status, r.Name)
	}
	return tw.Flush()
}
