package cmd

import (
	"context"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/wikireflex/reflex/core"
	"github.com/wikireflex/reflex/internal"
	"github.com/wikireflex/reflex/internal/outwriter"
	"github.com/wikireflex/reflex/schema"
)

// buildProjectMatrix loads the latest activity snapshot and folds it into
// one dense record per project, ranked by snapshot edit count.
func buildProjectMatrix(ctx context.Context, groups string) ([]*schema.ProjectMatrix, error) {
	week, err := activeStore.LatestActivityWeek(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := activeStore.ProjectActivity(ctx, &schema.ActivityRequest{
		Week:   week,
		Groups: core.ParseActivityGroups(groups),
	})
	if err != nil {
		return nil, err
	}
	return core.BuildActivityMatrix(rows), nil
}

// projectsCmd prints a ranked table of project activity.
var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Show the most active projects from the latest snapshot",
	Long: `Rank projects by edit count in the most recent activity snapshot.

Each row rolls a project up across namespaces: total edits, total pages
touched, and per-namespace edit columns for the common namespaces.

Examples:
  # Top 25 projects (default)
  reflex projects

  # Top 5, without colored labels
  reflex projects --limit 5 --color no`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		ctx, cancel := context.WithTimeout(rootCtx, cfg.RequestTimeout)
		defer cancel()
		defer func() { _ = activeStore.Close() }()

		switch viper.GetString("color") {
		case "no", "false", "0":
			color.NoColor = true
		}

		matrix, err := buildProjectMatrix(ctx, viper.GetString("group"))
		if err != nil {
			internal.FatalError("Failed to load project activity", err)
		}
		if len(matrix) == 0 {
			internal.Warning("No activity snapshots recorded yet.")
			return
		}
		if err := outwriter.WriteProjectTable(matrix, viper.GetInt("limit"), viper.GetInt("width"), os.Stdout); err != nil {
			internal.FatalError("Failed to render project table", err)
		}
	},
}
