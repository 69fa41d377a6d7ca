package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/wikireflex/reflex/core"
	"github.com/wikireflex/reflex/internal"
	"github.com/wikireflex/reflex/internal/parquet"
)

// exportCmd exports the latest activity snapshot to Parquet.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export project activity to Parquet for BI tools and analytics",
	Long: `Export the latest project activity snapshot to Parquet format.

One row is written per project and namespace, carrying the per-namespace
edit count alongside the project rollups.

Parquet format enables:
- Fast querying with DuckDB, Apache Spark, pandas
- Efficient storage with columnar compression
- Direct import into BI tools (Tableau, Metabase, etc.)

Requires: --output-file parameter

Examples:
  # Export and inspect with DuckDB
  reflex export --output-file activity.parquet
  duckdb -c "SELECT * FROM read_parquet('activity.parquet') LIMIT 10"`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		outputFile := viper.GetString("output-file")
		if outputFile == "" {
			internal.FatalError("Failed to export", fmt.Errorf("--output-file is required"))
		}

		ctx, cancel := context.WithTimeout(rootCtx, cfg.RequestTimeout)
		defer cancel()
		defer func() { _ = activeStore.Close() }()

		matrix, err := buildProjectMatrix(ctx, viper.GetString("group"))
		if err != nil {
			internal.FatalError("Failed to load project activity", err)
		}
		data := parquet.FlattenMatrix(matrix, core.MatrixNamespaces)
		if err := parquet.WriteProjectActivityParquet(data, outputFile); err != nil {
			internal.FatalError("Failed to write Parquet file", err)
		}
		fmt.Printf("Exported %d rows to %s\n", len(data), outputFile)
	},
}
