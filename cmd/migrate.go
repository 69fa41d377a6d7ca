package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/wikireflex/reflex/internal"
	"github.com/wikireflex/reflex/internal/store"
)

// migrateCmd runs database migrations for the query store.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the query store.

By default, migrates to the latest version. Use --target-version for specific versions.

For MySQL, the connection string must enable multiStatements, e.g.
user:pass@tcp(host:3306)/reflex?multiStatements=true

Examples:
  # Migrate to latest version (default)
  reflex migrate

  # Migrate to specific version
  reflex migrate --target-version 2

  # Rollback to previous version
  reflex migrate --target-version 0`,
	PreRunE: migrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := store.Migrate(cfg.Backend, cfg.DBConnect, targetVersion); err != nil {
			internal.FatalError("Failed to migrate database", err)
		}
	},
}
