// Package cmd defines the command-line interface for reflex.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/wikireflex/reflex/internal"
	"github.com/wikireflex/reflex/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(versionCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("addr", schema.DefaultListenAddr, "HTTP listen address")
	rootCmd.PersistentFlags().String("tls-addr", "", "Optional HTTPS listen address")
	rootCmd.PersistentFlags().String("tls-cert", "", "Path to TLS certificate (required with tls-addr)")
	rootCmd.PersistentFlags().String("tls-key", "", "Path to TLS key (required with tls-addr)")
	rootCmd.PersistentFlags().String("allow-origin", "*", "Value for the Access-Control-Allow-Origin header")
	rootCmd.PersistentFlags().String("backend", string(schema.SQLiteBackend), "Database backend: sqlite or mysql or postgres")
	rootCmd.PersistentFlags().String("db-connect", "", "Database connection string (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().Int("timeout", schema.DefaultRequestTimeout, "Per-request deadline for store calls, in seconds")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		internal.FatalError("Failed to bind root flags", err)
	}

	// Bind flags of the projects command
	projectsCmd.Flags().IntP("limit", "l", schema.DefaultProjectsLimit, "Number of projects to display")
	projectsCmd.Flags().String("group", "project|namespace", "Pipe-separated grouping: project, namespace, title")
	projectsCmd.Flags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	projectsCmd.Flags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	if err := viper.BindPFlags(projectsCmd.Flags()); err != nil {
		internal.FatalError("Failed to bind projects flags", err)
	}

	// Bind flags of the export command
	exportCmd.Flags().String("output-file", "", "Path to write the Parquet file to")
	if err := viper.BindPFlags(exportCmd.Flags()); err != nil {
		internal.FatalError("Failed to bind export flags", err)
	}

	// Bind flags of the migrate command
	migrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(migrateCmd.Flags()); err != nil {
		internal.FatalError("Failed to bind migrate flags", err)
	}
}
