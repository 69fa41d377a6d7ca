package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/wikireflex/reflex/internal/httpapi"
)

// serveCmd runs the HTTP query service.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the analytics query service",
	Long: `Start the HTTP service that answers edit-activity queries.

Endpoints are mounted under /api (getEdits, getReverts, getProjects,
getProjectPages, getActiveProjects, getActiveProjectPages,
getProjectMembers, getProjectUserLinks, getAnonCoords), plus a /ws
presence channel for interactive consumers.

Examples:
  # Serve on the default address with a local SQLite database
  reflex serve

  # Serve a MySQL-backed instance on a custom port
  reflex serve --backend mysql --db-connect 'user:pass@tcp(db:3306)/reflex' --addr :9000`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(rootCtx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		defer func() { _ = activeStore.Close() }()

		srv := httpapi.NewServer(cfg, activeStore)
		return srv.Run(ctx)
	},
}
