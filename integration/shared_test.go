//go:build database

// Package integration contains database integration tests for reflex.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags database ./integration
package integration

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
)

// seedStatements populates a freshly migrated database with a small but
// representative dataset: two registered users and a bot, a handful of
// pages, one project with membership history and an activity snapshot.
var seedStatements = []string{
	`INSERT INTO ts_users (tu_id, tu_name) VALUES
		(1, 'Alice'), (2, 'Bob'), (3, 'EditBot'), (-7, '203.0.113.9')`,
	`INSERT INTO ts_users_groups (tug_uid, tug_group) VALUES (3, 'bot')`,
	`INSERT INTO ts_pages (tp_id, tp_title, tp_namespace) VALUES
		(100, 'Chess', 0),
		(101, 'Talk:Chess', 1),
		(102, 'Chess opening', 0),
		(200, 'WikiProject Chess/p', 4),
		(201, 'WikiProject Chess/p/archive', 4)`,
	`INSERT INTO reflex_cache (rc_user_id, rc_page_id, rc_page_namespace, rc_wikiweek, rc_edits) VALUES
		(1, 100, 0, 544, 12),
		(1, 100, 0, 545, 3),
		(1, 101, 1, 545, 2),
		(2, 100, 0, 544, 5),
		(2, 102, 0, 546, 8),
		(3, 100, 0, 544, 40),
		(-7, 100, 0, 545, 4)`,
	`INSERT INTO n_page_reverts (pr_page_id, pr_revert_user, pr_revert_timestamp) VALUES
		(100, 1, '2011-06-10 09:00:00'),
		(100, 1, '2011-06-11 10:30:00'),
		(102, 1, '2011-06-18 14:00:00')`,
	`INSERT INTO project (p_id, p_title, p_created) VALUES
		(7, 'Chess', '2009-01-05 00:00:00')`,
	`INSERT INTO project_pages (pp_id, pp_project_id, pp_parent_category) VALUES
		(100, 7, 'Chess articles'),
		(101, 7, 'Chess articles'),
		(102, 7, 'Chess articles')`,
	`INSERT INTO project_pages_assessments (pa_id, pa_assessment) VALUES
		(100, 'B'), (102, 'Start')`,
	`INSERT INTO project_activity (pa_project_id, pa_page_id, pa_page_namespace, pa_edits, pa_ww_from) VALUES
		(7, 100, 0, 60, 546),
		(7, 101, 1, 5, 546),
		(7, 200, 4, 9, 546),
		(7, 100, 0, 31, 545)`,
	`INSERT INTO project_user_links (pm_project_id, pm_page_id, pm_user_id, pm_user_name, pm_link_date, pm_link_removed) VALUES
		(200, 200, 1, 'Alice', '2011-03-02 18:04:11', 0),
		(200, 200, 2, 'Bob', '2011-04-10 08:15:00', 0),
		(200, 200, 2, 'Bob', '2011-05-20 12:00:00', 1)`,
	`INSERT INTO ts_users_block (tub_name, tub_block) VALUES ('203.0.113.9', 900)`,
	`INSERT INTO geo_location (gl_id, gl_lat, gl_long) VALUES (900, 48.85, 2.35)`,
}

// seedDatabase runs the seed statements against a migrated database.
func seedDatabase(t *testing.T, ctx context.Context, driver, connStr string) {
	t.Helper()

	db, err := sql.Open(driver, connStr)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	for _, stmt := range seedStatements {
		_, err := db.ExecContext(ctx, stmt)
		require.NoError(t, err, "seed statement failed: %s", stmt)
	}
}
