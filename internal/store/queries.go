package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/wikireflex/reflex/core"
	"github.com/wikireflex/reflex/schema"
)

// Edits runs the composed edit-count retrieval against the cache tables.
func (s *SQLStore) Edits(ctx context.Context, req *schema.EditRequest) ([]schema.EditRow, error) {
	// Columns outside the grouping key are folded with MIN so strict
	// GROUP BY backends accept the retrieval; consumers treat them as
	// representative values.
	sel := func(col string, dim schema.GroupDim) string {
		if req.Group.Has(dim) {
			return col
		}
		return "MIN(" + col + ") AS " + col
	}
	cols := []string{
		"MIN(tu_id) AS tu_id",
		sel("tu_name", schema.GroupUser),
		sel("rc_page_id", schema.GroupPage),
		"MIN(rc_page_namespace) AS rc_page_namespace",
		"SUM(rc_edits) AS rc_edits",
		sel("rc_wikiweek", schema.GroupDate),
		"MIN(tp_title) AS tp_title",
		"MIN(tug_group) AS tug_group",
	}
	if req.Assessment {
		cols = append(cols, sel("pa_assessment", schema.GroupAssessment))
	}

	q := s.builder.Select(cols...).
		From("reflex_cache").
		Join("ts_users ON rc_user_id = tu_id").
		Join("ts_pages ON rc_page_id = tp_id").
		LeftJoin("ts_users_groups ON tu_id = tug_uid")
	if req.Assessment {
		q = q.LeftJoin("project_pages_assessments ON pa_id = rc_page_id")
	}
	if req.ProjectID != "" {
		q = q.Join("project_pages ON pp_id = rc_page_id").
			Where(sq.Eq{"pp_project_id": req.ProjectID})
	}
	for _, f := range req.Filters {
		q = q.Where(f)
	}
	q = q.Where(sq.GtOrEq{"rc_wikiweek": req.Window.StartWeek}).
		Where(sq.LtOrEq{"rc_wikiweek": req.Window.EndWeek})
	if req.ExcludeBots {
		q = q.Where("(tug_group != 'bot' OR tug_group IS NULL)")
	}
	q = q.GroupBy(req.Group.Columns()...).OrderBy(orderClause(req))
	if req.Limit > 0 {
		q = q.Limit(uint64(req.Limit))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build edit query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query edits: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.EditRow
	for rows.Next() {
		var row schema.EditRow
		var group, assessment sql.NullString
		dest := []any{
			&row.UserID, &row.UserName, &row.PageID, &row.PageNamespace,
			&row.Edits, &row.Week, &row.PageTitle, &group,
		}
		if req.Assessment {
			dest = append(dest, &assessment)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan edit row: %w", err)
		}
		row.UserGroup = group.String
		row.Assessment = assessment.String
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating edits: %w", err)
	}
	return results, nil
}

func orderClause(req *schema.EditRequest) string {
	col := "rc_edits"
	if req.Order == schema.OrderDate {
		col = "rc_wikiweek"
	}
	if req.Descending {
		return col + " DESC"
	}
	return col + " ASC"
}

// UsersByNameFold looks up user identities matching the given names up to
// letter case.
func (s *SQLStore) UsersByNameFold(ctx context.Context, names []string) ([]schema.UserIdentity, error) {
	lowered := make([]string, 0, len(names))
	for _, n := range names {
		lowered = append(lowered, strings.ToLower(n))
	}
	query, args, err := s.builder.Select("tu_id", "tu_name").
		From("ts_users").
		Where(sq.Eq{"LOWER(tu_name)": lowered}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build user lookup: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.UserIdentity
	for rows.Next() {
		var id schema.UserIdentity
		if err := rows.Scan(&id.ID, &id.Name); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		results = append(results, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return results, nil
}

// Reverts returns raw revert events inside the window, oldest first. The
// per-week grouping happens in core so the fold is identical across
// backends.
func (s *SQLStore) Reverts(ctx context.Context, req *schema.RevertRequest) ([]schema.RevertRow, error) {
	q := s.builder.Select("tu_name", "pr_revert_timestamp", "tp_title", "tp_namespace").
		From("n_page_reverts").
		Join("ts_pages ON tp_id = pr_page_id").
		Join("ts_users ON tu_id = pr_revert_user")
	for _, f := range req.Filters {
		q = q.Where(f)
	}
	q = q.Where(sq.GtOrEq{"pr_revert_timestamp": weekCutoff(req.Window.StartWeek)}).
		Where(sq.Lt{"pr_revert_timestamp": weekCutoff(req.Window.EndWeek + 1)}).
		OrderBy("pr_revert_timestamp ASC")

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build revert query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reverts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RevertRow
	for rows.Next() {
		var row schema.RevertRow
		var ts tsColumn
		if err := rows.Scan(&row.UserName, &ts, &row.PageTitle, &row.PageNamespace); err != nil {
			return nil, fmt.Errorf("failed to scan revert row: %w", err)
		}
		week, err := core.TimestampToWeek(string(ts))
		if err != nil {
			return nil, fmt.Errorf("failed to derive revert week: %w", err)
		}
		row.Week = week
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reverts: %w", err)
	}
	return results, nil
}

// weekCutoff is the datetime literal at which the given wiki week begins.
func weekCutoff(week int) string {
	return core.WeekStart(week).Format(core.TimestampFormat)
}

// tsColumn scans a timestamp column. Drivers disagree on the surface type
// (string for sqlite, []byte for mysql, time.Time for pgx), so scanning
// normalizes to the canonical datetime format.
type tsColumn string

// Scan implements sql.Scanner.
func (t *tsColumn) Scan(v any) error {
	switch x := v.(type) {
	case time.Time:
		*t = tsColumn(x.UTC().Format(core.TimestampFormat))
	case []byte:
		*t = tsColumn(x)
	case string:
		*t = tsColumn(x)
	default:
		return fmt.Errorf("unsupported timestamp type %T", v)
	}
	return nil
}

// Projects lists projects, optionally filtered by a title substring.
func (s *SQLStore) Projects(ctx context.Context, titleFilter string) ([]schema.Project, error) {
	q := s.builder.Select("p_id", "p_title", "p_created").From("project")
	if titleFilter != "" {
		q = q.Where(sq.Like{"p_title": "%" + titleFilter + "%"})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build project query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.Project
	for rows.Next() {
		var p schema.Project
		if err := rows.Scan(&p.ID, &p.Title, &p.Created); err != nil {
			return nil, fmt.Errorf("failed to scan project row: %w", err)
		}
		results = append(results, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}
	return results, nil
}

// ProjectPages lists the page set of one project, addressed by project page
// id or by title resolved through the project namespace.
func (s *SQLStore) ProjectPages(ctx context.Context, req *schema.ProjectPagesRequest) ([]schema.ProjectPage, error) {
	q := s.builder.Select("pp_id", "pp_project_id", "pp_parent_category", "tp_title", "tp_namespace").
		From("project_pages").
		Join("ts_pages ON pp_id = tp_id")
	if req.PageID > 0 {
		q = q.Where(sq.Eq{"pp_project_id": req.PageID})
	} else {
		q = q.Where(sq.Expr(
			"pp_project_id = (SELECT tp_id FROM ts_pages WHERE tp_title = ? AND tp_namespace = ?)",
			req.Project, core.ProjectNamespace))
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build project page query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query project pages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ProjectPage
	for rows.Next() {
		var p schema.ProjectPage
		if err := rows.Scan(&p.ID, &p.ProjectID, &p.ParentCategory, &p.Title, &p.Namespace); err != nil {
			return nil, fmt.Errorf("failed to scan project page row: %w", err)
		}
		results = append(results, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project pages: %w", err)
	}
	return results, nil
}

// ProjectPageIDs resolves a project title to the page ids of the project
// page and all its subpages in the project namespace.
func (s *SQLStore) ProjectPageIDs(ctx context.Context, project string) ([]int64, error) {
	query, args, err := s.builder.Select("tp_id").
		From("ts_pages").
		Where(sq.Or{
			sq.Like{"tp_title": project + "/%"},
			sq.Eq{"tp_title": project},
		}).
		Where(sq.Eq{"tp_namespace": core.ProjectNamespace}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build project id query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query project ids: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan project id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project ids: %w", err)
	}
	return ids, nil
}

// LatestActivityWeek returns the most recent snapshot week recorded.
func (s *SQLStore) LatestActivityWeek(ctx context.Context) (int64, error) {
	var week sql.NullInt64
	row := s.db.QueryRowContext(ctx, "SELECT MAX(pa_ww_from) FROM project_activity")
	if err := row.Scan(&week); err != nil {
		return 0, fmt.Errorf("failed to get latest activity week: %w", err)
	}
	if !week.Valid {
		return 0, fmt.Errorf("no activity snapshots recorded")
	}
	return week.Int64, nil
}

// ProjectActivity returns the grouped activity rows of one snapshot week,
// most edited first.
func (s *SQLStore) ProjectActivity(ctx context.Context, req *schema.ActivityRequest) ([]schema.ActivityRow, error) {
	grouped := make(map[string]bool, len(req.Groups))
	for _, g := range req.Groups {
		grouped[g] = true
	}
	// Same rule as the edit retrieval: non-grouped descriptor columns are
	// folded with MIN for strict GROUP BY backends.
	sel := func(col string) string {
		if grouped[col] {
			return col
		}
		return "MIN(" + col + ") AS " + col
	}
	cols := []string{sel(core.ActivityProjectColumn), "MIN(p_title) AS p_title"}
	if req.IncludePages {
		cols = append(cols, "MIN(tp_id) AS tp_id", "MIN(tp_title) AS tp_title")
	}
	cols = append(cols, sel(core.ActivityNamespaceColumn),
		"SUM(pa_edits) AS edits", "COUNT(pa_page_id) AS pages", "MIN(p_created) AS p_created")

	q := s.builder.Select(cols...).
		From("project").
		Join("project_activity ON pa_project_id = p_id")
	if req.IncludePages {
		q = q.Join("ts_pages ON pa_page_id = tp_id")
	}
	q = q.Where(sq.Eq{"pa_ww_from": req.Week}).
		GroupBy(req.Groups...).
		OrderBy("edits DESC")

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build activity query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query project activity: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ActivityRow
	for rows.Next() {
		var row schema.ActivityRow
		dest := []any{&row.ProjectID, &row.ProjectTitle}
		var pageID int64
		var pageTitle string
		if req.IncludePages {
			dest = append(dest, &pageID, &pageTitle)
		}
		dest = append(dest, &row.Namespace, &row.Edits, &row.Pages, &row.Created)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		if req.IncludePages {
			row.PageID = &pageID
			row.PageTitle = &pageTitle
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project activity: %w", err)
	}
	return results, nil
}

// ActiveProjectPages ranks one project's pages by snapshot edit count.
func (s *SQLStore) ActiveProjectPages(ctx context.Context, req *schema.ActivePagesRequest) ([]schema.ActivePageRow, error) {
	q := s.builder.Select("pa_page_id", "tp_title", "tp_namespace", "pa_edits").
		From("project_activity").
		Join("ts_pages ON tp_id = pa_page_id")
	if req.ProjectID > 0 {
		q = q.Where(sq.Eq{"pa_project_id": req.ProjectID})
	} else {
		q = q.Join("project ON p_id = pa_project_id").
			Where(sq.Eq{"p_title": req.Project})
	}
	q = q.Where(sq.Eq{"pa_ww_from": req.Week}).OrderBy("pa_edits DESC")
	if req.Limit > 0 {
		q = q.Limit(uint64(req.Limit))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build active page query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query active pages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ActivePageRow
	for rows.Next() {
		var row schema.ActivePageRow
		if err := rows.Scan(&row.PageID, &row.Title, &row.Namespace, &row.Edits); err != nil {
			return nil, fmt.Errorf("failed to scan active page row: %w", err)
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating active pages: %w", err)
	}
	return results, nil
}

// LinkEvents returns the full link ledger of the given project pages up to
// the end of the given week, oldest first. The lower bound is intentionally
// absent: reconstruction needs the pre-window history.
func (s *SQLStore) LinkEvents(ctx context.Context, pageIDs []int64, endWeek int) ([]schema.LinkEvent, error) {
	query, args, err := s.builder.Select(
		"pm_user_id", "pm_user_name", "pm_link_date", "pm_link_removed",
		"pm_project_id", "pm_page_id", "tp_title", "tp_namespace").
		From("project_user_links").
		Join("ts_pages ON pm_page_id = tp_id").
		Where(sq.Eq{"pm_project_id": pageIDs}).
		Where(sq.Lt{"pm_link_date": weekCutoff(endWeek + 1)}).
		OrderBy("pm_link_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build link event query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query link events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.LinkEvent
	for rows.Next() {
		var ev schema.LinkEvent
		var removed int
		var ts tsColumn
		if err := rows.Scan(&ev.UserID, &ev.UserName, &ts, &removed,
			&ev.ProjectID, &ev.PageID, &ev.PageTitle, &ev.PageNamespace); err != nil {
			return nil, fmt.Errorf("failed to scan link event: %w", err)
		}
		ev.Timestamp = string(ts)
		ev.Removed = removed != 0
		week, err := core.TimestampToWeek(ev.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("failed to derive link week: %w", err)
		}
		ev.Week = week
		results = append(results, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating link events: %w", err)
	}
	return results, nil
}

// AnonCoords returns anonymous editors of one page with their geographic
// coordinates. Anonymous editors carry negative user ids in the cache.
func (s *SQLStore) AnonCoords(ctx context.Context, req *schema.AnonCoordsRequest) ([]schema.AnonCoordRow, error) {
	query, args, err := s.builder.Select(
		"tu_name", "SUM(rc_edits) AS edits", "MAX(rc_wikiweek) AS rc_wikiweek",
		"MIN(gl_lat) AS gl_lat", "MIN(gl_long) AS gl_long").
		From("reflex_cache").
		Join("ts_users ON tu_id = rc_user_id").
		LeftJoin("ts_users_block ON tu_name = tub_name").
		Join("geo_location ON tub_block = gl_id").
		Where(sq.Expr(
			"rc_page_id = (SELECT tp_id FROM ts_pages WHERE tp_title = ? AND tp_namespace = ?)",
			req.Page, req.Namespace)).
		Where(sq.Lt{"rc_user_id": 0}).
		Where("tub_block IS NOT NULL").
		Where(sq.GtOrEq{"rc_wikiweek": req.Window.StartWeek}).
		Where(sq.LtOrEq{"rc_wikiweek": req.Window.EndWeek}).
		GroupBy("tu_name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build anon coord query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query anon coords: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.AnonCoordRow
	for rows.Next() {
		var row schema.AnonCoordRow
		if err := rows.Scan(&row.UserName, &row.Edits, &row.Week, &row.Lat, &row.Long); err != nil {
			return nil, fmt.Errorf("failed to scan anon coord row: %w", err)
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating anon coords: %w", err)
	}
	return results, nil
}
