package httpapi

import (
	"fmt"
	"net/http"
	"slices"
	"strconv"

	"github.com/wikireflex/reflex/core"
	"github.com/wikireflex/reflex/schema"
)

func intParam(r *http.Request, key string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return v
}

func boolParam(r *http.Request, key string) bool {
	switch r.URL.Query().Get(key) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// limitParam falls back to def when the parameter is absent or non-numeric.
// An explicit value <= 0 is passed through and means "no limit".
func limitParam(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func (s *Server) handleEdits(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := &core.EditParams{
		User:        q.Get("user"),
		UserID:      q.Get("userid"),
		Page:        q.Get("page"),
		PageID:      q.Get("pageid"),
		PageWeek:    q.Get("pageweek"),
		ProjectID:   q.Get("projectid"),
		Subpages:    boolParam(r, "subpages"),
		Namespace:   q.Get("namespace"),
		StartDate:   q.Get("sd"),
		EndDate:     q.Get("ed"),
		StartWeek:   intParam(r, "sw"),
		EndWeek:     intParam(r, "ew"),
		Limit:       limitParam(r, "limit", schema.DefaultEditLimit),
		Order:       q.Get("order"),
		Ascending:   q.Get("direction") == "asc",
		Group:       q.Get("group"),
		Assessment:  boolParam(r, "assessment"),
		ExcludeBots: boolParam(r, "excludeBots"),
	}
	records, err := s.composer.Edits(r.Context(), params, s.now().UTC())
	if err != nil {
		s.fail(w, err)
		return
	}
	if records == nil {
		records = []schema.EditRecord{}
	}
	s.success(w, fmt.Sprintf("Fetched %d rows", len(records)), records)
}

func (s *Server) handleReverts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := &core.RevertParams{
		User:      q.Get("user"),
		Namespace: q.Get("namespace"),
		StartDate: q.Get("sd"),
		EndDate:   q.Get("ed"),
		StartWeek: intParam(r, "sw"),
		EndWeek:   intParam(r, "ew"),
		Limit:     limitParam(r, "limit", schema.DefaultRevertLimit),
	}
	records, err := s.composer.Reverts(r.Context(), params, s.now().UTC())
	if err != nil {
		s.fail(w, err)
		return
	}
	if records == nil {
		records = []schema.RevertRecord{}
	}
	s.success(w, fmt.Sprintf("Fetched %d rows", len(records)), records)
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.Projects(r.Context(), r.URL.Query().Get("title"))
	if err != nil {
		s.fail(w, err)
		return
	}
	if rows == nil {
		rows = []schema.Project{}
	}
	s.success(w, fmt.Sprintf("Fetched %d rows", len(rows)), rows)
}

func (s *Server) handleProjectPages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	project := q.Get("project")
	pageID := q.Get("pageid")
	if project == "" && pageID == "" {
		s.fail(w, schema.Validationf("Must include either project or pageid argument"))
		return
	}

	req := &schema.ProjectPagesRequest{Project: project}
	key := project
	if pageID != "" {
		id, err := strconv.ParseInt(pageID, 10, 64)
		if err != nil {
			s.fail(w, schema.Validationf("pageid must be numeric"))
			return
		}
		req.PageID = id
		key = pageID
	}

	rows, err := s.store.ProjectPages(r.Context(), req)
	if err != nil {
		s.fail(w, err)
		return
	}
	// Nested result keyed by whichever addressing form the caller used.
	result := map[string][]schema.ProjectPage{}
	if len(rows) > 0 {
		result[key] = rows
	}
	s.success(w, fmt.Sprintf("Fetched %d project pages.", len(rows)), result)
}

func (s *Server) handleActiveProjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cols := core.ParseActivityGroups(q.Get("group"))

	week, err := s.store.LatestActivityWeek(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	rows, err := s.store.ProjectActivity(r.Context(), &schema.ActivityRequest{
		Week:         week,
		Groups:       cols,
		IncludePages: slices.Contains(cols, core.ActivityTitleColumn),
	})
	if err != nil {
		s.fail(w, err)
		return
	}

	if q.Get("compress") == "project" {
		matrix := core.BuildActivityMatrix(rows)
		s.success(w, fmt.Sprintf("Fetched %d projects", len(matrix)), matrix)
		return
	}
	if rows == nil {
		rows = []schema.ActivityRow{}
	}
	s.success(w, fmt.Sprintf("Fetched %d projects", len(rows)), rows)
}

func (s *Server) handleActiveProjectPages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	project := q.Get("project")
	projectID, _ := strconv.ParseInt(q.Get("project_id"), 10, 64)
	if project == "" && projectID == 0 {
		s.fail(w, schema.Validationf("Either project or project_id is required"))
		return
	}

	week, err := s.store.LatestActivityWeek(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	rows, err := s.store.ActiveProjectPages(r.Context(), &schema.ActivePagesRequest{
		Week:      week,
		ProjectID: projectID,
		Project:   project,
		Limit:     limitParam(r, "limit", schema.DefaultActivePages),
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	if rows == nil {
		rows = []schema.ActivePageRow{}
	}
	s.success(w, fmt.Sprintf("Fetched %d pages", len(rows)), rows)
}

func (s *Server) handleProjectMembers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	members, err := s.composer.Members(r.Context(), &core.MemberParams{
		Project:   q.Get("project"),
		PageIDs:   q.Get("pageid"),
		StartDate: q.Get("sd"),
		EndDate:   q.Get("ed"),
	}, s.now().UTC())
	if err != nil {
		s.fail(w, err)
		return
	}
	s.success(w, fmt.Sprintf("Fetched %d members", len(members)), members)
}

func (s *Server) handleProjectUserLinks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	events, err := s.composer.UserLinks(r.Context(), &core.MemberParams{
		Project:   q.Get("project"),
		PageIDs:   q.Get("pageid"),
		StartDate: q.Get("sd"),
		EndDate:   q.Get("ed"),
	}, s.now().UTC())
	if err != nil {
		s.fail(w, err)
		return
	}
	s.success(w, fmt.Sprintf("Fetched %d link events", len(events)), events)
}

func (s *Server) handleAnonCoords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, namespace := q.Get("page"), q.Get("namespace")
	if page == "" || namespace == "" {
		s.fail(w, schema.Validationf("'page' and 'namespace' arguments are required."))
		return
	}
	window, err := core.ResolveDateWindow(q.Get("sd"), q.Get("ed"), s.now().UTC())
	if err != nil {
		s.fail(w, err)
		return
	}
	rows, err := s.store.AnonCoords(r.Context(), &schema.AnonCoordsRequest{
		Page:      page,
		Namespace: namespace,
		Window:    window,
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	if rows == nil {
		rows = []schema.AnonCoordRow{}
	}
	s.success(w, fmt.Sprintf("Fetched %d rows", len(rows)), rows)
}
