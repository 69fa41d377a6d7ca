// Package schema has configs, models and shared constants for all parts of reflex.
package schema

import (
	"encoding/json"
	"strconv"
)

// TimeWindow is a validated, inclusive range of wiki weeks.
// Week 0 is the week starting at the origin date (2001-01-01).
// A window is created per request and never mutated afterwards.
type TimeWindow struct {
	StartWeek int
	EndWeek   int
}

// Contains reports whether the given week falls inside the window.
func (w TimeWindow) Contains(week int) bool {
	return week >= w.StartWeek && week <= w.EndWeek
}

// UserIdentity is a user id/name pair from the ts_users table.
type UserIdentity struct {
	ID   int64  `json:"tu_id"`
	Name string `json:"tu_name"`
}

// EditRow is one scanned row of the edit-count retrieval. All columns are
// always scanned; which ones are serialized is decided by the GroupSpec.
type EditRow struct {
	UserID        int64
	UserName      string
	PageID        int64
	PageNamespace int
	Edits         int64
	Week          int
	PageTitle     string
	UserGroup     string // empty when the user has no group row
	Assessment    string // empty unless assessments were joined
}

// EditRecord is the serialized form of an EditRow. Optional fields are
// pointers so absent dimensions are omitted from the JSON payload entirely.
type EditRecord struct {
	UserID        int64   `json:"tu_id"`
	UserName      string  `json:"tu_name"`
	Edits         int64   `json:"rc_edits"`
	PageID        *int64  `json:"rc_page_id,omitempty"`
	PageNamespace *int    `json:"rc_page_namespace,omitempty"`
	PageTitle     *string `json:"tp_title,omitempty"`
	Week          *int    `json:"rc_wikiweek,omitempty"`
	UserGroup     string  `json:"tug_group,omitempty"`
	Assessment    string  `json:"pa_assessment,omitempty"`
}

// RevertRow is one raw revert event scanned from n_page_reverts.
type RevertRow struct {
	UserName      string
	Week          int
	PageTitle     string
	PageNamespace int
}

// RevertRecord is a (user, week) revert count in the serialized payload.
type RevertRecord struct {
	User          string `json:"user"`
	Week          int    `json:"week"`
	PageTitle     string `json:"page_title"`
	PageNamespace int    `json:"page_ns"`
	Count         int64  `json:"count"`
}

// Project is one row of the project table.
type Project struct {
	ID      int64  `json:"p_id"`
	Title   string `json:"p_title"`
	Created string `json:"p_created"`
}

// ProjectPage is one page within the scope of a project.
type ProjectPage struct {
	ID             int64  `json:"pp_id"`
	ProjectID      int64  `json:"pp_project_id"`
	ParentCategory string `json:"pp_parent_category"`
	Title          string `json:"tp_title"`
	Namespace      int    `json:"tp_namespace"`
}

// ActivityRow is one grouped row of the project_activity snapshot for the
// most recent recorded period. PageID/PageTitle are set only when the
// retrieval grouped by page title.
type ActivityRow struct {
	ProjectID    int64   `json:"p_id"`
	ProjectTitle string  `json:"p_title"`
	Created      string  `json:"p_created"`
	PageID       *int64  `json:"tp_id,omitempty"`
	PageTitle    *string `json:"tp_title,omitempty"`
	Namespace    int     `json:"pa_page_namespace"`
	Edits        int64   `json:"edits"`
	Pages        int64   `json:"pages"`
}

// ActivePageRow is one page of a project ranked by snapshot edit count.
type ActivePageRow struct {
	PageID    int64  `json:"pa_page_id"`
	Title     string `json:"tp_title"`
	Namespace int    `json:"tp_namespace"`
	Edits     int64  `json:"pa_edits"`
}

// LinkEvent is one entry of the membership ledger: a user link added to or
// removed from a project page at a point in time. The store returns events
// in strictly ascending timestamp order; the reconstructor never re-sorts.
type LinkEvent struct {
	ProjectID     int64
	PageID        int64
	UserID        int64
	UserName      string
	Week          int
	Timestamp     string // raw link date, e.g. "2011-03-02 18:04:11"
	Removed       bool
	PageTitle     string
	PageNamespace int
}

// MemberCurrent is the MemberTo sentinel for a membership that is still open.
const MemberCurrent = "current"

// MemberRecord is the reconstructed membership of one user on one project
// page. LinkCount can go negative when the ledger holds more removals than
// additions (incomplete pre-epoch history); the value is carried through
// unclamped so callers can observe the anomaly.
type MemberRecord struct {
	PageTitle     string `json:"tp_title"`
	PageNamespace int    `json:"tp_namespace"`
	PageID        int64  `json:"pm_page_id"`
	UserID        int64  `json:"pm_user_id"`
	UserName      string `json:"pm_user_name"`
	LinkCount     int    `json:"link_count"`
	MemberSince   string `json:"member_since"`
	MemberTo      string `json:"member_to"`
}

// MemberSet is the full reconstruction result, keyed by user name and then
// by page id. A user with zero retained pages is not present at all.
type MemberSet map[string]map[int64]*MemberRecord

// AnonCoordRow is an anonymous editor of a page with geographic coordinates.
type AnonCoordRow struct {
	UserName string  `json:"tu_name"`
	Edits    int64   `json:"edits"`
	Week     int     `json:"rc_wikiweek"`
	Lat      float64 `json:"gl_lat"`
	Long     float64 `json:"gl_long"`
}

// ProjectMatrix is the dense per-project activity record: one edit-count
// column per namespace in the fixed vocabulary, zero-filled for namespaces
// with no activity, plus the three rollup totals.
type ProjectMatrix struct {
	ProjectID         int64
	Title             string
	Created           string
	TotalEdits        int64
	TotalPages        int64
	TotalProjectPages int64
	Namespaces        map[int]int64
}

// MarshalJSON flattens the namespace counters into top-level keys so the
// payload matches the wire format consumers expect:
// {"p_id":..,"0":..,"1":..,"total_edits":..}.
func (m *ProjectMatrix) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(m.Namespaces)+6)
	out["p_id"] = m.ProjectID
	out["p_title"] = m.Title
	out["p_created"] = m.Created
	out["total_edits"] = m.TotalEdits
	out["total_pages"] = m.TotalPages
	out["total_project_pages"] = m.TotalProjectPages
	for ns, edits := range m.Namespaces {
		out[strconv.Itoa(ns)] = edits
	}
	return json.Marshal(out)
}

// Envelope statuses.
const (
	StatusSuccess = "success"
	StatusFail    = "fail"
)

// Envelope is the JSON wrapper around every API response. On failure the
// result field is omitted.
type Envelope struct {
	Message     string `json:"message"`
	ErrorStatus string `json:"errorstatus"`
	Result      any    `json:"result,omitempty"`
}
