package schema

import (
	sq "github.com/Masterminds/squirrel"
)

// EditRequest is a fully composed edit-count retrieval. Filters are
// independent predicate fragments AND-combined by the store; an absent
// dimension simply contributes no fragment. Every literal inside a fragment
// travels as a bound placeholder argument, never as interpolated SQL text.
type EditRequest struct {
	Filters     []sq.Sqlizer
	Window      TimeWindow
	Group       GroupSpec
	Order       OrderMode
	Descending  bool
	Limit       int // <= 0 means no limit
	Assessment  bool
	ExcludeBots bool
	ProjectID   string // joins the project page set when non-empty
}

// RevertRequest retrieves raw revert events for grouping by (user, week).
type RevertRequest struct {
	Filters []sq.Sqlizer
	Window  TimeWindow
	Limit   int
}

// ProjectPagesRequest retrieves the page set of one project, addressed
// either by numeric project page id or by project title.
type ProjectPagesRequest struct {
	PageID  int64  // preferred when > 0
	Project string // resolved via the project namespace otherwise
}

// ActivityRequest retrieves the grouped activity snapshot for one week.
type ActivityRequest struct {
	Week         int64
	Groups       []string // validated grouping columns
	IncludePages bool     // joins page titles when grouping by page
}

// ActivePagesRequest ranks a project's pages by snapshot edit count.
type ActivePagesRequest struct {
	Week      int64
	ProjectID int64  // preferred when > 0
	Project   string // title lookup otherwise
	Limit     int
}

// AnonCoordsRequest retrieves anonymous editors of one page with their
// geographic coordinates.
type AnonCoordsRequest struct {
	Page      string
	Namespace string
	Window    TimeWindow
}
