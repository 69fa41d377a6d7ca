package core

import (
	"context"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/wikireflex/reflex/internal/contract"
	"github.com/wikireflex/reflex/schema"
)

// Composer turns raw request parameters into store queries and shapes the
// results. It owns the retry protocol for misspelled user names.
type Composer struct {
	store contract.Store
}

// NewComposer creates a Composer backed by the given store.
func NewComposer(store contract.Store) *Composer {
	return &Composer{store: store}
}

// EditParams carries the raw, unparsed parameters of an edit-count query.
type EditParams struct {
	User      string
	UserID    string
	Page      string
	PageID    string
	PageWeek  string
	ProjectID string
	Subpages  bool
	Namespace string

	StartDate string
	EndDate   string
	StartWeek int
	EndWeek   int

	Limit       int
	Order       string
	Ascending   bool
	Group       string
	Assessment  bool
	ExcludeBots bool
}

func (p *EditParams) hasDimension() bool {
	return p.User != "" || p.UserID != "" || p.Page != "" ||
		p.PageID != "" || p.PageWeek != "" || p.ProjectID != ""
}

// Edits resolves the window, assembles predicates and runs the edit query.
// When the exact query matches nothing and a user filter is present, the
// names are re-resolved case-insensitively and the query reruns keyed on the
// corrected user ids instead of the names.
func (c *Composer) Edits(ctx context.Context, params *EditParams, now time.Time) ([]schema.EditRecord, error) {
	if !params.hasDimension() {
		return nil, schema.Validationf("at least one of user, userid, page, pageid, pageweek or projectid is required")
	}

	window, err := ResolveEditWindow(WindowInput{
		StartDate: params.StartDate,
		EndDate:   params.EndDate,
		StartWeek: params.StartWeek,
		EndWeek:   params.EndWeek,
	}, now)
	if err != nil {
		return nil, err
	}

	spec := ParseGroupSpec(params.Group)

	// Dimension predicates other than the user name survive the retry
	// unchanged, so they are collected separately.
	base := []sq.Sqlizer{NamespacePredicate(params.Namespace, NamespaceField)}
	if params.UserID != "" {
		base = append(base, IDListPredicate(params.UserID, UserIDField))
	}
	if params.Page != "" {
		base = append(base, PagePredicate(params.Page, PageField, params.Subpages))
	}
	if params.PageID != "" {
		base = append(base, IDListPredicate(params.PageID, PageIDField))
	}
	if params.PageWeek != "" {
		base = append(base, PageWeekPredicate(params.PageWeek))
	}

	req := &schema.EditRequest{
		Window:      window,
		Group:       spec,
		Order:       parseOrder(params.Order),
		Descending:  !params.Ascending,
		Limit:       params.Limit,
		Assessment:  params.Assessment || spec.Has(schema.GroupAssessment),
		ExcludeBots: params.ExcludeBots,
		ProjectID:   params.ProjectID,
	}

	req.Filters = base
	if params.User != "" {
		req.Filters = append(base, UserPredicate(params.User, UserField))
	}

	rows, err := c.store.Edits(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 && params.User != "" {
		rows, err = c.retryByUserID(ctx, params.User, base, req)
		if err != nil {
			return nil, err
		}
	}
	return ShapeEditRecords(rows, spec), nil
}

// retryByUserID reruns an empty edit query keyed on the ids of users whose
// names match the requested ones up to letter case. Names that already
// matched exactly produced no rows on the first pass, so only corrected
// spellings are substituted. The project join is dropped on the rerun.
func (c *Composer) retryByUserID(ctx context.Context, rawUsers string, base []sq.Sqlizer, prev *schema.EditRequest) ([]schema.EditRow, error) {
	names := strings.Split(rawUsers, "|")
	identities, err := c.store.UsersByNameFold(ctx, names)
	if err != nil {
		return nil, err
	}
	if len(identities) == 0 {
		return nil, &schema.NoMatchingUserError{Names: names}
	}

	exact := make(map[string]bool, len(names))
	for _, n := range names {
		exact[n] = true
	}
	var ids []int64
	for _, id := range identities {
		if !exact[id.Name] {
			ids = append(ids, id.ID)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	req := &schema.EditRequest{
		Filters:     append(append([]sq.Sqlizer{}, base...), sq.Eq{UserIDField: ids}),
		Window:      prev.Window,
		Group:       prev.Group,
		Order:       prev.Order,
		Descending:  prev.Descending,
		Limit:       prev.Limit,
		Assessment:  prev.Assessment,
		ExcludeBots: prev.ExcludeBots,
	}
	return c.store.Edits(ctx, req)
}

// RevertParams carries the raw parameters of a revert query.
type RevertParams struct {
	User      string
	Namespace string

	StartDate string
	EndDate   string
	StartWeek int
	EndWeek   int

	Limit int
}

// Reverts retrieves revert events and folds them into per-user, per-week
// counts. The namespace filter applies to the page table column here, not
// the edit cache.
func (c *Composer) Reverts(ctx context.Context, params *RevertParams, now time.Time) ([]schema.RevertRecord, error) {
	if params.User == "" {
		return nil, schema.Validationf("'user' argument is required")
	}

	window, err := ResolveRevertWindow(WindowInput{
		StartDate: params.StartDate,
		EndDate:   params.EndDate,
		StartWeek: params.StartWeek,
		EndWeek:   params.EndWeek,
	}, now)
	if err != nil {
		return nil, err
	}

	req := &schema.RevertRequest{
		Filters: []sq.Sqlizer{
			NamespacePredicate(params.Namespace, "tp_namespace"),
			UserPredicate(params.User, UserField),
		},
		Window: window,
		Limit:  params.Limit,
	}

	rows, err := c.store.Reverts(ctx, req)
	if err != nil {
		return nil, err
	}
	records := GroupReverts(rows, window)
	if req.Limit > 0 && len(records) > req.Limit {
		records = records[:req.Limit]
	}
	return records, nil
}

// MemberParams addresses a project's link ledger: either a project title,
// whose page set is resolved first, or an explicit page id list that skips
// the resolution and scans exactly those pages.
type MemberParams struct {
	Project string
	PageIDs string // pipe-separated page ids

	StartDate string
	EndDate   string
}

// Members reconstructs the current membership of a project from its page
// link history up to the end of the window.
func (c *Composer) Members(ctx context.Context, params *MemberParams, now time.Time) (schema.MemberSet, error) {
	window, pageIDs, err := c.resolveLedgerScope(ctx, params, now)
	if err != nil {
		return nil, err
	}
	if len(pageIDs) == 0 {
		return schema.MemberSet{}, nil
	}
	events, err := c.store.LinkEvents(ctx, pageIDs, window.EndWeek)
	if err != nil {
		return nil, err
	}
	return ReconstructMembers(events, window), nil
}

// UserLinks returns the raw link ledger of a project inside the window,
// without reconstruction.
func (c *Composer) UserLinks(ctx context.Context, params *MemberParams, now time.Time) ([]schema.LinkEvent, error) {
	window, pageIDs, err := c.resolveLedgerScope(ctx, params, now)
	if err != nil {
		return nil, err
	}
	if len(pageIDs) == 0 {
		return []schema.LinkEvent{}, nil
	}
	events, err := c.store.LinkEvents(ctx, pageIDs, window.EndWeek)
	if err != nil {
		return nil, err
	}
	kept := make([]schema.LinkEvent, 0, len(events))
	for _, ev := range events {
		if ev.Week >= window.StartWeek {
			kept = append(kept, ev)
		}
	}
	return kept, nil
}

func (c *Composer) resolveLedgerScope(ctx context.Context, params *MemberParams, now time.Time) (schema.TimeWindow, []int64, error) {
	if params.Project == "" && params.PageIDs == "" {
		return schema.TimeWindow{}, nil, schema.Validationf("at least one of project or pageid is required")
	}
	window, err := ResolveDateWindow(params.StartDate, params.EndDate, now)
	if err != nil {
		return schema.TimeWindow{}, nil, err
	}
	if params.Project != "" {
		ids, err := c.store.ProjectPageIDs(ctx, params.Project)
		if err != nil {
			return schema.TimeWindow{}, nil, err
		}
		return window, ids, nil
	}
	return window, numericTokens(strings.Split(params.PageIDs, "|")), nil
}

func parseOrder(raw string) schema.OrderMode {
	if strings.EqualFold(raw, "date") {
		return schema.OrderDate
	}
	return schema.OrderCount
}
