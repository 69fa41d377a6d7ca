package core

import (
	"github.com/wikireflex/reflex/schema"
)

// ReconstructMembers replays a project's link ledger and returns who is a
// member of which page at the end of the window. Events must arrive in
// ascending timestamp order.
//
// A record is created on the first event for a (user, page) pair even when
// that event is a removal; an opening removal then leaves the count negative.
// When additions and removals balance out, the membership either closes at
// the balancing event's date (inside the window) or is discarded entirely
// (before the window started). A later addition reopens a closed membership.
func ReconstructMembers(events []schema.LinkEvent, window schema.TimeWindow) schema.MemberSet {
	set := schema.MemberSet{}
	for _, ev := range events {
		pages := set[ev.UserName]
		if pages == nil {
			pages = map[int64]*schema.MemberRecord{}
			set[ev.UserName] = pages
		}
		rec := pages[ev.PageID]
		if rec == nil {
			rec = &schema.MemberRecord{
				PageTitle:     ev.PageTitle,
				PageNamespace: ev.PageNamespace,
				PageID:        ev.PageID,
				UserID:        ev.UserID,
				UserName:      ev.UserName,
				MemberSince:   ev.Timestamp,
				MemberTo:      schema.MemberCurrent,
			}
			pages[ev.PageID] = rec
		}
		if !ev.Removed {
			rec.LinkCount++
			rec.MemberTo = schema.MemberCurrent
			continue
		}
		rec.LinkCount--
		// Only a removal can close a membership; an addition lifting a
		// negative count back to zero leaves it open.
		if rec.LinkCount == 0 {
			if ev.Week < window.StartWeek {
				delete(pages, ev.PageID)
			} else {
				rec.MemberTo = ev.Timestamp
			}
		}
	}
	for user, pages := range set {
		if len(pages) == 0 {
			delete(set, user)
		}
	}
	return set
}
