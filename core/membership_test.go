package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wikireflex/reflex/schema"
)

func linkEvent(page int64, user, ts string, week int, removed bool) schema.LinkEvent {
	return schema.LinkEvent{
		ProjectID:     1,
		PageID:        page,
		UserID:        7,
		UserName:      user,
		Week:          week,
		Timestamp:     ts,
		Removed:       removed,
		PageTitle:     "Wikipedia:WikiProject_Chess",
		PageNamespace: 4,
	}
}

func TestReconstructMembersOpenMembership(t *testing.T) {
	window := schema.TimeWindow{StartWeek: 500, EndWeek: 600}
	set := ReconstructMembers([]schema.LinkEvent{
		linkEvent(42, "Alice", "2010-10-10 10:00:00", 510, false),
	}, window)

	require.Contains(t, set, "Alice")
	rec := set["Alice"][42]
	require.NotNil(t, rec)
	assert.Equal(t, 1, rec.LinkCount)
	assert.Equal(t, "2010-10-10 10:00:00", rec.MemberSince)
	assert.Equal(t, schema.MemberCurrent, rec.MemberTo)
	assert.Equal(t, "Wikipedia:WikiProject_Chess", rec.PageTitle)
}

func TestReconstructMembersClosedInsideWindow(t *testing.T) {
	window := schema.TimeWindow{StartWeek: 500, EndWeek: 600}
	set := ReconstructMembers([]schema.LinkEvent{
		linkEvent(42, "Alice", "2010-10-10 10:00:00", 510, false),
		linkEvent(42, "Alice", "2011-01-05 09:00:00", 523, true),
	}, window)

	rec := set["Alice"][42]
	require.NotNil(t, rec)
	assert.Equal(t, 0, rec.LinkCount)
	assert.Equal(t, "2010-10-10 10:00:00", rec.MemberSince)
	assert.Equal(t, "2011-01-05 09:00:00", rec.MemberTo)
}

func TestReconstructMembersBalancedBeforeWindowDiscarded(t *testing.T) {
	window := schema.TimeWindow{StartWeek: 500, EndWeek: 600}
	set := ReconstructMembers([]schema.LinkEvent{
		linkEvent(42, "Alice", "2008-01-01 00:00:00", 365, false),
		linkEvent(42, "Alice", "2008-06-01 00:00:00", 387, true),
	}, window)

	// Membership ended before the window started, so the user vanishes.
	assert.NotContains(t, set, "Alice")
}

func TestReconstructMembersReopened(t *testing.T) {
	window := schema.TimeWindow{StartWeek: 500, EndWeek: 600}
	set := ReconstructMembers([]schema.LinkEvent{
		linkEvent(42, "Alice", "2010-10-10 10:00:00", 510, false),
		linkEvent(42, "Alice", "2011-01-05 09:00:00", 523, true),
		linkEvent(42, "Alice", "2011-06-01 12:00:00", 544, false),
	}, window)

	rec := set["Alice"][42]
	require.NotNil(t, rec)
	assert.Equal(t, 1, rec.LinkCount)
	assert.Equal(t, schema.MemberCurrent, rec.MemberTo)
	// The original join date survives the close/reopen cycle.
	assert.Equal(t, "2010-10-10 10:00:00", rec.MemberSince)
}

func TestReconstructMembersRemovalFirst(t *testing.T) {
	window := schema.TimeWindow{StartWeek: 500, EndWeek: 600}
	set := ReconstructMembers([]schema.LinkEvent{
		linkEvent(42, "Alice", "2010-10-10 10:00:00", 510, true),
	}, window)

	// An opening removal still creates the record; the negative count is
	// carried through so the anomaly stays visible.
	rec := set["Alice"][42]
	require.NotNil(t, rec)
	assert.Equal(t, -1, rec.LinkCount)
	assert.Equal(t, schema.MemberCurrent, rec.MemberTo)
}

func TestReconstructMembersMultiplePages(t *testing.T) {
	window := schema.TimeWindow{StartWeek: 500, EndWeek: 600}
	set := ReconstructMembers([]schema.LinkEvent{
		linkEvent(42, "Alice", "2008-01-01 00:00:00", 365, false),
		linkEvent(42, "Alice", "2008-06-01 00:00:00", 387, true),
		linkEvent(43, "Alice", "2010-10-10 10:00:00", 510, false),
		linkEvent(42, "Bob", "2010-11-11 11:00:00", 514, false),
	}, window)

	require.Contains(t, set, "Alice")
	assert.Len(t, set["Alice"], 1)
	assert.Contains(t, set["Alice"], int64(43))
	require.Contains(t, set, "Bob")
	assert.Equal(t, 1, set["Bob"][42].LinkCount)
}
