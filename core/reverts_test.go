package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wikireflex/reflex/schema"
)

func TestGroupReverts(t *testing.T) {
	window := schema.TimeWindow{StartWeek: 200, EndWeek: 300}
	rows := []schema.RevertRow{
		{UserName: "Alice", Week: 210, PageTitle: "Chess", PageNamespace: 0},
		{UserName: "Alice", Week: 210, PageTitle: "Chess_opening", PageNamespace: 0},
		{UserName: "Alice", Week: 211, PageTitle: "Chess", PageNamespace: 0},
		{UserName: "Bob", Week: 210, PageTitle: "Go", PageNamespace: 0},
		{UserName: "Alice", Week: 500, PageTitle: "Chess", PageNamespace: 0},
	}

	records := GroupReverts(rows, window)
	require.Len(t, records, 3)

	// First-seen order, and the first event of a group owns its title.
	assert.Equal(t, schema.RevertRecord{
		User: "Alice", Week: 210, PageTitle: "Chess", PageNamespace: 0, Count: 2,
	}, records[0])
	assert.Equal(t, schema.RevertRecord{
		User: "Alice", Week: 211, PageTitle: "Chess", PageNamespace: 0, Count: 1,
	}, records[1])
	assert.Equal(t, schema.RevertRecord{
		User: "Bob", Week: 210, PageTitle: "Go", PageNamespace: 0, Count: 1,
	}, records[2])
}

func TestGroupRevertsEmpty(t *testing.T) {
	records := GroupReverts(nil, schema.TimeWindow{StartWeek: 1, EndWeek: 2})
	assert.Empty(t, records)
}
