package core

import (
	"strings"

	"github.com/wikireflex/reflex/schema"
)

// ParseGroupSpec turns a raw list like "page|user|date" into a canonical
// GroupSpec. Unrecognized tokens are dropped, duplicates collapse to their
// first position, and an empty result defaults to grouping by user.
func ParseGroupSpec(raw string) schema.GroupSpec {
	seen := make(map[schema.GroupDim]bool, 4)
	var dims []schema.GroupDim
	for _, tok := range strings.Split(raw, "|") {
		dim := schema.GroupDim(tok)
		switch dim {
		case schema.GroupUser, schema.GroupPage, schema.GroupDate, schema.GroupAssessment:
			if !seen[dim] {
				seen[dim] = true
				dims = append(dims, dim)
			}
		}
	}
	if len(dims) == 0 {
		dims = []schema.GroupDim{schema.GroupUser}
	}
	return schema.GroupSpec{Dims: dims}
}

// Grouping columns of the project activity snapshot.
const (
	ActivityProjectColumn   = "pa_project_id"
	ActivityNamespaceColumn = "pa_page_namespace"
	ActivityTitleColumn     = "pa_page_id"
)

// ParseActivityGroups maps a raw list like "project|namespace" onto snapshot
// grouping columns. Unrecognized tokens are dropped; the default is to group
// by project only.
func ParseActivityGroups(raw string) []string {
	var cols []string
	for _, tok := range strings.Split(raw, "|") {
		switch tok {
		case "project":
			cols = append(cols, ActivityProjectColumn)
		case "namespace":
			cols = append(cols, ActivityNamespaceColumn)
		case "title":
			cols = append(cols, ActivityTitleColumn)
		}
	}
	if len(cols) == 0 {
		cols = []string{ActivityProjectColumn}
	}
	return cols
}

// ShapeEditRecords projects scanned rows onto their serialized form. Which
// optional fields appear is driven by membership in the group list,
// independent of how grouping was applied at retrieval.
func ShapeEditRecords(rows []schema.EditRow, spec schema.GroupSpec) []schema.EditRecord {
	records := make([]schema.EditRecord, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		rec := schema.EditRecord{
			UserID:    row.UserID,
			UserName:  row.UserName,
			Edits:     row.Edits,
			UserGroup: row.UserGroup,
		}
		if spec.Has(schema.GroupPage) {
			rec.PageID = &row.PageID
			rec.PageNamespace = &row.PageNamespace
			rec.PageTitle = &row.PageTitle
		}
		if spec.Has(schema.GroupDate) {
			rec.Week = &row.Week
		}
		if spec.Has(schema.GroupPage) || spec.Has(schema.GroupAssessment) {
			rec.Assessment = row.Assessment
		}
		records = append(records, rec)
	}
	return records
}
