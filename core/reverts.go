package core

import (
	"github.com/wikireflex/reflex/schema"
)

type revertKey struct {
	user string
	week int
}

// GroupReverts folds raw revert events into per-user, per-week counts,
// keeping only events inside the window. The page title and namespace of a
// group come from its first event. Groups appear in first-seen order.
func GroupReverts(rows []schema.RevertRow, window schema.TimeWindow) []schema.RevertRecord {
	var out []schema.RevertRecord
	index := map[revertKey]int{}
	for _, row := range rows {
		if !window.Contains(row.Week) {
			continue
		}
		key := revertKey{user: row.UserName, week: row.Week}
		if i, ok := index[key]; ok {
			out[i].Count++
			continue
		}
		index[key] = len(out)
		out = append(out, schema.RevertRecord{
			User:          row.UserName,
			Week:          row.Week,
			PageTitle:     row.PageTitle,
			PageNamespace: row.PageNamespace,
			Count:         1,
		})
	}
	return out
}
