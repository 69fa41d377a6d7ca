package core

import (
	"github.com/wikireflex/reflex/schema"
)

// BuildActivityMatrix folds grouped activity rows into one dense record per
// project. Every namespace in the fixed vocabulary gets a column, zero-filled
// when the project had no activity there; namespaces outside the vocabulary
// still count toward the totals. Project namespace pages (4 and 5) also feed
// the total_project_pages rollup. Projects appear in first-seen order.
func BuildActivityMatrix(rows []schema.ActivityRow) []*schema.ProjectMatrix {
	var out []*schema.ProjectMatrix
	byProject := map[int64]*schema.ProjectMatrix{}
	for _, row := range rows {
		m := byProject[row.ProjectID]
		if m == nil {
			m = &schema.ProjectMatrix{
				ProjectID:  row.ProjectID,
				Title:      row.ProjectTitle,
				Created:    row.Created,
				Namespaces: make(map[int]int64, len(MatrixNamespaces)),
			}
			for _, ns := range MatrixNamespaces {
				m.Namespaces[ns] = 0
			}
			byProject[row.ProjectID] = m
			out = append(out, m)
		}
		m.TotalEdits += row.Edits
		m.TotalPages += row.Pages
		if _, ok := m.Namespaces[row.Namespace]; ok {
			m.Namespaces[row.Namespace] += row.Edits
		}
		if row.Namespace == ProjectNamespace || row.Namespace == ProjectTalkNamespace {
			m.TotalProjectPages += row.Pages
		}
	}
	return out
}
