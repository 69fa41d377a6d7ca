package schema

// groupColumns is the fixed mapping from grouping dimension to the
// retrieval grouping column.
var groupColumns = map[GroupDim]string{
	GroupUser:       "tu_name",
	GroupPage:       "rc_page_id",
	GroupDate:       "rc_wikiweek",
	GroupAssessment: "pa_assessment",
}

// GroupSpec is an ordered, de-duplicated list of grouping dimensions. It
// determines both the retrieval grouping key and which optional fields each
// output record carries.
type GroupSpec struct {
	Dims []GroupDim
}

// Has reports whether the spec contains the given dimension.
func (s GroupSpec) Has(d GroupDim) bool {
	for _, dim := range s.Dims {
		if dim == d {
			return true
		}
	}
	return false
}

// Columns returns the retrieval grouping columns in spec order.
func (s GroupSpec) Columns() []string {
	cols := make([]string, 0, len(s.Dims))
	for _, dim := range s.Dims {
		cols = append(cols, groupColumns[dim])
	}
	return cols
}
