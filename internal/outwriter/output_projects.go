// Package outwriter renders query results for the terminal.
package outwriter

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/wikireflex/reflex/core"
	"github.com/wikireflex/reflex/schema"
	"golang.org/x/term"
)

// Activity label constants.
const (
	HighValue     = "High"     // High value
	ModerateValue = "Moderate" // Moderate value
	LowValue      = "Low"      // Low value
)

// Color variables for console output.
var (
	highColor     = color.New(color.FgMagenta, color.Bold)
	moderateColor = color.New(color.FgYellow)
	lowColor      = color.New(color.FgCyan)
)

// ActivityPlainLabel buckets a project's edit count relative to the busiest
// project in the snapshot.
func ActivityPlainLabel(edits, maxEdits int64) string {
	if maxEdits <= 0 {
		return LowValue
	}
	share := float64(edits) / float64(maxEdits)
	switch {
	case share >= 0.6:
		return HighValue
	case share >= 0.2:
		return ModerateValue
	default:
		return LowValue
	}
}

// ActivityColorLabel returns a colored label for console output (table).
func ActivityColorLabel(edits, maxEdits int64) string {
	text := ActivityPlainLabel(edits, maxEdits)

	switch text {
	case HighValue:
		return highColor.Sprint(text)
	case ModerateValue:
		return moderateColor.Sprint(text)
	default: // "Low"
		return lowColor.Sprint(text)
	}
}

// maxTitleWidth calculates the maximum width for project titles in table
// output based on terminal width.
func maxTitleWidth(widthOverride int) int {
	termWidth := widthOverride

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default for narrow terminals and CI
			termWidth = 80
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the numeric columns with borders and padding
	available := termWidth - 60
	if available < 15 {
		return 15
	}
	if available > 60 {
		return 60
	}
	return available
}

// truncateTitle shortens a title to fit the table, keeping the leading runes.
func truncateTitle(title string, maxWidth int) string {
	runes := []rune(title)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return title
}

// WriteProjectTable writes the ranked project activity table.
func WriteProjectTable(matrix []*schema.ProjectMatrix, limit, widthOverride int, w io.Writer) error {
	if limit > 0 && len(matrix) > limit {
		matrix = matrix[:limit]
	}

	table := tablewriter.NewWriter(w)

	// 1. Define Headers
	table.Header([]string{"Rank", "Project", "Edits", "Pages", "Articles", "Talk", "Project NS", "Activity"})

	// 2. Configure Separators/Borders to match a minimal look
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	var maxEdits int64
	for _, m := range matrix {
		maxEdits = max(maxEdits, m.TotalEdits)
	}
	titleWidth := maxTitleWidth(widthOverride)
	var data [][]string
	var totalEdits, totalPages int64
	for i, m := range matrix {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			truncateTitle(m.Title, titleWidth),
			strconv.FormatInt(m.TotalEdits, 10),
			strconv.FormatInt(m.TotalPages, 10),
			strconv.FormatInt(m.Namespaces[core.ArticleNamespace], 10),
			strconv.FormatInt(m.Namespaces[core.ArticleNamespace+1], 10),
			strconv.FormatInt(m.Namespaces[core.ProjectNamespace], 10),
			ActivityColorLabel(m.TotalEdits, maxEdits),
		})
		totalEdits += m.TotalEdits
		totalPages += m.TotalPages
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing top %d projects (total edits: %d, total pages: %d)\n", len(matrix), totalEdits, totalPages)
	return err
}
