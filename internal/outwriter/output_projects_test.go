package outwriter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wikireflex/reflex/schema"
)

func sampleMatrix() []*schema.ProjectMatrix {
	return []*schema.ProjectMatrix{
		{
			ProjectID:  10,
			Title:      "Chess",
			TotalEdits: 900,
			TotalPages: 40,
			Namespaces: map[int]int64{0: 700, 1: 150, 4: 50},
		},
		{
			ProjectID:  11,
			Title:      "Trains",
			TotalEdits: 300,
			TotalPages: 12,
			Namespaces: map[int]int64{0: 280, 1: 20, 4: 0},
		},
		{
			ProjectID:  12,
			Title:      "Obscure Topics",
			TotalEdits: 25,
			TotalPages: 3,
			Namespaces: map[int]int64{0: 25, 1: 0, 4: 0},
		},
	}
}

func TestWriteProjectTable(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	err := WriteProjectTable(sampleMatrix(), 10, 120, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Chess")
	assert.Contains(t, out, "Trains")
	assert.Contains(t, out, "900")
	assert.Contains(t, out, "Showing top 3 projects (total edits: 1225, total pages: 55)")
}

func TestWriteProjectTableLimit(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	err := WriteProjectTable(sampleMatrix(), 1, 120, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Chess")
	assert.NotContains(t, out, "Trains")
	assert.Contains(t, out, "Showing top 1 projects")
}

func TestActivityPlainLabel(t *testing.T) {
	assert.Equal(t, HighValue, ActivityPlainLabel(900, 900))
	assert.Equal(t, ModerateValue, ActivityPlainLabel(300, 900))
	assert.Equal(t, LowValue, ActivityPlainLabel(25, 900))
	assert.Equal(t, LowValue, ActivityPlainLabel(0, 0))
}

func TestTruncateTitle(t *testing.T) {
	long := strings.Repeat("a", 40)
	assert.Equal(t, long[:12]+"...", truncateTitle(long, 15))
	assert.Equal(t, "short", truncateTitle("short", 15))
}
