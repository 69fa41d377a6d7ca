package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wikireflex/reflex/schema"
)

var fixedNow = time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)

func TestDateToWeek(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    int
		expectError bool
	}{
		{name: "origin day is week zero", input: "20010101", expected: 0},
		{name: "last day of week zero", input: "20010107", expected: 0},
		{name: "first day of week one", input: "20010108", expected: 1},
		{name: "one week before origin", input: "20001225", expected: -1},
		{name: "day before origin floors down", input: "20001231", expected: -1},
		{name: "empty date", input: "", expectError: true},
		{name: "dashed date rejected", input: "2009-08-22", expectError: true},
		{name: "non-numeric", input: "banana", expectError: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			week, err := DateToWeek(tc.input)
			if tc.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, week)
		})
	}
}

func TestDateToWeekMonotonic(t *testing.T) {
	// Later dates never map to an earlier week, including across the
	// origin and leap days.
	day := time.Date(2000, time.November, 1, 0, 0, 0, 0, time.UTC)
	prev := mustWeek(t, day.Format(DateFormat))
	for i := 0; i < 200; i++ {
		day = day.AddDate(0, 0, 1)
		week := mustWeek(t, day.Format(DateFormat))
		require.GreaterOrEqual(t, week, prev, "week regressed at %s", day.Format(DateFormat))
		prev = week
	}
}

func TestWeekRoundTrip(t *testing.T) {
	for _, week := range []int{0, 1, 55, 450, 1200} {
		date := WeekToDate(week)
		back, err := DateToWeek(date)
		require.NoError(t, err)
		assert.Equal(t, week, back, "week %d round-trips through %s", week, date)
	}
}

func TestTimestampToWeek(t *testing.T) {
	week, err := TimestampToWeek("2001-01-08 00:00:00")
	require.NoError(t, err)
	assert.Equal(t, 1, week)

	week, err = TimestampToWeek("2001-01-07 23:59:59")
	require.NoError(t, err)
	assert.Equal(t, 0, week)

	_, err = TimestampToWeek("20010108")
	assert.Error(t, err)
}

func TestResolveEditWindow(t *testing.T) {
	yearAgo := mustWeek(t, "20230315")
	today := mustWeek(t, "20240315")

	tests := []struct {
		name     string
		input    WindowInput
		expected schema.TimeWindow
	}{
		{
			name:     "explicit weeks pass through",
			input:    WindowInput{StartWeek: 400, EndWeek: 500},
			expected: schema.TimeWindow{StartWeek: 400, EndWeek: 500},
		},
		{
			name:     "weeks win over dates",
			input:    WindowInput{StartDate: "20010101", EndDate: "20010101", StartWeek: 400, EndWeek: 500},
			expected: schema.TimeWindow{StartWeek: 400, EndWeek: 500},
		},
		{
			name:     "dates derive weeks",
			input:    WindowInput{StartDate: "20010108", EndDate: "20010122"},
			expected: schema.TimeWindow{StartWeek: 1, EndWeek: 3},
		},
		{
			name:     "nothing given defaults to trailing year",
			input:    WindowInput{},
			expected: schema.TimeWindow{StartWeek: yearAgo, EndWeek: today},
		},
		{
			name:     "inverted range repaired to trailing 56 weeks",
			input:    WindowInput{StartWeek: 500, EndWeek: 400},
			expected: schema.TimeWindow{StartWeek: 345, EndWeek: 400},
		},
		{
			name:     "end week alone repairs the defaulted start",
			input:    WindowInput{EndWeek: 400},
			expected: schema.TimeWindow{StartWeek: 345, EndWeek: 400},
		},
		{
			name:     "negative start repaired",
			input:    WindowInput{StartWeek: -3, EndWeek: 100},
			expected: schema.TimeWindow{StartWeek: 45, EndWeek: 100},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			window, err := ResolveEditWindow(tc.input, fixedNow)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, window)
		})
	}

	_, err := ResolveEditWindow(WindowInput{StartDate: "bogus"}, fixedNow)
	assert.Error(t, err)
}

func TestResolveRevertWindow(t *testing.T) {
	window, err := ResolveRevertWindow(WindowInput{StartWeek: 200, EndWeek: 300}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, schema.TimeWindow{StartWeek: 200, EndWeek: 300}, window)

	// Week pair gets the same start repair as edit windows.
	window, err = ResolveRevertWindow(WindowInput{StartWeek: 300, EndWeek: 200}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, schema.TimeWindow{StartWeek: 145, EndWeek: 200}, window)

	window, err = ResolveRevertWindow(WindowInput{StartDate: "20010108", EndDate: "20010122"}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, schema.TimeWindow{StartWeek: 1, EndWeek: 3}, window)

	// A lone date is rejected rather than repaired.
	_, err = ResolveRevertWindow(WindowInput{StartDate: "20010108"}, fixedNow)
	var verr *schema.ValidationError
	assert.ErrorAs(t, err, &verr)

	window, err = ResolveRevertWindow(WindowInput{}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, schema.TimeWindow{StartWeek: mustWeek(t, "20230315"), EndWeek: mustWeek(t, "20240315")}, window)
}

func TestResolveDateWindow(t *testing.T) {
	window, err := ResolveDateWindow("20010108", "20010122", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, schema.TimeWindow{StartWeek: 1, EndWeek: 3}, window)

	// A lone date falls back to the default range.
	window, err = ResolveDateWindow("20010108", "", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, schema.TimeWindow{StartWeek: mustWeek(t, "20230315"), EndWeek: mustWeek(t, "20240315")}, window)
}

func TestTimeWindowContains(t *testing.T) {
	window := schema.TimeWindow{StartWeek: 10, EndWeek: 20}
	assert.True(t, window.Contains(10))
	assert.True(t, window.Contains(20))
	assert.False(t, window.Contains(9))
	assert.False(t, window.Contains(21))
}

func mustWeek(t *testing.T, date string) int {
	t.Helper()
	week, err := DateToWeek(date)
	require.NoError(t, err)
	return week
}
