// Package core implements the query composition and temporal reconstruction
// logic of reflex: time-window normalization, filter predicate construction,
// grouping specs, the case-insensitive user retry protocol, membership
// timeline reconstruction and the project activity matrix.
package core

import (
	"fmt"
	"time"

	"github.com/wikireflex/reflex/schema"
)

// DateFormat is the 8-digit calendar date format used by all date inputs.
const DateFormat = "20060102"

// TimestampFormat is the raw datetime format stored in the ledger tables.
// Some tables carry the compact 14-digit wiki form instead; TimestampToWeek
// accepts both.
const (
	TimestampFormat        = "2006-01-02 15:04:05"
	compactTimestampFormat = "20060102150405"
)

// originDate is the canonical origin instant for wiki weeks: week 0 is the
// week starting 2001-01-01 (the start of the edit history). Every caller
// must convert through this single origin; a diverging epoch silently
// corrupts all downstream week comparisons.
var originDate = time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)

const millisPerWeek = 7 * 24 * 60 * 60 * 1000

// floorDiv divides and rounds toward negative infinity, so dates before the
// origin map to negative weeks instead of truncating toward zero.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// DateToWeek converts an 8-digit date like "20090822" to its wiki week.
func DateToWeek(date string) (int, error) {
	t, err := time.ParseInLocation(DateFormat, date, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: %w", date, err)
	}
	ms := t.Sub(originDate).Milliseconds()
	return int(floorDiv(ms, millisPerWeek)), nil
}

// WeekToDate converts a wiki week back to the 8-digit date of its first day.
func WeekToDate(week int) string {
	return WeekStart(week).Format(DateFormat)
}

// WeekStart returns the instant at which the given wiki week begins.
func WeekStart(week int) time.Time {
	return originDate.Add(time.Duration(week) * 7 * 24 * time.Hour)
}

// TimestampToWeek converts a raw ledger datetime to its wiki week.
func TimestampToWeek(ts string) (int, error) {
	t, err := time.ParseInLocation(TimestampFormat, ts, time.UTC)
	if err != nil {
		t, err = time.ParseInLocation(compactTimestampFormat, ts, time.UTC)
	}
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp %q: %w", ts, err)
	}
	ms := t.Sub(originDate).Milliseconds()
	return int(floorDiv(ms, millisPerWeek)), nil
}

// WindowInput carries the raw time range parameters of a request. Zero
// values mean the parameter was absent.
type WindowInput struct {
	StartDate string // sd, 8-digit date
	EndDate   string // ed, 8-digit date
	StartWeek int    // sw, wins over StartDate
	EndWeek   int    // ew, wins over EndDate
}

// ResolveEditWindow normalizes the time range for edit-count retrievals.
// Explicit week values win over derived-from-date values; with neither
// given, the range is one year ending today. An invalid start (zero,
// negative, or past the end) is silently replaced with endWeek-55, a
// trailing ~56-week window. That repair is load-bearing compatibility
// behavior, not validation.
func ResolveEditWindow(in WindowInput, now time.Time) (schema.TimeWindow, error) {
	var s, e int

	switch {
	case in.StartWeek != 0:
		s = in.StartWeek
	case in.StartDate != "":
		w, err := DateToWeek(in.StartDate)
		if err != nil {
			return schema.TimeWindow{}, err
		}
		s = w
	default:
		w, err := DateToWeek(now.UTC().AddDate(-1, 0, 0).Format(DateFormat))
		if err != nil {
			return schema.TimeWindow{}, err
		}
		s = w
	}

	switch {
	case in.EndWeek != 0:
		e = in.EndWeek
	case in.EndDate != "":
		w, err := DateToWeek(in.EndDate)
		if err != nil {
			return schema.TimeWindow{}, err
		}
		e = w
	default:
		w, err := DateToWeek(now.UTC().Format(DateFormat))
		if err != nil {
			return schema.TimeWindow{}, err
		}
		e = w
	}

	if s <= 0 || s > e {
		s = e - 55
	}
	return schema.TimeWindow{StartWeek: s, EndWeek: e}, nil
}

// ResolveRevertWindow normalizes the time range for revert retrievals.
// Week arguments take priority as a pair; the endWeek-55 repair applies
// only on that branch. Date arguments must come as a pair.
func ResolveRevertWindow(in WindowInput, now time.Time) (schema.TimeWindow, error) {
	if in.StartWeek != 0 || in.EndWeek != 0 {
		s, e := in.StartWeek, in.EndWeek
		if s <= 0 || s > e {
			s = e - 55
		}
		return schema.TimeWindow{StartWeek: s, EndWeek: e}, nil
	}
	if in.StartDate != "" || in.EndDate != "" {
		if in.StartDate == "" || in.EndDate == "" {
			return schema.TimeWindow{}, schema.Validationf("both sd and ed are required when filtering by date")
		}
		return windowFromDates(in.StartDate, in.EndDate)
	}
	return defaultYearWindow(now)
}

// ResolveDateWindow normalizes a date-only range: both dates or the default
// one-year range ending today.
func ResolveDateWindow(startDate, endDate string, now time.Time) (schema.TimeWindow, error) {
	if startDate != "" && endDate != "" {
		return windowFromDates(startDate, endDate)
	}
	return defaultYearWindow(now)
}

func windowFromDates(startDate, endDate string) (schema.TimeWindow, error) {
	s, err := DateToWeek(startDate)
	if err != nil {
		return schema.TimeWindow{}, err
	}
	e, err := DateToWeek(endDate)
	if err != nil {
		return schema.TimeWindow{}, err
	}
	return schema.TimeWindow{StartWeek: s, EndWeek: e}, nil
}

func defaultYearWindow(now time.Time) (schema.TimeWindow, error) {
	s, err := DateToWeek(now.UTC().AddDate(-1, 0, 0).Format(DateFormat))
	if err != nil {
		return schema.TimeWindow{}, err
	}
	e, err := DateToWeek(now.UTC().Format(DateFormat))
	if err != nil {
		return schema.TimeWindow{}, err
	}
	return schema.TimeWindow{StartWeek: s, EndWeek: e}, nil
}
