// Package dates handles the date labels report sheets use to identify a
// day's row, which drop leading zeros inconsistently ("Nov 1" vs "Nov 01").
package dates

import (
	"fmt"
	"strings"
	"time"
)

const (
	reportDateFormat     = "02-Jan-2006"
	reportDateFormatLong = "02-January-2006"
)

// ParseReportDate parses the date argument formats the tool accepts,
// e.g. "13-Oct-2025" or "13-October-2025".
func ParseReportDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(reportDateFormat, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(reportDateFormatLong, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid report date %q, expected DD-MMM-YYYY", s)
}

// Label returns the canonical sheet label for a date, without a leading
// zero on the day.
func Label(date time.Time) string {
	return date.Format("Jan 2")
}

// MatchesLabel reports whether a sheet cell refers to the given date. Both
// zero-padded and bare day forms match, with or without a trailing year.
func MatchesLabel(date time.Time, cell string) bool {
	cell = strings.TrimSpace(cell)
	padded := date.Format("Jan 02")
	bare := date.Format("Jan 2")

	return cell == padded || cell == bare ||
		strings.HasPrefix(cell, padded+" ") || strings.HasPrefix(cell, bare+" ")
}
