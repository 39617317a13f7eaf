// Package dates holds the calendar arithmetic used by the scheduled jobs and the
// aggregation engine. Everything operates on the bot's home timezone (Europe/Oslo)
// and on dates formatted as YYYY-MM-DD.
package dates

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ISODate is the date format used as keys in the insights and thread records
const ISODate = "2006-01-02"

// ISOMonth is the month prefix (YYYY-MM) used to group dates for the monthly summaries
const ISOMonth = "2006-01"

// Location returns the bot's home time location
func Location() (loc *time.Location, err error) {
	loc, err = time.LoadLocation("Europe/Oslo")
	if err != nil {
		return nil, errors.Wrap(err, "failed to load Europe/Oslo location")
	}

	return loc, nil
}

// StartOfISOWeek returns the Monday of the ISO week that t falls in, truncated
// to midnight in t's location
func StartOfISOWeek(t time.Time) (monday time.Time) {
	weekday := int(t.Weekday())
	if weekday == 0 {
		// time.Sunday is 0 but it's the last day of an ISO week
		weekday = 7
	}

	monday = t.AddDate(0, 0, -(weekday - 1))
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, t.Location())
}

// LastBusinessDayOfMonth returns the last weekday of t's month, rolling a
// Saturday or Sunday month-end back to the preceding Friday
func LastBusinessDayOfMonth(t time.Time) (last time.Time) {
	firstOfNext := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, 1, 0)
	last = firstOfNext.AddDate(0, 0, -1)

	switch last.Weekday() {
	case time.Saturday:
		last = last.AddDate(0, 0, -1)
	case time.Sunday:
		last = last.AddDate(0, 0, -2)
	}

	return last
}

// IsBusinessDay returns true for Monday through Friday
func IsBusinessDay(t time.Time) bool {
	return t.Weekday() != time.Saturday && t.Weekday() != time.Sunday
}

// SameDate returns true if both times fall on the same calendar date in their
// respective locations
func SameDate(a time.Time, b time.Time) bool {
	return a.Format(ISODate) == b.Format(ISODate)
}

// MonthOf returns the YYYY-MM prefix of a YYYY-MM-DD date string
func MonthOf(date string) (month string) {
	if len(date) < len(ISOMonth) {
		return date
	}

	return date[:len(ISOMonth)]
}

// TimeOfSlackTimestamp converts a slack message timestamp (i.e. "1717401600.000200")
// to a time in the given location
func TimeOfSlackTimestamp(ts string, loc *time.Location) (t time.Time, err error) {
	seconds := ts
	if i := strings.Index(ts, "."); i >= 0 {
		seconds = ts[:i]
	}

	epoch, err := strconv.ParseInt(seconds, 10, 64)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "invalid slack timestamp [%s]", ts)
	}

	return time.Unix(epoch, 0).In(loc), nil
}
