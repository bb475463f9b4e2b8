package calculator

import (
	"fmt"
	"time"

	"github.com/mmynk/billminder/internal/models"
)

const (
	// DateLayout is the wire and storage format of date-only values.
	DateLayout = "2006-01-02"

	day = 24 * time.Hour
)

// ReferenceZone returns a fixed-offset zone (no daylight saving) for the given
// offset in hours from UTC. The default deployment uses -5 (Bogota).
func ReferenceZone(offsetHours int) *time.Location {
	name := fmt.Sprintf("UTC%+03d", offsetHours)
	if offsetHours == -5 {
		name = "COT"
	}
	return time.FixedZone(name, offsetHours*60*60)
}

// Today returns the calendar date of now as seen in loc.
// Date-only values are always represented as midnight UTC.
func Today(now time.Time, loc *time.Location) time.Time {
	y, m, d := now.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDateOnly parses a YYYY-MM-DD string into a date-only value.
func ParseDateOnly(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate formats a date-only value as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// AddInterval adds interval units to date. Month and year steps clamp the
// day-of-month to the last day of the target month. Intervals below one count as one.
func AddInterval(date time.Time, unit models.FrequencyUnit, interval int) time.Time {
	if interval < 1 {
		interval = 1
	}
	switch unit {
	case models.UnitDay:
		return date.AddDate(0, 0, interval)
	case models.UnitWeek:
		return date.AddDate(0, 0, 7*interval)
	case models.UnitYear:
		return AddYearsClamped(date, interval)
	default:
		return AddMonthsClamped(date, interval)
	}
}

// AddMonthsClamped adds months to a date, e.g. Jan 31 + 1 month is Feb 28 (or 29).
// time.AddDate would normalize Feb 31 into March instead.
func AddMonthsClamped(t time.Time, months int) time.Time {
	year, month, d := t.Date()
	first := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	return clampDay(first, d)
}

// AddYearsClamped adds years to a date; Feb 29 lands on Feb 28 in non-leap years.
func AddYearsClamped(t time.Time, years int) time.Time {
	year, month, d := t.Date()
	first := time.Date(year+years, month, 1, 0, 0, 0, 0, time.UTC)
	return clampDay(first, d)
}

// clampDay returns the given day of first's month, or the month's last day if shorter.
func clampDay(first time.Time, d int) time.Time {
	// day 0 of the following month is the last day of this one
	lastDay := time.Date(first.Year(), first.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if d > lastDay {
		d = lastDay
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole days from a to b, rounded down.
func DaysBetween(a, b time.Time) int {
	diff := b.Sub(a)
	days := diff / day
	if diff < 0 && diff%day != 0 {
		days--
	}
	return int(days)
}

// MonthWindow returns the half-open interval [start, end) covering the calendar
// month of today, with both bounds at local midnight in loc.
func MonthWindow(today time.Time, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}
