package booking

import "time"

// All booking dates are civil dates carried as midnight-UTC time.Time values.

// Date builds a civil date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Midnight truncates a timestamp to its civil date.
func Midnight(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// DaysBetween returns the number of nights in [start, end).
func DaysBetween(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}

// LastWeekdayOnOrBefore returns day itself if it falls on weekday, otherwise
// the most recent prior occurrence. Used to find the start of the current
// aligned week.
func LastWeekdayOnOrBefore(day time.Time, weekday time.Weekday) time.Time {
	back := (int(day.Weekday()) - int(weekday) + 7) % 7
	return day.AddDate(0, 0, -back)
}

// MonthRange is a half-open slice of a stay clipped to one calendar month.
type MonthRange struct {
	Start time.Time
	End   time.Time // exclusive
}

// SplitMonthRanges splits [start, end) into contiguous month-aligned chunks,
// the first and last clipped to start and end. Quota checks are scoped per
// calendar month, so each chunk stays inside a single month.
func SplitMonthRanges(start, end time.Time) []MonthRange {
	var out []MonthRange
	for start.Before(end) {
		next := Date(start.Year(), start.Month(), 1).AddDate(0, 1, 0)
		if next.After(end) {
			next = end
		}
		out = append(out, MonthRange{Start: start, End: next})
		start = next
	}
	return out
}

// WeekDecomposition counts leading partial days before the first aligned week
// boundary, whole aligned weeks, and trailing partial days after the last.
type WeekDecomposition struct {
	LeadingDays  int
	Weeks        int
	TrailingDays int
}

// DecomposeWeeks splits [start, end) against the canonical week-start
// weekday. When the whole span is shorter than the leading partial segment
// the span is all leading days.
func DecomposeWeeks(start, end time.Time, weekStart time.Weekday) WeekDecomposition {
	total := DaysBetween(start, end)
	leading := (int(weekStart) - int(start.Weekday()) + 7) % 7
	if total <= leading {
		return WeekDecomposition{LeadingDays: total}
	}
	trailing := (int(end.Weekday()) - int(weekStart) + 7) % 7
	weeks := (total - leading - trailing) / 7
	return WeekDecomposition{LeadingDays: leading, Weeks: weeks, TrailingDays: trailing}
}
