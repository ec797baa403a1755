package dates

import (
	"fmt"
	"sort"
	"time"
)

// Layout is the wire format for calendar dates throughout the planner.
const Layout = "2006-01-02"

const hourLayout = "15:04:05"

func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

func Format(t time.Time) string {
	return t.Format(Layout)
}

// Range returns every calendar date from start to end inclusive.
// An empty slice is returned when start is after end.
func Range(start, end time.Time) []string {
	var out []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d.Format(Layout))
	}
	return out
}

func AddDays(date string, days int) (string, error) {
	t, err := Parse(date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, days).Format(Layout), nil
}

// DaysBetween returns the number of whole days from a to b.
func DaysBetween(a, b string) (int, error) {
	ta, err := Parse(a)
	if err != nil {
		return 0, err
	}
	tb, err := Parse(b)
	if err != nil {
		return 0, err
	}
	return int(tb.Sub(ta).Hours() / 24), nil
}

// YearMonth identifies one calendar month, used to batch price-calendar
// lookups per month instead of per day.
type YearMonth struct {
	Year  int
	Month int
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%d-%02d", ym.Year, ym.Month)
}

// Months returns the distinct months touched by the given dates, sorted
// chronologically. Dates that do not parse are skipped.
func Months(dateStrs []string) []YearMonth {
	seen := make(map[YearMonth]bool)
	for _, s := range dateStrs {
		t, err := Parse(s)
		if err != nil {
			continue
		}
		seen[YearMonth{Year: t.Year(), Month: int(t.Month())}] = true
	}

	out := make([]YearMonth, 0, len(seen))
	for ym := range seen {
		out = append(out, ym)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out
}

// ParseHour parses a time-of-day in HH:MM:SS form.
func ParseHour(s string) (time.Time, error) {
	t, err := time.Parse(hourLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid hour %q: %w", s, err)
	}
	return t, nil
}

// HourInWindow reports whether the timestamp's time of day falls inside
// [minHour, maxHour], bounds inclusive. The timestamp uses the remote
// service's local-time format (no zone).
func HourInWindow(timestamp, minHour, maxHour string) (bool, error) {
	ts, err := time.Parse("2006-01-02T15:04:05", timestamp)
	if err != nil {
		return false, fmt.Errorf("invalid timestamp %q: %w", timestamp, err)
	}
	lo, err := ParseHour(minHour)
	if err != nil {
		return false, err
	}
	hi, err := ParseHour(maxHour)
	if err != nil {
		return false, err
	}

	day := ts.Hour()*3600 + ts.Minute()*60 + ts.Second()
	return day >= lo.Hour()*3600+lo.Minute()*60+lo.Second() &&
		day <= hi.Hour()*3600+hi.Minute()*60+hi.Second(), nil
}
