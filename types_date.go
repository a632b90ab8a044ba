package pkm

import (
	"fmt"
	"strings"
	"time"
)

const readDateFormat = "2006-1-2" // Permissive read date format (allows single-digit month/day).

// DateFormat is the format used to represent dates as strings in ISO-8601 format.
const DateFormat = "2006-01-02"

// TimestampFormat is the format used for created_at/opened_at/closed_at cells.
const TimestampFormat = "2006-01-02 15:04:05"

// Date represents a date with day-level granularity.
type Date struct {
	y int        // year
	m time.Month // month
	d int        // day
}

// NewDate returns a normalized Date for the given year, month, and day.
func NewDate(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// Today returns the current date.
func Today() Date { return NewDate(time.Now().Date()) }

// DateOf returns the Date of a time.Time.
func DateOf(t time.Time) Date { return NewDate(t.Date()) }

// Year returns the year of the date.
func (d Date) Year() int { return d.y }

// Month returns the month of the date.
func (d Date) Month() time.Month { return d.m }

// Day returns the day of the month.
func (d Date) Day() int { return d.d }

// String formats the date in ISO-8601.
func (d Date) String() string { return d.time().Format(DateFormat) }

// IsZero returns true if the date is the zero value.
func (d Date) IsZero() bool { return d.y == 0 && d.m == 0 && d.d == 0 }

// time returns a time.Time that is a canonical representation of that day (at midnight UTC).
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// Before reports whether the day d is before x.
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }

// After reports whether the day d is after x.
func (d Date) After(x Date) bool { return d.time().After(x.time()) }

// Add returns a new Date with the given number of days added.
func (d Date) Add(i int) Date { return NewDate(d.y, d.m, d.d+i) }

// DaysSince returns the number of whole days elapsed from x to d.
// Negative when x is after d.
func (d Date) DaysSince(x Date) int {
	return int(d.time().Sub(x.time()) / (24 * time.Hour))
}

// ParseDate parses a Date from a string. It is lenient and accepts formats
// like "2025-7-1" in addition to "2025-07-01".
func ParseDate(str string) (Date, error) {
	str = strings.TrimSpace(str)
	on, err := time.Parse(readDateFormat, str)
	if err != nil {
		// Timestamp cells carry a time of day; accept them as their date.
		on, err = time.Parse(TimestampFormat, str)
	}
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, want format %q: %w", str, DateFormat, err)
	}
	return NewDate(on.Date()), nil
}

// MustDate is like ParseDate but panics on error. For tests and constants.
func MustDate(str string) Date {
	d, err := ParseDate(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}
