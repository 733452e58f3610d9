package model

import (
	"database/sql/driver"
	"fmt"
	"sync"
	"time"
)

// DateLayout is the canonical key format for calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar day with no time-of-day component. The zero Date means
// "no date" and keys as the empty string.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns the calendar day for year, month and day. Out-of-range
// values are normalized the same way time.Date does (e.g. March 0 is the last
// day of February).
func NewDate(year int, month time.Month, day int) Date {
	// Noon UTC keeps the arithmetic away from DST edges.
	return DateOf(time.Date(year, month, day, 12, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar day of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a YYYY-MM-DD key. The empty string parses to the zero Date.
func ParseDate(s string) (Date, error) {
	if s == "" {
		return Date{}, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return DateOf(t), nil
}

var today = sync.OnceValue(func() Date {
	return DateOf(time.Now())
})

// Today returns the local calendar day. It is read from the clock once per
// process so "today" does not drift while a request is being served.
func Today() Date {
	return today()
}

// IsZero reports whether d is the absent date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Key returns the zero-padded YYYY-MM-DD form of d. Keys of years 0-9999
// sort lexicographically in calendar order.
func (d Date) Key() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// String implements fmt.Stringer.
func (d Date) String() string {
	return d.Key()
}

// Time returns d at noon UTC.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC)
}

// AddDays returns d shifted by n days.
func (d Date) AddDays(n int) Date {
	return NewDate(d.Year, d.Month, d.Day+n)
}

// Weekday returns the day of the week of d.
func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// Compare returns -1, 0 or +1 by key order. The zero Date sorts first.
func (d Date) Compare(other Date) int {
	a, b := d.Key(), other.Key()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Before reports whether d is strictly before other.
func (d Date) Before(other Date) bool {
	return d.Compare(other) < 0
}

// Display formats d for people, e.g. "Mar 5, 2024". The zero Date displays as "".
func (d Date) Display() string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format("Jan 2, 2006")
}

// SameDay reports whether a and b are the same calendar day.
func SameDay(a, b Date) bool {
	return a.Key() == b.Key()
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return NewDate(year, month+1, 0).Day
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.Key()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer; dates are stored as their key.
func (d Date) Value() (driver.Value, error) {
	return d.Key(), nil
}

// Scan implements sql.Scanner.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case string:
		return d.UnmarshalText([]byte(v))
	case []byte:
		return d.UnmarshalText(v)
	case time.Time:
		*d = DateOf(v)
		return nil
	default:
		return fmt.Errorf("scanning date: unsupported type %T", src)
	}
}
