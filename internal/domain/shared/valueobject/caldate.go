package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// calDateLayout is the ISO calendar date wire format
const calDateLayout = "2006-01-02"

// CalDate is a value object representing a calendar date without a
// time-of-day component. All comparisons are calendar-date comparisons;
// two CalDates on the same day are equal regardless of how they were built.
type CalDate struct {
	year  int
	month time.Month
	day   int
}

// NewCalDate creates a CalDate from year, month and day.
// The date is normalized, so out-of-range components roll over the
// same way time.Date rolls them over.
func NewCalDate(year int, month time.Month, day int) CalDate {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return CalDate{year: t.Year(), month: t.Month(), day: t.Day()}
}

// CalDateOf extracts the calendar date from a time.Time in its own location
func CalDateOf(t time.Time) CalDate {
	y, m, d := t.Date()
	return CalDate{year: y, month: m, day: d}
}

// Today returns the current calendar date in the local timezone
func Today() CalDate {
	return CalDateOf(time.Now())
}

// ParseCalDate parses an ISO calendar date (YYYY-MM-DD)
func ParseCalDate(s string) (CalDate, error) {
	t, err := time.Parse(calDateLayout, s)
	if err != nil {
		return CalDate{}, fmt.Errorf("invalid calendar date %q: %w", s, err)
	}
	return CalDateOf(t), nil
}

// IsZero returns true if the date is the zero value
func (d CalDate) IsZero() bool {
	return d.year == 0 && d.month == 0 && d.day == 0
}

// Year returns the year component
func (d CalDate) Year() int {
	return d.year
}

// Month returns the month component
func (d CalDate) Month() time.Month {
	return d.month
}

// Day returns the day-of-month component
func (d CalDate) Day() int {
	return d.day
}

// Time returns the date at midnight UTC
func (d CalDate) Time() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

// Equal returns true if both dates are the same calendar day
func (d CalDate) Equal(other CalDate) bool {
	return d.year == other.year && d.month == other.month && d.day == other.day
}

// Before returns true if d is strictly before other
func (d CalDate) Before(other CalDate) bool {
	if d.year != other.year {
		return d.year < other.year
	}
	if d.month != other.month {
		return d.month < other.month
	}
	return d.day < other.day
}

// After returns true if d is strictly after other
func (d CalDate) After(other CalDate) bool {
	return other.Before(d)
}

// AddDays returns the date n days later (or earlier for negative n)
func (d CalDate) AddDays(n int) CalDate {
	return CalDateOf(d.Time().AddDate(0, 0, n))
}

// AddMonths returns the date n months later, clamping the day-of-month to
// the target month's length. 2024-01-31 plus one month is 2024-02-29, not
// a rollover into March.
func (d CalDate) AddMonths(n int) CalDate {
	year := d.year
	month := int(d.month) + n
	for month > 12 {
		month -= 12
		year++
	}
	for month < 1 {
		month += 12
		year--
	}
	day := d.day
	if last := daysInMonth(year, time.Month(month)); day > last {
		day = last
	}
	return CalDate{year: year, month: time.Month(month), day: day}
}

// daysInMonth returns the number of days in the given month
func daysInMonth(year int, month time.Month) int {
	// day 0 of the next month is the last day of this month
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// String returns the ISO representation (YYYY-MM-DD)
func (d CalDate) String() string {
	return d.Time().Format(calDateLayout)
}

// MarshalJSON implements json.Marshaler
func (d CalDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler
func (d *CalDate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseCalDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer for database storage
func (d CalDate) Value() (driver.Value, error) {
	return d.Time(), nil
}

// Scan implements sql.Scanner for database retrieval
func (d *CalDate) Scan(value any) error {
	if value == nil {
		*d = CalDate{}
		return nil
	}
	switch v := value.(type) {
	case time.Time:
		*d = CalDateOf(v)
		return nil
	case string:
		parsed, err := ParseCalDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case []byte:
		parsed, err := ParseCalDate(string(v))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into CalDate", value)
	}
}
