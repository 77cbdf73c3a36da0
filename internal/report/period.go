package report

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tinoosan/finsight/internal/errs"
)

// Period is a calendar month.
type Period struct {
	Year  int
	Month time.Month
}

// NewPeriod builds a Period from a 1-based month and a year.
func NewPeriod(month, year int) (Period, error) {
	if month < 1 || month > 12 {
		return Period{}, fmt.Errorf("%w: month must be between 1 and 12, got %d", errs.ErrInvalid, month)
	}
	return Period{Year: year, Month: time.Month(month)}, nil
}

// PeriodFor returns the calendar month containing t.
func PeriodFor(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// Previous returns the calendar month before p. January wraps to December of
// the prior year.
func (p Period) Previous() Period {
	if p.Month == time.January {
		return Period{Year: p.Year - 1, Month: time.December}
	}
	return Period{Year: p.Year, Month: p.Month - 1}
}

// Before reports whether p is strictly earlier than o.
func (p Period) Before(o Period) bool {
	if p.Year != o.Year {
		return p.Year < o.Year
	}
	return p.Month < o.Month
}

// Contains reports whether the date string falls in p. See MatchesPeriod.
func (p Period) Contains(value string) bool {
	got, ok := PeriodOf(value)
	return ok && got == p
}

// String renders the period as YYYY-MM.
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// MarshalText renders the period as YYYY-MM.
func (p Period) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// MatchesPeriod reports whether a date string falls in the given month (1..12)
// and year. Values that cannot be parsed match no period.
func MatchesPeriod(value string, month, year int) bool {
	p, err := NewPeriod(month, year)
	if err != nil {
		return false
	}
	return p.Contains(value)
}

var leadingDate = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})`)

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	time.DateTime,
	time.RFC1123Z,
	time.RFC1123,
}

// PeriodOf extracts the calendar month of a date string. A leading YYYY-MM-DD
// is read literally; anything else is parsed as a timestamp and converted to
// the local calendar date.
func PeriodOf(value string) (Period, bool) {
	value = strings.TrimSpace(value)
	if m := leadingDate.FindStringSubmatch(value); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		if month < 1 || month > 12 {
			return Period{}, false
		}
		return Period{Year: year, Month: time.Month(month)}, true
	}
	t, ok := parseTimestamp(value)
	if !ok {
		return Period{}, false
	}
	return PeriodFor(t.Local()), true
}

// DateOf returns the calendar date of a date string for ordering purposes.
// Leading YYYY-MM-DD values are read literally at midnight UTC.
func DateOf(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if m := leadingDate.FindStringSubmatch(value); m != nil {
		t, err := time.Parse(time.DateOnly, m[0])
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	t, ok := parseTimestamp(value)
	if !ok {
		return time.Time{}, false
	}
	lt := t.Local()
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, time.UTC), true
}

func parseTimestamp(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
