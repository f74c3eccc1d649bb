package archive

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Month is a calendar month bucket of games
type Month struct {
	Year  int
	Month time.Month
}

// ParseMonth parses YYYY-MM
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q, expected YYYY-MM", s)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// MonthFromArchiveURL reads the trailing YYYY/MM of an archive URL
func MonthFromArchiveURL(archiveURL string) (Month, error) {
	u, err := url.Parse(archiveURL)
	if err != nil {
		return Month{}, fmt.Errorf("invalid archive url %q: %w", archiveURL, err)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 {
		return Month{}, fmt.Errorf("archive url %q has no year/month suffix", archiveURL)
	}

	t, err := time.Parse("2006/01", parts[len(parts)-2]+"/"+parts[len(parts)-1])
	if err != nil {
		return Month{}, fmt.Errorf("archive url %q has no year/month suffix", archiveURL)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// String formats the month as YYYY-MM
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// FileName is the archive file holding this month's games
func (m Month) FileName() string {
	return m.String() + ".pgn"
}

// Before reports whether m is earlier than other
func (m Month) Before(other Month) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}

// Range is an inclusive month range; a nil bound is open
type Range struct {
	Start *Month
	End   *Month
}

// ParseRange builds a range from optional YYYY-MM bounds
func ParseRange(start, end string) (Range, error) {
	var r Range
	if start != "" {
		m, err := ParseMonth(start)
		if err != nil {
			return Range{}, fmt.Errorf("start date: %w", err)
		}
		r.Start = &m
	}
	if end != "" {
		m, err := ParseMonth(end)
		if err != nil {
			return Range{}, fmt.Errorf("end date: %w", err)
		}
		r.End = &m
	}
	if r.Start != nil && r.End != nil && r.End.Before(*r.Start) {
		return Range{}, fmt.Errorf("start date %s is after end date %s", r.Start, r.End)
	}
	return r, nil
}

// Contains reports whether m lies inside the range, bounds included
func (r Range) Contains(m Month) bool {
	if r.Start != nil && m.Before(*r.Start) {
		return false
	}
	if r.End != nil && r.End.Before(m) {
		return false
	}
	return true
}
