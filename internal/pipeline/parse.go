package pipeline

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// releasedLayouts are tried in order by ParseReleased.
var releasedLayouts = []string{
	"02 Jan 2006",
	"2 Jan 2006",
	"2006-01-02",
	time.RFC3339,
	"January 2, 2006",
	"Jan 2, 2006",
	"01/02/2006",
}

// ParseYear parses the Year field. Ranges such as "2010–2012" fail.
func ParseYear(s string) (int, bool) {
	y, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return y, true
}

// ParseReleased parses the Released field as a UTC calendar date.
func ParseReleased(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range releasedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// ParseBoxOffice strips currency symbols and digit-group separators and
// parses the rest as a whole-dollar integer, so cents ("$5.00") fail. Zero and
// unparseable values report false.
// "$1,234,567" -> 1234567.
func ParseBoxOffice(s string) (int64, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if r == ',' || unicode.Is(unicode.Sc, r) || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if cleaned == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}

// PrimaryGenre returns the first entry of a comma-separated genre list.
func PrimaryGenre(s string) string {
	first, _, _ := strings.Cut(s, ",")
	return strings.TrimSpace(first)
}
