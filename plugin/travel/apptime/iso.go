package apptime

import (
	"strings"
	"time"
)

// ISOLayout is the wire format for timestamps: UTC with millisecond precision.
const ISOLayout = "2006-01-02T15:04:05.000Z07:00"

// isoLayouts are tried in order by ParseISO. Layouts without an offset are read in the given location.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// FormatISO renders t as a UTC ISO-8601 string, e.g. "2030-01-01T09:45:00.000Z".
func FormatISO(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

// ParseISO parses an absolute timestamp. Values without an offset are read in loc.
func ParseISO(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}

	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
