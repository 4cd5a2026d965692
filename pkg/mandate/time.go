package mandate

import (
	"fmt"
	"time"
)

// Timestamp layouts accepted on the wire. Mandates may arrive with either a
// UTC-aware RFC 3339 timestamp or a timezone-naive ISO timestamp; naive
// timestamps are interpreted as UTC so that expiry comparisons are equivalent
// regardless of representation.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// FormatTimestamp renders t as a UTC RFC 3339 timestamp.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ParseTimestamp parses a mandate timestamp, accepting both UTC-aware and
// naive representations. Naive timestamps are treated as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}
