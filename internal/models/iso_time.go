package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// isoShape is checked before parsing: time.Parse accepts single-digit hours and
// other loose forms that are not ISO-8601.
var isoShape = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}(T\d{2}(:\d{2}(:\d{2}([.,]\d+)?)?(?P<offset>[+-]\d{2}:?\d{2})?)?)?$`)

var isoOffsetGroup = isoShape.SubexpIndex("offset")

// isoLayouts are the ISO-8601 shapes accepted for event times, most specific first.
// Fractional seconds are accepted by time.Parse after any seconds field.
var isoLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04-0700",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02T15",
	"2006-01-02",
}

// normalizeISO applies the "Z" and space-separator rewrites accepted by ParseISOTime
func normalizeISO(value string) string {
	s := value
	if strings.HasSuffix(s, "Z") {
		s = strings.TrimSuffix(s, "Z") + "+00:00"
	}
	if len(s) > 10 && s[10] == ' ' {
		s = s[:10] + "T" + s[11:]
	}
	return s
}

// IsFloatingISOTime reports whether value is a valid ISO-8601 time with no UTC
// offset. Such times are local to whoever reads them, not a fixed instant.
func IsFloatingISOTime(value string) bool {
	m := isoShape.FindStringSubmatch(normalizeISO(value))
	return m != nil && m[isoOffsetGroup] == ""
}

// ParseISOTime parses an ISO-8601 date or date-time. A trailing "Z" is read as +00:00
// and a space may stand in for the "T" separator.
func ParseISOTime(value string) (time.Time, error) {
	s := normalizeISO(value)
	if !isoShape.MatchString(s) {
		return time.Time{}, fmt.Errorf("invalid isoformat string: %q", value)
	}

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid isoformat string: %q", value)
}
