// Package stats implements the statistics aggregation core: timestamp
// normalization, token and duration estimation, and snapshot folding.
package stats

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// zonedLayouts carry their own offset; localLayouts are interpreted in
// the local timezone, matching how the host displays them.
var (
	zonedLayouts = []string{
		time.RFC3339Nano,
		time.RFC3339,
		time.RFC1123Z,
		time.RFC1123,
		time.UnixDate,
	}
	localLayouts = []string{
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02",
	}
)

var (
	epochRe  = regexp.MustCompile(`^\d+$`)
	legacyRe = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2}) @(\d{1,2})h (\d{1,2})m(?: (\d{1,2})s)?(?: (\d{1,3})ms)?$`)
	localRe  = regexp.MustCompile(`^(\d{4})[-/](\d{1,2})[-/](\d{1,2}) (\d{1,2}):(\d{2})(?::(\d{2}))?$`)
	humanRe  = regexp.MustCompile(`^([A-Za-z]+) (\d{1,2}),? (\d{4}) (\d{1,2}):(\d{2})\s?([APap][Mm])$`)
)

var monthNames = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

// Parse normalizes a raw timestamp representation into an instant.
// Attempts run in a fixed order: generic layouts first (so well-formed
// ISO-8601 strings short-circuit), then bare epoch integers, then the
// host's legacy "@HHh MMm" pattern, then a plain local date-time, then
// the human "Month DD, YYYY HH:MM am/pm" format. The first pattern that
// matches and yields a valid instant wins; no match returns false.
func Parse(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}

	if epochRe.MatchString(s) {
		return parseEpoch(s)
	}
	if m := legacyRe.FindStringSubmatch(s); m != nil {
		return parseLegacy(m)
	}
	if m := localRe.FindStringSubmatch(s); m != nil {
		return parseLocal(m)
	}
	if m := humanRe.FindStringSubmatch(s); m != nil {
		return parseHuman(m)
	}

	return time.Time{}, false
}

// parseEpoch interprets a bare integer as epoch milliseconds. Values
// below 1e12 are second-resolution timestamps and get scaled, which
// disambiguates 10-digit from 13-digit inputs.
func parseEpoch(s string) (time.Time, bool) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	if v < 1_000_000_000_000 {
		v *= 1000
	}
	return time.UnixMilli(v), true
}

func parseLegacy(m []string) (time.Time, bool) {
	year := atoi(m[1])
	month := atoi(m[2])
	day := atoi(m[3])
	hour := atoi(m[4])
	minute := atoi(m[5])
	sec := 0
	ms := 0
	if m[6] != "" {
		sec = atoi(m[6])
	}
	if m[7] != "" {
		ms = atoi(m[7])
	}
	return makeLocal(year, month, day, hour, minute, sec, ms)
}

func parseLocal(m []string) (time.Time, bool) {
	sec := 0
	if m[6] != "" {
		sec = atoi(m[6])
	}
	return makeLocal(atoi(m[1]), atoi(m[2]), atoi(m[3]), atoi(m[4]), atoi(m[5]), sec, 0)
}

func parseHuman(m []string) (time.Time, bool) {
	month, ok := monthNames[strings.ToLower(m[1])]
	if !ok {
		return time.Time{}, false
	}
	hour := atoi(m[4])
	if hour < 1 || hour > 12 {
		return time.Time{}, false
	}
	pm := strings.EqualFold(m[6], "pm")
	if hour == 12 {
		// 12am is midnight; 12pm stays noon.
		if !pm {
			hour = 0
		}
	} else if pm {
		hour += 12
	}
	return makeLocal(atoi(m[3]), int(month), atoi(m[2]), hour, atoi(m[5]), 0, 0)
}

// makeLocal builds a local-time instant and rejects component values
// that would roll over (e.g. February 31st or hour 25).
func makeLocal(year, month, day, hour, minute, sec, ms int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 ||
		hour > 23 || minute > 59 || sec > 59 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, hour, minute, sec, ms*int(time.Millisecond), time.Local)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func atoi(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}
