package youtube

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// jaPrinter formats numbers with Japanese decimal-comma grouping ("12,345").
var jaPrinter = message.NewPrinter(language.Japanese)

// FormatNumber converts a numeric string to a decimal-comma grouped string.
// Already-formatted input is normalized (commas stripped before parsing).
// Non-numeric input is returned unchanged.
func FormatNumber(s string) string {
	clean := strings.ReplaceAll(s, ",", "")
	if n, err := strconv.ParseInt(clean, 10, 64); err == nil {
		return jaPrinter.Sprintf("%v", number.Decimal(n))
	}
	if f, err := strconv.ParseFloat(clean, 64); err == nil {
		return jaPrinter.Sprintf("%v", number.Decimal(f))
	}
	return s
}

// FormatCount formats an integer count with decimal-comma grouping.
func FormatCount(n uint64) string {
	return jaPrinter.Sprintf("%v", number.Decimal(n))
}

// ParseCount parses a decimal-comma formatted count back to an integer.
// Placeholder values ("N/A") yield 0.
func ParseCount(s string) int64 {
	n, err := strconv.ParseInt(strings.ReplaceAll(s, ",", ""), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// FormatDuration converts an ISO-8601 duration (PT1H23M45S) into a clock
// string: the PT/H/M/S tokens are stripped, then minutes and seconds are
// zero-padded to two digits when an hour component is present, or seconds
// alone when only minutes are present. PT45S stays "45".
func FormatDuration(iso string) string {
	d := strings.Replace(iso, "PT", "", 1)
	d = strings.ReplaceAll(d, "H", ":")
	d = strings.ReplaceAll(d, "M", ":")
	d = strings.ReplaceAll(d, "S", "")

	parts := strings.Split(d, ":")
	switch {
	case len(parts) > 2:
		parts[1] = pad2(parts[1])
		parts[2] = pad2(parts[2])
		return strings.Join(parts, ":")
	case len(parts) == 2:
		parts[1] = pad2(parts[1])
		return strings.Join(parts, ":")
	default:
		return d
	}
}

func pad2(s string) string {
	if len(s) < 2 {
		return "0" + s
	}
	return s
}

// ParseClockSeconds converts a formatted clock string ("1:23:45", "5:03",
// "45") back to total seconds. Unparseable input yields 0.
func ParseClockSeconds(clock string) int {
	parts := strings.Split(clock, ":")
	total := 0
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0
		}
		total = total*60 + n
	}
	return total
}

// SpreadRate computes viewCount / subscriberCount * 100. Zero when the
// subscriber count is unavailable.
func SpreadRate(viewCount, subscriberCount int64) float64 {
	if subscriberCount <= 0 {
		return 0
	}
	return float64(viewCount) / float64(subscriberCount) * 100
}
