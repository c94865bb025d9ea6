package formatter

import (
	"fmt"
	"regexp"
	"strings"
)

var durationRe = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?`)

// FormatDuration turns an ISO-8601-like duration token into a display string:
// "PT4H30M" -> "4h 30m", "PT45M" -> "45m", "PT4H" -> "4h". A token with
// neither group yields the literal "unknown", never an error.
func FormatDuration(iso string) string {
	m := durationRe.FindStringSubmatch(iso)
	if m == nil {
		return "unknown"
	}

	var parts []string
	if m[1] != "" {
		parts = append(parts, fmt.Sprintf("%sh", m[1]))
	}
	if m[2] != "" {
		parts = append(parts, fmt.Sprintf("%sm", m[2]))
	}
	if len(parts) == 0 {
		return "unknown"
	}
	return strings.Join(parts, " ")
}
