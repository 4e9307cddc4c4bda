// Package destination separates a routable address from an appointment phrase
// embedded in a destination, e.g. "Doctor appointment at 11:30am in 1805 Deer Drive PA".
package destination

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MinAddressLength rejects truncated captures such as "PA".
const MinAddressLength = 5

// Pre-compiled patterns for address extraction, tried in order.
var (
	// keyword … at 11:30am in ADDRESS
	inAddressPattern = regexp.MustCompile(`(?i)(doctor|dentist|appointment|meeting)[^\n]{0,80}?\b(at|@)\s*(?:\d{1,2}[:.][0-5]\d|\d{3,4})\s*(am|pm)?\s+in\s+(.+)`)
	// keyword … at 11:30am, ADDRESS  /  keyword … at 1130am-ADDRESS
	separatedAddressPattern = regexp.MustCompile(`(?i)(doctor|dentist|appointment|meeting)[^\n]{0,80}?\b(at|@)\s*(?:\d{1,2}[:.][0-5]\d|\d{3,4})\s*(am|pm)?[,\-]\s*(.+)`)

	keywordPattern = regexp.MustCompile(`(?i)\b(doctor|dentist|appointment|meeting)\b`)
	inSplitPattern = regexp.MustCompile(`(?i)\b in \b`)
)

// Sanitize returns the address part of destination when it embeds an
// appointment phrase. The original text is returned when nothing could be
// extracted, when destination is empty, or when no appointment time was resolved.
func Sanitize(destination string, resolved bool) string {
	if destination == "" || !resolved {
		return destination
	}

	for _, pattern := range []*regexp.Regexp{inAddressPattern, separatedAddressPattern} {
		if m := pattern.FindStringSubmatch(destination); m != nil {
			if addr, ok := acceptAddress(m[4]); ok {
				return addr
			}
		}
	}

	// Fallback: keyword somewhere and " in " somewhere, take the last segment.
	if keywordPattern.MatchString(destination) && inSplitPattern.MatchString(destination) {
		parts := inSplitPattern.Split(destination, -1)
		if len(parts) >= 2 {
			if addr, ok := acceptAddress(parts[len(parts)-1]); ok {
				return addr
			}
		}
	}

	return destination
}

// acceptAddress trims a capture and checks it is long enough to route on.
func acceptAddress(capture string) (string, bool) {
	addr := strings.TrimSpace(capture)
	if utf8.RuneCountInString(addr) < MinAddressLength {
		return "", false
	}
	return addr, true
}
