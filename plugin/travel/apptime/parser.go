package apptime

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Patterns for time parsing. Inputs are lower-cased before matching.
var (
	// Absolute patterns
	compactPattern      = regexp.MustCompile(`\b(\d{3,4})(am|pm)\b`)
	noonPattern         = regexp.MustCompile(`\bnoon\b`)
	midnightPattern     = regexp.MustCompile(`\bmidnight\b`)
	clockPattern        = regexp.MustCompile(`\b(\d{1,2})[:.](\d{2})\s*(am|pm)?\b`)
	spacedClockPattern  = regexp.MustCompile(`\b(\d{1,2})\s+(\d{2})\s*(am|pm)\b`)
	bareMeridiemPattern = regexp.MustCompile(`\b(\d{1,2})\s*(am|pm)\b`)
	atHourPattern       = regexp.MustCompile(`\bat\s+(\d{1,2})\b`)
	tomorrowPattern     = regexp.MustCompile(`\btomorrow\b`)

	// Relative patterns, applied to the text after the " in " marker
	halfHourPattern    = regexp.MustCompile(`\bhalf (an )?hour\b`)
	quarterHourPattern = regexp.MustCompile(`\b(a )?quarter (of )?an? hour\b|\bquarter hour\b`)
	durationPattern    = regexp.MustCompile(`(\d+)\s*(hours?|hrs?|h|minutes?|mins?|m)\b`)
	hourUnitPattern    = regexp.MustCompile(`^h(ours?|rs?)?$`)
)

// relativeMarker introduces relative phrases and disables the "at H" heuristic.
const relativeMarker = " in "

// outcome is the result of a single matcher.
type outcome int

const (
	// skip means the matcher did not apply; the next one is tried.
	skip outcome = iota
	// found means the matcher produced the result.
	found
	// reject means the matcher recognised the phrase but its values are out of range.
	reject
)

// phrase is the normalized input handed to every matcher.
type phrase struct {
	text     string
	now      time.Time
	tomorrow bool
}

// matcher is one resolution strategy.
type matcher func(p phrase) (time.Time, outcome)

// matchers lists the strategies in precedence order. First match wins.
var matchers = []matcher{
	matchCompact,
	matchNoon,
	matchMidnight,
	matchClock,
	matchBareMeridiem,
	matchAtHour,
	matchRelative,
}

// Parser resolves free-text scheduling phrases into absolute instants.
type Parser struct {
	location *time.Location
	now      func() time.Time
}

// NewParser creates a parser resolving wall-clock times in the given location.
func NewParser(location *time.Location) *Parser {
	if location == nil {
		location = time.Local
	}
	return &Parser{
		location: location,
		now:      time.Now,
	}
}

// WithLocation returns a new parser with the given location.
func (p *Parser) WithLocation(location *time.Location) *Parser {
	if location == nil {
		location = time.Local
	}
	return &Parser{
		location: location,
		now:      p.now,
	}
}

// WithClock returns a new parser that reads "now" from the given clock.
func (p *Parser) WithClock(now func() time.Time) *Parser {
	if now == nil {
		now = time.Now
	}
	return &Parser{
		location: p.location,
		now:      now,
	}
}

// Location returns the location wall-clock times are resolved in.
func (p *Parser) Location() *time.Location {
	return p.location
}

// Parse resolves text against the parser's clock.
func (p *Parser) Parse(text string) (time.Time, bool) {
	return p.Resolve(text, p.now())
}

// Resolve resolves text against the given reference time.
// The result is in UTC with millisecond precision; ok is false when nothing matched.
func (p *Parser) Resolve(text string, now time.Time) (time.Time, bool) {
	// Not trimmed: a leading " in " still marks a relative phrase.
	lower := strings.ToLower(text)
	if strings.TrimSpace(lower) == "" {
		return time.Time{}, false
	}

	in := phrase{
		text:     lower,
		now:      now.In(p.location),
		tomorrow: tomorrowPattern.MatchString(lower),
	}

	for _, match := range matchers {
		t, res := match(in)
		switch res {
		case found:
			return t.UTC().Truncate(time.Millisecond), true
		case reject:
			return time.Time{}, false
		}
	}

	return time.Time{}, false
}

// matchCompact handles "1130am" and "930pm". Out-of-range values fall through.
func matchCompact(p phrase) (time.Time, outcome) {
	m := compactPattern.FindStringSubmatch(p.text)
	if m == nil {
		return time.Time{}, skip
	}

	raw := m[1]
	split := len(raw) - 2
	hour, _ := strconv.Atoi(raw[:split])
	minute, _ := strconv.Atoi(raw[split:])
	if hour < 1 || hour > 12 || minute > 59 {
		return time.Time{}, skip
	}

	return p.candidate(withMeridiem(hour, m[2]), minute), found
}

func matchNoon(p phrase) (time.Time, outcome) {
	if !noonPattern.MatchString(p.text) {
		return time.Time{}, skip
	}
	return p.candidate(12, 0), found
}

func matchMidnight(p phrase) (time.Time, outcome) {
	if !midnightPattern.MatchString(p.text) {
		return time.Time{}, skip
	}
	return p.candidate(0, 0), found
}

// matchClock handles "11:30am", "14.05" and "11 45 am". Out-of-range values reject the phrase.
func matchClock(p phrase) (time.Time, outcome) {
	m := clockPattern.FindStringSubmatch(p.text)
	if m == nil {
		m = spacedClockPattern.FindStringSubmatch(p.text)
	}
	if m == nil {
		return time.Time{}, skip
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return time.Time{}, reject
	}

	return p.candidate(p.hour24(hour, m[3]), minute), found
}

// matchBareMeridiem handles "3pm" and "10 am". Hours above 23 fall through to relative parsing.
func matchBareMeridiem(p phrase) (time.Time, outcome) {
	m := bareMeridiemPattern.FindStringSubmatch(p.text)
	if m == nil {
		return time.Time{}, skip
	}

	hour, _ := strconv.Atoi(m[1])
	if hour > 23 {
		return time.Time{}, skip
	}

	return p.candidate(p.hour24(hour, m[2]), 0), found
}

// matchAtHour handles "at 3". Street numbers are common after " in ", so the marker disables it.
func matchAtHour(p phrase) (time.Time, outcome) {
	// A bare meridiem token claims the phrase even when its hour was out of range.
	if bareMeridiemPattern.MatchString(p.text) || strings.Contains(p.text, relativeMarker) {
		return time.Time{}, skip
	}

	m := atHourPattern.FindStringSubmatch(p.text)
	if m == nil {
		return time.Time{}, skip
	}

	hour, _ := strconv.Atoi(m[1])
	if hour > 23 {
		return time.Time{}, skip
	}

	return p.candidate(p.hour24(hour, ""), 0), found
}

// matchRelative handles "in 30 minutes", "in 1h 15m" and "in half an hour".
func matchRelative(p phrase) (time.Time, outcome) {
	idx := strings.Index(p.text, relativeMarker)
	if idx == -1 {
		return time.Time{}, skip
	}
	after := strings.TrimSpace(p.text[idx+len(relativeMarker):])

	if halfHourPattern.MatchString(after) {
		return p.now.Add(30 * time.Minute), found
	}
	if quarterHourPattern.MatchString(after) {
		return p.now.Add(15 * time.Minute), found
	}

	var total int64
	for _, token := range durationPattern.FindAllStringSubmatch(after, -1) {
		n, err := strconv.ParseInt(token[1], 10, 64)
		if err != nil {
			return time.Time{}, skip
		}
		if hourUnitPattern.MatchString(token[2]) {
			if n > math.MaxInt64/60 {
				return time.Time{}, skip
			}
			n *= 60
		}
		if total > math.MaxInt64-n {
			return time.Time{}, skip
		}
		total += n
	}
	if total <= 0 {
		return time.Time{}, skip
	}

	return p.afterMinutes(total)
}

// maxUnixSeconds is the latest representable result, 275760-09-13T00:00:00Z.
const maxUnixSeconds = 8_640_000_000_000

// afterMinutes adds minutes to now in whole seconds, so offsets beyond
// time.Duration's range stay exact. Results past maxUnixSeconds are skipped.
func (p phrase) afterMinutes(minutes int64) (time.Time, outcome) {
	base := p.now.Unix()
	if base > maxUnixSeconds || minutes > (maxUnixSeconds-base)/60 {
		return time.Time{}, skip
	}
	return time.Unix(base+minutes*60, int64(p.now.Nanosecond())).In(p.now.Location()), found
}

// candidate builds today's wall-clock time and applies the rollover policy.
func (p phrase) candidate(hour, minute int) time.Time {
	now := p.now
	c := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	return rollover(c, now, p.tomorrow)
}

// hour24 converts an hour to 24h form. Without a meridiem, early hours spoken
// late in the day are read as evening hours.
func (p phrase) hour24(hour int, meridiem string) int {
	if meridiem != "" {
		return withMeridiem(hour, meridiem)
	}
	if hour >= 1 && hour <= 7 && p.now.Hour() > hour+1 {
		return (hour + 12) % 24
	}
	return hour
}

// withMeridiem applies an am/pm designator to a 12-hour clock value.
func withMeridiem(hour int, meridiem string) int {
	switch meridiem {
	case "am":
		if hour == 12 {
			return 0
		}
	case "pm":
		if hour < 12 {
			return hour + 12
		}
	}
	return hour
}
