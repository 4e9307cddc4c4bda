package apptime

import "time"

// rolloverGrace is how far in the past a wall-clock time may be before it is read as tomorrow's.
const rolloverGrace = 5 * time.Minute

// rollover applies the day-rollover policy to an absolute candidate.
//
// An explicit "tomorrow" always adds one day. Otherwise a candidate more than
// rolloverGrace before now is moved to the next day, so "at 9am" said at 10am
// means tomorrow morning. Relative phrases never go through this policy.
func rollover(candidate, now time.Time, tomorrow bool) time.Time {
	if tomorrow {
		return candidate.AddDate(0, 0, 1)
	}
	if now.After(candidate.Add(rolloverGrace)) {
		return candidate.AddDate(0, 0, 1)
	}
	return candidate
}
