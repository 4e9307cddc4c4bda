// Package apptime resolves free-text scheduling phrases ("at 11:30am",
// "noon tomorrow", "in 1h 15m") into absolute appointment times.
package apptime

import (
	"context"
	"time"
)

// TimeResolver defines the appointment time resolution interface.
// Consumers: server/service/travel
type TimeResolver interface {
	// Resolve parses a free-text phrase relative to now.
	// Returns ok=false when no supported pattern matched; this is a normal outcome.
	Resolve(ctx context.Context, text string, now time.Time) (time.Time, bool)

	// Normalize accepts an ISO-8601 timestamp or, failing that, a free-text phrase.
	Normalize(ctx context.Context, input string, now time.Time) (time.Time, bool)
}
