package departure

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefresher_Run(t *testing.T) {
	appt := time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC)
	clock := []time.Time{
		time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2030, 1, 1, 9, 50, 0, 0, time.UTC),
		time.Date(2030, 1, 1, 10, 1, 0, 0, time.UTC),
	}
	tick := 0
	now := func() time.Time {
		c := clock[min(tick, len(clock)-1)]
		tick++
		return c
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var statuses []Status
	err := NewRefresher(time.Millisecond).WithClock(now).Run(ctx,
		func(now time.Time) Plan { return ComputeAt(appt, 900, 0, now) },
		func(p Plan) {
			if len(statuses) == len(clock) {
				return
			}
			statuses = append(statuses, p.Status)
			if len(statuses) == len(clock) {
				cancel()
			}
		},
	)

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []Status{StatusFuture, StatusLeaveNow, StatusLate}, statuses)
}

func TestNewRefresher_DefaultInterval(t *testing.T) {
	assert.Equal(t, DefaultRefreshInterval, NewRefresher(0).interval)
}
