// Package departure computes when to leave for an appointment and whether
// the traveller is early, due to leave, or already late.
package departure

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/hrygo/traveltime/plugin/travel/apptime"
)

// MaxBufferMinutes caps the safety buffer added before an appointment.
const MaxBufferMinutes = 180

// Status is the three-state departure status.
type Status string

const (
	// StatusFuture means there is still time before the depart-by time.
	StatusFuture Status = "Future"
	// StatusLeaveNow means the depart-by time has passed but the appointment has not.
	StatusLeaveNow Status = "LeaveNow"
	// StatusLate means the appointment time itself has passed.
	StatusLate Status = "Late"
)

// Error tags an invalid plan.
type Error string

const (
	ErrMissingTime Error = "missing_apptTime"
	ErrInvalidTime Error = "invalid_apptTime"
)

// Plan is a departure plan. It is a value recomputed on every evaluation and
// never stored; Status is only meaningful for the "now" it was computed against.
type Plan struct {
	Valid           bool
	Error           Error
	ApptTime        time.Time
	DurationSeconds int
	BufferMinutes   int
	DepartTime      time.Time
	LeadSeconds     int64
	Status          Status
}

// Compute parses apptTime as an absolute timestamp and builds the plan.
// Empty input yields ErrMissingTime, unparseable input ErrInvalidTime.
// Timestamps without an offset are read in the process-local time zone.
func Compute(apptTime string, durationSeconds, bufferMinutes int, now time.Time) Plan {
	if strings.TrimSpace(apptTime) == "" {
		return Plan{Error: ErrMissingTime}
	}
	t, ok := apptime.ParseISO(apptTime, time.Local)
	if !ok {
		return Plan{Error: ErrInvalidTime}
	}
	return ComputeAt(t, durationSeconds, bufferMinutes, now)
}

// ComputeAt builds the plan for an already resolved appointment time.
func ComputeAt(apptTime time.Time, durationSeconds, bufferMinutes int, now time.Time) Plan {
	if apptTime.IsZero() {
		return Plan{Error: ErrMissingTime}
	}

	duration := max(0, durationSeconds)
	buffer := min(max(0, bufferMinutes), MaxBufferMinutes)

	appt := apptTime.UTC()
	depart := appt.Add(-time.Duration(duration) * time.Second).Add(-time.Duration(buffer) * time.Minute)

	return Plan{
		Valid:           true,
		ApptTime:        appt,
		DurationSeconds: duration,
		BufferMinutes:   buffer,
		DepartTime:      depart,
		LeadSeconds:     max(0, int64(depart.Sub(now)/time.Second)),
		Status:          statusAt(appt, depart, now),
	}
}

// statusAt classifies a plan against now. The appointment check comes first.
func statusAt(appt, depart, now time.Time) Status {
	switch {
	case !appt.After(now):
		return StatusLate
	case !depart.After(now):
		return StatusLeaveNow
	default:
		return StatusFuture
	}
}

// planJSON is the wire shape of a Plan; timestamps are ISO-8601 UTC strings.
type planJSON struct {
	Valid           bool   `json:"valid"`
	Error           Error  `json:"error,omitempty"`
	ApptTime        string `json:"apptTime,omitempty"`
	DurationSeconds int    `json:"durationSec"`
	BufferMinutes   int    `json:"bufferMin"`
	DepartTime      string `json:"departTime,omitempty"`
	LeadSeconds     int64  `json:"leaveInSec"`
	Status          Status `json:"status,omitempty"`
}

// MarshalJSON renders timestamps with apptime.FormatISO.
func (p Plan) MarshalJSON() ([]byte, error) {
	out := planJSON{
		Valid:           p.Valid,
		Error:           p.Error,
		DurationSeconds: p.DurationSeconds,
		BufferMinutes:   p.BufferMinutes,
		LeadSeconds:     p.LeadSeconds,
		Status:          p.Status,
	}
	if p.Valid {
		out.ApptTime = apptime.FormatISO(p.ApptTime)
		out.DepartTime = apptime.FormatISO(p.DepartTime)
	}
	return json.Marshal(out)
}
