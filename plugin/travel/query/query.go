// Package query turns deep-link parameters into the query context consumed by
// the travel pipeline. Problems are reported as warnings, never as errors.
package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/hrygo/traveltime/plugin/travel/intent"
)

// Default values for optional parameters.
const (
	DefaultMode           = "driving"
	DefaultLanguage       = "en"
	DefaultBufferMinutes  = 10
	MaxBufferMinutes      = 180
	DefaultQRThresholdMin = 10
	MinRefreshSeconds     = 15
)

// validModes lists the travel modes the routing collaborator accepts.
var validModes = map[string]bool{
	"driving":   true,
	"walking":   true,
	"bicycling": true,
	"transit":   true,
}

// Query is the caller-owned context of a travel request.
type Query struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Mode        string `json:"mode"`
	Units       string `json:"units,omitempty"`
	Language    string `json:"lang"`
	Traffic     bool   `json:"traffic"`
	// RefreshSeconds is zero when the client keeps its default refresh.
	RefreshSeconds int    `json:"refreshSec,omitempty"`
	QRThresholdMin int    `json:"qrThresholdMin"`
	Cuisine        string `json:"cuisine,omitempty"`
	// ApptTime is an explicit appointment time, ISO-8601 or free text.
	ApptTime      string        `json:"apptTime,omitempty"`
	BufferMinutes int           `json:"bufferMin"`
	Intent        intent.Intent `json:"intent,omitempty"`
	Warnings      []string      `json:"warnings"`
}

// Parse builds a Query from URL query values, applying defaults and clamps.
func Parse(values url.Values) Query {
	q := Query{
		Origin:         strings.TrimSpace(values.Get("origin")),
		Destination:    strings.TrimSpace(values.Get("destination")),
		Mode:           strings.ToLower(strings.TrimSpace(values.Get("mode"))),
		Units:          strings.ToLower(strings.TrimSpace(values.Get("units"))),
		Language:       strings.TrimSpace(values.Get("lang")),
		Traffic:        values.Get("traffic") == "true",
		QRThresholdMin: DefaultQRThresholdMin,
		Cuisine:        strings.TrimSpace(values.Get("cuisine")),
		ApptTime:       strings.TrimSpace(values.Get("apptTime")),
		BufferMinutes:  DefaultBufferMinutes,
		Warnings:       []string{},
	}

	if q.Origin == "" {
		q.Warnings = append(q.Warnings, "Missing required parameter: origin")
	}
	if q.Destination == "" {
		q.Warnings = append(q.Warnings, "Missing required parameter: destination")
	}

	if q.Mode == "" {
		q.Mode = DefaultMode
	}
	if !validModes[q.Mode] {
		q.Warnings = append(q.Warnings, fmt.Sprintf("Invalid mode '%s', falling back to '%s'", q.Mode, DefaultMode))
		q.Mode = DefaultMode
	}

	if q.Language == "" {
		q.Language = DefaultLanguage
	}

	if raw := values.Get("refreshSec"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			q.RefreshSeconds = max(MinRefreshSeconds, n)
		} else {
			q.Warnings = append(q.Warnings, "Invalid refreshSec value ignored")
		}
	}

	if raw := values.Get("qrThresholdMin"); raw != "" {
		n, _ := strconv.Atoi(raw)
		q.QRThresholdMin = max(1, n)
	}

	if raw := values.Get("bufferMin"); raw != "" {
		n, _ := strconv.Atoi(raw)
		q.BufferMinutes = ClampBuffer(n)
	}

	if raw := strings.TrimSpace(values.Get("intent")); raw != "" {
		q.Intent = intent.ParseIntent(raw)
	}

	return q
}

// ClampBuffer limits a buffer to [0, MaxBufferMinutes].
func ClampBuffer(minutes int) int {
	return min(max(0, minutes), MaxBufferMinutes)
}

// HasRoute reports whether both ends of the trip are known.
func (q Query) HasRoute() bool {
	return q.Origin != "" && q.Destination != ""
}
