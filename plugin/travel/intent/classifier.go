// Package intent classifies the purpose of a travel query: plain travel,
// a nearby-food search, or appointment-driven departure planning.
package intent

import (
	"regexp"
	"strings"
)

// Intent is the classified purpose of a travel query.
type Intent string

const (
	// TravelTime is a plain origin to destination travel query.
	TravelTime Intent = "TravelTime"
	// NearbyFood is a search for restaurants near the origin.
	NearbyFood Intent = "NearbyFood"
	// AppointmentLeaveTime plans a departure to arrive for an appointment.
	AppointmentLeaveTime Intent = "AppointmentLeaveTime"
	// Unknown is returned when the query carries no signal at all.
	Unknown Intent = "Unknown"
)

// String returns the string representation of Intent.
func (i Intent) String() string {
	return string(i)
}

// ParseIntent maps a caller-supplied intent name to an Intent.
// Matching is case-insensitive; unrecognized names yield Unknown.
func ParseIntent(s string) Intent {
	for _, i := range []Intent{TravelTime, NearbyFood, AppointmentLeaveTime} {
		if strings.EqualFold(strings.TrimSpace(s), string(i)) {
			return i
		}
	}
	return Unknown
}

// Keyword tables for classification.
var (
	// Generic food tokens come first; they never name a cuisine.
	foodKeywords    = []string{"restaurant", "restaurants", "italian", "sushi", "mexican", "thai", "indian"}
	genericFood     = map[string]bool{"restaurant": true, "restaurants": true}
	appointmentKeys = []string{"appointment", "doctor", "dentist", "meeting"}

	airportPattern = regexp.MustCompile(`\b(jfk|phl|ewr|lga)\b|airport`)
)

// Input holds the signals the classifier looks at.
type Input struct {
	Origin      string
	Destination string
	// ExplicitIntent is a caller override; only AppointmentLeaveTime is honoured unconditionally.
	ExplicitIntent Intent
	// ExplicitCuisine forces a NearbyFood classification.
	ExplicitCuisine string
	// ApptTimePresent reports whether an appointment time was resolved.
	ApptTimePresent bool
}

// Result holds the classification result.
type Result struct {
	Intent  Intent `json:"intent"`
	Cuisine string `json:"cuisine,omitempty"`
}

// IsNearbyFood reports whether the result is a food search.
func (r Result) IsNearbyFood() bool {
	return r.Intent == NearbyFood
}

// IsAppointment reports whether the result plans a departure for an appointment.
func (r Result) IsAppointment() bool {
	return r.Intent == AppointmentLeaveTime
}

// Classify assigns an intent to a travel query. Rules are evaluated in order
// and the first match wins: explicit signals beat keywords, appointments beat food.
// Classify reads raw text, so pass the destination before sanitization.
func Classify(in Input) Result {
	destination := strings.ToLower(in.Destination)
	origin := strings.ToLower(in.Origin)

	// Step 1: explicit appointment override
	if in.ExplicitIntent == AppointmentLeaveTime {
		return Result{Intent: AppointmentLeaveTime}
	}

	// Step 2: resolved time plus appointment wording
	if in.ApptTimePresent && (containsAny(destination, appointmentKeys) || containsAny(origin, appointmentKeys)) {
		return Result{Intent: AppointmentLeaveTime}
	}

	// Step 3: explicit cuisine
	if cuisine := strings.TrimSpace(in.ExplicitCuisine); cuisine != "" {
		return Result{Intent: NearbyFood, Cuisine: strings.ToLower(cuisine)}
	}

	// Step 4: food wording in the destination
	if containsAny(destination, foodKeywords) {
		return Result{Intent: NearbyFood, Cuisine: cuisineOf(destination)}
	}

	// Step 5: nothing to go on
	if strings.TrimSpace(destination) == "" && strings.TrimSpace(origin) == "" {
		return Result{Intent: Unknown}
	}

	// Step 6: airports are plain travel
	if airportPattern.MatchString(destination) {
		return Result{Intent: TravelTime}
	}

	return Result{Intent: TravelTime}
}

// cuisineOf returns the first specific cuisine named in text.
func cuisineOf(text string) string {
	for _, keyword := range foodKeywords {
		if !genericFood[keyword] && strings.Contains(text, keyword) {
			return keyword
		}
	}
	return ""
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
