package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		want Result
	}{
		{
			name: "cuisine from destination",
			in:   Input{Destination: "best italian restaurants near me"},
			want: Result{Intent: NearbyFood, Cuisine: "italian"},
		},
		{
			name: "generic restaurant has no cuisine",
			in:   Input{Destination: "Restaurants nearby"},
			want: Result{Intent: NearbyFood},
		},
		{
			name: "explicit cuisine is lower-cased",
			in:   Input{Origin: "Philadelphia", ExplicitCuisine: "Sushi"},
			want: Result{Intent: NearbyFood, Cuisine: "sushi"},
		},
		{
			name: "airport is travel",
			in:   Input{Destination: "Drive to JFK Airport"},
			want: Result{Intent: TravelTime},
		},
		{
			name: "airport code is travel",
			in:   Input{Origin: "Center City", Destination: "PHL"},
			want: Result{Intent: TravelTime},
		},
		{
			name: "explicit appointment",
			in:   Input{Destination: "Doctor Appointment", ExplicitIntent: AppointmentLeaveTime, ApptTimePresent: true},
			want: Result{Intent: AppointmentLeaveTime},
		},
		{
			name: "explicit appointment without time",
			in:   Input{Destination: "123 Main St", ExplicitIntent: AppointmentLeaveTime},
			want: Result{Intent: AppointmentLeaveTime},
		},
		{
			name: "appointment keyword with time",
			in:   Input{Destination: "Dentist at 3pm in 200 Main Street", ApptTimePresent: true},
			want: Result{Intent: AppointmentLeaveTime},
		},
		{
			name: "appointment keyword in origin",
			in:   Input{Origin: "after my meeting at 5", Destination: "Home", ApptTimePresent: true},
			want: Result{Intent: AppointmentLeaveTime},
		},
		{
			name: "appointment keyword without time",
			in:   Input{Destination: "Doctor office"},
			want: Result{Intent: TravelTime},
		},
		{
			name: "appointment beats food",
			in:   Input{Destination: "meeting at thai restaurant at noon", ApptTimePresent: true},
			want: Result{Intent: AppointmentLeaveTime},
		},
		{
			name: "explicit cuisine beats food wording",
			in:   Input{Destination: "sushi place", ExplicitCuisine: "Thai"},
			want: Result{Intent: NearbyFood, Cuisine: "thai"},
		},
		{
			name: "other explicit intent is ignored",
			in:   Input{Destination: "indian food", ExplicitIntent: TravelTime},
			want: Result{Intent: NearbyFood, Cuisine: "indian"},
		},
		{
			name: "empty query",
			in:   Input{},
			want: Result{Intent: Unknown},
		},
		{
			name: "origin only",
			in:   Input{Origin: "Boston"},
			want: Result{Intent: TravelTime},
		},
		{
			name: "default travel",
			in:   Input{Origin: "Boston", Destination: "New York"},
			want: Result{Intent: TravelTime},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.in))
		})
	}
}

func TestParseIntent(t *testing.T) {
	assert.Equal(t, AppointmentLeaveTime, ParseIntent("AppointmentLeaveTime"))
	assert.Equal(t, NearbyFood, ParseIntent(" nearbyfood "))
	assert.Equal(t, TravelTime, ParseIntent("TRAVELTIME"))
	assert.Equal(t, Unknown, ParseIntent(""))
	assert.Equal(t, Unknown, ParseIntent("Teleport"))
}

func TestResult_Flags(t *testing.T) {
	assert.True(t, Result{Intent: NearbyFood}.IsNearbyFood())
	assert.False(t, Result{Intent: NearbyFood}.IsAppointment())
	assert.True(t, Result{Intent: AppointmentLeaveTime}.IsAppointment())
}
