package destination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name        string
		destination string
		resolved    bool
		want        string
	}{
		{
			name:        "time then in address",
			destination: "Doctor appointment at 11:30am in 1805 Deer Drive PA",
			resolved:    true,
			want:        "1805 Deer Drive PA",
		},
		{
			name:        "compact time then in address",
			destination: "dentist at 1130am in 42 Elm Street, Boston",
			resolved:    true,
			want:        "42 Elm Street, Boston",
		},
		{
			name:        "at sign with dot time",
			destination: "Meeting@9.15 am in 1 Infinite Loop Cupertino",
			resolved:    true,
			want:        "1 Infinite Loop Cupertino",
		},
		{
			name:        "comma separated address",
			destination: "Dentist at 3:15pm, 200 Main Street",
			resolved:    true,
			want:        "200 Main Street",
		},
		{
			name:        "hyphen separated address",
			destination: "Meeting at 1030am-55 Water St NYC",
			resolved:    true,
			want:        "55 Water St NYC",
		},
		{
			name:        "fallback split on last in",
			destination: "Meeting with Bob tomorrow morning in the lobby in 77 Mass Ave Cambridge",
			resolved:    true,
			want:        "77 Mass Ave Cambridge",
		},
		{
			name:        "fallback relative phrase",
			destination: "doctor in 30 minutes in 9 Pine Road",
			resolved:    true,
			want:        "9 Pine Road",
		},
		{
			name:        "capture too short",
			destination: "Doctor appointment at 11:30am in PA",
			resolved:    true,
			want:        "Doctor appointment at 11:30am in PA",
		},
		{
			name:        "no keyword",
			destination: "Lunch at 11:30am in 1805 Deer Drive PA",
			resolved:    true,
			want:        "Lunch at 11:30am in 1805 Deer Drive PA",
		},
		{
			name:        "no time resolved",
			destination: "Doctor appointment at 11:30am in 1805 Deer Drive PA",
			resolved:    false,
			want:        "Doctor appointment at 11:30am in 1805 Deer Drive PA",
		},
		{
			name:        "empty",
			destination: "",
			resolved:    true,
			want:        "",
		},
		{
			name:        "plain address untouched",
			destination: "1805 Deer Drive PA",
			resolved:    true,
			want:        "1805 Deer Drive PA",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.destination, tt.resolved))
		})
	}
}
