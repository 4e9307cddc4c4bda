package apptime

import (
	"context"
	"strings"
	"time"
)

// MockResolver is a mock implementation of TimeResolver for testing.
type MockResolver struct {
	// Offsets maps a lower-cased phrase to its distance from now.
	Offsets map[string]time.Duration
	// Calls records every phrase passed to Resolve or Normalize.
	Calls []string
}

// NewMockResolver creates a new MockResolver.
func NewMockResolver(offsets map[string]time.Duration) *MockResolver {
	if offsets == nil {
		offsets = make(map[string]time.Duration)
	}
	return &MockResolver{Offsets: offsets}
}

// Resolve returns now plus the configured offset for text.
func (m *MockResolver) Resolve(_ context.Context, text string, now time.Time) (time.Time, bool) {
	m.Calls = append(m.Calls, text)
	offset, ok := m.Offsets[strings.ToLower(strings.TrimSpace(text))]
	if !ok {
		return time.Time{}, false
	}
	return now.Add(offset).UTC(), true
}

// Normalize parses ISO input directly and resolves everything else like Resolve.
func (m *MockResolver) Normalize(ctx context.Context, input string, now time.Time) (time.Time, bool) {
	if t, ok := ParseISO(input, time.UTC); ok {
		m.Calls = append(m.Calls, input)
		return t, true
	}
	return m.Resolve(ctx, input, now)
}

// Ensure MockResolver implements TimeResolver
var _ TimeResolver = (*MockResolver)(nil)
