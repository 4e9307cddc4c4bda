package apptime

import (
	"context"
	"time"
)

// Service implements TimeResolver with rule-based parsing.
type Service struct {
	parser *Parser
}

// NewService creates a new resolver service for the given location.
// A nil location means the process-local wall clock.
func NewService(location *time.Location) *Service {
	return &Service{
		parser: NewParser(location),
	}
}

// Resolve parses a free-text phrase relative to now.
func (s *Service) Resolve(_ context.Context, text string, now time.Time) (time.Time, bool) {
	return s.parser.Resolve(text, now)
}

// Normalize accepts an ISO-8601 timestamp or, failing that, a free-text phrase.
func (s *Service) Normalize(_ context.Context, input string, now time.Time) (time.Time, bool) {
	if t, ok := ParseISO(input, s.parser.Location()); ok {
		return t, true
	}
	return s.parser.Resolve(input, now)
}

// Ensure Service implements TimeResolver
var _ TimeResolver = (*Service)(nil)
