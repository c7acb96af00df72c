package calendar

import (
	"context"
	"time"
)

// Event is one calendar event as consumed by the ingestion path.
// Start is the zero time when the event carries no start at all; all-day
// events carry midnight UTC of their date.
type Event struct {
	ID          string
	Summary     string
	Location    string
	Description string
	Start       time.Time
	AllDay      bool
	Private     map[string]string
}

// EventSource fetches raw calendar events for a time range. A nil source
// means calendar integration is disabled and callers fall back to local data,
// which keeps the automation logic testable without any live network
// dependency.
type EventSource interface {
	ListEvents(ctx context.Context, timeMin, timeMax time.Time) ([]Event, error)
}
