package calendar

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"podtrack/internal/config"
)

// GoogleSource reads events from the Google Calendar API.
type GoogleSource struct {
	svc        *gcal.Service
	calendarID string
}

var _ EventSource = (*GoogleSource)(nil)

// NewGoogleSource builds an EventSource for the configured calendar, or nil
// when integration is disabled. Credential errors are returned so the caller
// can decide whether to degrade or fail.
func NewGoogleSource(ctx context.Context, cfg config.Config) (*GoogleSource, error) {
	if !cfg.CalendarEnabled {
		return nil, nil
	}

	var opts []option.ClientOption
	switch {
	case cfg.GoogleCredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.GoogleCredentialsJSON)))
	case cfg.GoogleCredentialsPath != "":
		opts = append(opts, option.WithCredentialsFile(cfg.GoogleCredentialsPath))
	default:
		return nil, errors.New("calendar enabled but no Google credentials configured")
	}
	opts = append(opts, option.WithScopes(gcal.CalendarReadonlyScope))

	svc, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Calendar service: %w", err)
	}

	log.Println("Google Calendar service initialized")
	return &GoogleSource{svc: svc, calendarID: cfg.CalendarID}, nil
}

// ListEvents fetches single (non-recurring-expanded) events ordered by start
// time within [timeMin, timeMax).
func (g *GoogleSource) ListEvents(ctx context.Context, timeMin, timeMax time.Time) ([]Event, error) {
	res, err := g.svc.Events.List(g.calendarID).
		TimeMin(timeMin.UTC().Format(time.RFC3339)).
		TimeMax(timeMax.UTC().Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("calendar events list: %w", err)
	}

	events := make([]Event, 0, len(res.Items))
	for _, it := range res.Items {
		ev := Event{
			ID:          it.Id,
			Summary:     it.Summary,
			Location:    it.Location,
			Description: it.Description,
		}
		if it.Start != nil {
			if it.Start.DateTime != "" {
				t, perr := time.Parse(time.RFC3339, it.Start.DateTime)
				if perr != nil {
					log.Printf("Skipping unparseable start time %q for event %s: %v", it.Start.DateTime, it.Id, perr)
				} else {
					ev.Start = t.UTC()
				}
			} else if it.Start.Date != "" {
				// All-day events carry a bare date, treated as midnight UTC.
				t, perr := time.Parse("2006-01-02", it.Start.Date)
				if perr != nil {
					log.Printf("Skipping unparseable start date %q for event %s: %v", it.Start.Date, it.Id, perr)
				} else {
					ev.Start = t.UTC()
					ev.AllDay = true
				}
			}
		}
		if it.ExtendedProperties != nil {
			ev.Private = it.ExtendedProperties.Private
		}
		events = append(events, ev)
	}
	return events, nil
}
