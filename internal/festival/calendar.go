package festival

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/shanehull/vyapar/internal/types"
)

const allDayLayout = "2006-01-02"

// CalendarSource lists events that start within [from, to).
type CalendarSource interface {
	FetchEvents(ctx context.Context, calendarID string, from, to time.Time) ([]types.CalendarEvent, error)
}

// GoogleCalendar reads public calendars through the Calendar v3 API.
type GoogleCalendar struct {
	svc *calendar.Service
}

// NewGoogleCalendar authenticates with an API key. Extra client options
// (such as an endpoint override) are appended.
func NewGoogleCalendar(ctx context.Context, apiKey string, opts ...option.ClientOption) (*GoogleCalendar, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return &GoogleCalendar{svc: svc}, nil
}

func (g *GoogleCalendar) FetchEvents(ctx context.Context, calendarID string, from, to time.Time) ([]types.CalendarEvent, error) {
	call := g.svc.Events.List(calendarID).
		TimeMin(from.UTC().Format(time.RFC3339)).
		TimeMax(to.UTC().Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime")

	var events []types.CalendarEvent
	err := call.Pages(ctx, func(page *calendar.Events) error {
		for _, item := range page.Items {
			events = append(events, types.CalendarEvent{
				Name:       item.Summary,
				Start:      eventStart(item.Start),
				CalendarID: calendarID,
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list events for %s: %w", calendarID, err)
	}
	return events, nil
}

// eventStart handles both timed and all-day events. Unparseable values yield
// the zero time.
func eventStart(start *calendar.EventDateTime) time.Time {
	if start == nil {
		return time.Time{}
	}
	if start.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, start.DateTime); err == nil {
			return t.UTC()
		}
	}
	if start.Date != "" {
		if t, err := time.Parse(allDayLayout, start.Date); err == nil {
			return t
		}
	}
	return time.Time{}
}
