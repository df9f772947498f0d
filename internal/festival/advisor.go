/*
Package festival asks the completion model for stocking advice on upcoming
calendar events and keeps the answers that are not SKIP.
*/
package festival

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shanehull/vyapar/internal/ai"
	"github.com/shanehull/vyapar/internal/types"
)

// Advisor produces FestivalAdvice for events in the look-ahead window.
type Advisor struct {
	calendar    CalendarSource
	completer   ai.Completer
	calendarIDs []string
	lookahead   time.Duration
	pace        time.Duration
	now         func() time.Time
	log         logrus.FieldLogger
}

// NewAdvisor builds an Advisor. A nil completer answers SKIP for every event.
func NewAdvisor(cal CalendarSource, completer ai.Completer, calendarIDs []string, lookaheadDays int, pace time.Duration, now func() time.Time, log logrus.FieldLogger) *Advisor {
	return &Advisor{
		calendar:    cal,
		completer:   completer,
		calendarIDs: calendarIDs,
		lookahead:   time.Duration(lookaheadDays) * 24 * time.Hour,
		pace:        pace,
		now:         now,
		log:         log,
	}
}

// Events fetches the window [now, now+lookahead) from every calendar.
// A failing calendar is skipped.
func (a *Advisor) Events(ctx context.Context) []types.CalendarEvent {
	from := a.now().UTC()
	to := from.Add(a.lookahead)

	var all []types.CalendarEvent
	for _, id := range a.calendarIDs {
		events, err := a.calendar.FetchEvents(ctx, id, from, to)
		if err != nil {
			a.log.WithError(err).WithField("calendar", id).Warn("Calendar fetch failed, skipping")
			continue
		}
		all = append(all, events...)
	}
	return all
}

// Advise returns advice for each distinct event name in first-seen order.
// Cancellation stops the loop and returns what was gathered so far.
func (a *Advisor) Advise(ctx context.Context) []types.FestivalAdvice {
	if a.calendar == nil {
		return nil
	}

	seen := make(map[string]struct{})
	var advice []types.FestivalAdvice
	calls := 0

	for _, ev := range a.Events(ctx) {
		if ev.Name == "" {
			continue
		}
		if _, dup := seen[ev.Name]; dup {
			continue
		}
		seen[ev.Name] = struct{}{}

		if a.completer == nil {
			continue
		}

		if calls > 0 && !a.wait(ctx) {
			a.log.Warn("Festival advice interrupted")
			break
		}
		calls++

		text := a.retailAdvice(ctx, ev.Name)
		if IsSkip(text) {
			a.log.WithField("event", ev.Name).Debug("No stocking advice for event")
			continue
		}

		advice = append(advice, types.FestivalAdvice{Event: ev.Name, Start: ev.Start, Advice: text})
	}

	if len(advice) == 0 {
		a.log.WithField("days", int(a.lookahead.Hours()/24)).Info("No retail festivals found in the look-ahead window")
	}
	return advice
}

func (a *Advisor) retailAdvice(ctx context.Context, eventName string) string {
	text, err := a.completer.Complete(ctx, ai.FestivalPrompt(eventName))
	if err != nil {
		a.log.WithError(err).WithField("event", eventName).Warn("Completion failed, treating as SKIP")
		return ai.SkipToken
	}
	return strings.TrimSpace(text)
}

func (a *Advisor) wait(ctx context.Context) bool {
	if a.pace <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(a.pace)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// IsSkip reports whether a completion carries no advice.
func IsSkip(text string) bool {
	text = strings.TrimSpace(text)
	return text == "" || strings.Contains(strings.ToUpper(text), ai.SkipToken)
}
