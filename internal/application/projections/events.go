package projections

import (
	"slices"
	"strings"
	"time"

	"campuspulse/internal/application/store"
	"campuspulse/internal/domain/club"
	"campuspulse/internal/domain/event"
)

// DateRange bounds a listing by event date. Zero bounds are open.
type DateRange struct {
	From time.Time
	To   time.Time
}

// EventFilter carries the home listing's filter state.
type EventFilter struct {
	Search   string
	Category club.Category // empty or club.CategoryAll matches every category
	Range    DateRange
}

// IsUpcoming reports whether e is at or after now.
// INVARIANT: every event is exactly one of upcoming or past
func IsUpcoming(e event.Event, now time.Time) bool {
	return e.IsUpcoming(now)
}

// PartitionEvents splits events into upcoming (soonest first) and past (most recent first).
// POST: len(upcoming)+len(past) == len(events); neither result is nil
func PartitionEvents(events []event.Event, now time.Time) (upcoming, past []event.Event) {
	upcoming, past = []event.Event{}, []event.Event{}
	for _, e := range events {
		if e.IsUpcoming(now) {
			upcoming = append(upcoming, e)
		} else {
			past = append(past, e)
		}
	}
	slices.SortStableFunc(upcoming, func(a, b event.Event) int { return a.Date.Compare(b.Date) })
	slices.SortStableFunc(past, func(a, b event.Event) int { return b.Date.Compare(a.Date) })
	return upcoming, past
}

// MatchesSearch reports whether term occurs, case-insensitively, in the title,
// the description or any tag. The empty term matches everything.
func MatchesSearch(e event.Event, term string) bool {
	term = strings.ToLower(term)
	if strings.Contains(strings.ToLower(e.Title), term) || strings.Contains(strings.ToLower(e.Description), term) {
		return true
	}
	return slices.ContainsFunc(e.Tags, func(tag string) bool {
		return strings.Contains(strings.ToLower(tag), term)
	})
}

// EndOfDay returns the last instant of t's calendar day in t's location.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// InDateRange reports whether e falls inside r. From is inclusive at its exact
// instant; To includes the whole of its calendar day.
func InDateRange(e event.Event, r DateRange) bool {
	if !r.From.IsZero() && e.Date.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && e.Date.After(EndOfDay(r.To)) {
		return false
	}
	return true
}

// QueryHomeEvents lists the events shown on the home page.
// PRE: none
// POST: only events whose club exists and which pass range, category and search; sorted soonest first
// INVARIANT: an event's category for filtering is its club's category
func QueryHomeEvents(snap store.Snapshot, f EventFilter) []event.Event {
	clubs := ClubsByID(snap.Clubs)
	out := []event.Event{}
	for _, e := range snap.Events {
		c, ok := clubs[e.ClubID]
		if !ok {
			continue
		}
		if !InDateRange(e, f.Range) {
			continue
		}
		if f.Category != "" && f.Category != club.CategoryAll && c.Category != f.Category {
			continue
		}
		if !MatchesSearch(e, f.Search) {
			continue
		}
		out = append(out, e)
	}
	slices.SortStableFunc(out, func(a, b event.Event) int { return a.Date.Compare(b.Date) })
	return out
}

// ClubEvents returns the events owned by clubID, in stored order.
func ClubEvents(snap store.Snapshot, clubID string) []event.Event {
	out := []event.Event{}
	for _, e := range snap.Events {
		if e.ClubID == clubID {
			out = append(out, e)
		}
	}
	return out
}

// CalendarDay groups the events falling on one calendar day.
type CalendarDay struct {
	Key    string // YYYY-MM-DD
	Events []event.Event
}

// CalendarDays groups events by the day they occur in loc, earliest day first.
// Within a day events keep date order.
func CalendarDays(events []event.Event, loc *time.Location) []CalendarDay {
	if loc == nil {
		loc = time.Local
	}
	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, func(a, b event.Event) int { return a.Date.Compare(b.Date) })

	days := []CalendarDay{}
	for _, e := range sorted {
		key := e.Date.In(loc).Format(time.DateOnly)
		if n := len(days); n > 0 && days[n-1].Key == key {
			days[n-1].Events = append(days[n-1].Events, e)
			continue
		}
		days = append(days, CalendarDay{Key: key, Events: []event.Event{e}})
	}
	return days
}
