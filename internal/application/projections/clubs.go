package projections

import (
	"errors"
	"slices"
	"strings"
	"time"

	"campuspulse/internal/application/store"
	"campuspulse/internal/domain/club"
	"campuspulse/internal/domain/event"
)

// DefaultShowcaseCount is how many clubs the home page features.
const DefaultShowcaseCount = 4

// Lookup errors
var (
	ErrClubNotFound  = errors.New("club not found")
	ErrEventNotFound = errors.New("event not found")
)

// ClubsByID indexes clubs by ID.
func ClubsByID(clubs []club.Club) map[string]club.Club {
	m := make(map[string]club.Club, len(clubs))
	for _, c := range clubs {
		m[c.ID] = c
	}
	return m
}

// FindClubBySlug returns the club whose slug is slug.
func FindClubBySlug(clubs []club.Club, slug string) (club.Club, bool) {
	i := slices.IndexFunc(clubs, func(c club.Club) bool { return c.Slug == slug })
	if i < 0 {
		return club.Club{}, false
	}
	return clubs[i], true
}

// SearchClubs returns clubs whose name or description contains term, case-insensitively.
func SearchClubs(clubs []club.Club, term string) []club.Club {
	term = strings.ToLower(term)
	out := []club.Club{}
	for _, c := range clubs {
		if strings.Contains(strings.ToLower(c.Name), term) || strings.Contains(strings.ToLower(c.Description), term) {
			out = append(out, c)
		}
	}
	return out
}

// ShowcasedClubs returns the first n clubs.
func ShowcasedClubs(clubs []club.Club, n int) []club.Club {
	if n < 0 {
		n = 0
	}
	return slices.Clone(clubs[:min(n, len(clubs))])
}

// ClubPage is the public view of one club.
type ClubPage struct {
	Club     club.Club
	Upcoming []event.Event
	Past     []event.Event
}

// QueryClubPage builds the club page for slug.
// PRE: none
// POST: returns ErrClubNotFound if no club has that slug
func QueryClubPage(snap store.Snapshot, slug string, now time.Time) (ClubPage, error) {
	c, ok := FindClubBySlug(snap.Clubs, slug)
	if !ok {
		return ClubPage{}, ErrClubNotFound
	}
	upcoming, past := PartitionEvents(ClubEvents(snap, c.ID), now)
	return ClubPage{Club: c, Upcoming: upcoming, Past: past}, nil
}

// EventPage is the public view of one event.
type EventPage struct {
	Club    club.Club
	Event   event.Event
	IsPast  bool
	Rating  Rating
	Reviews []event.Review // newest first
}

// QueryEventPage finds eventSlug among the events of the club with clubSlug.
// PRE: none
// POST: returns ErrClubNotFound or ErrEventNotFound when either lookup fails
func QueryEventPage(snap store.Snapshot, clubSlug, eventSlug string, now time.Time) (EventPage, error) {
	c, ok := FindClubBySlug(snap.Clubs, clubSlug)
	if !ok {
		return EventPage{}, ErrClubNotFound
	}
	events := ClubEvents(snap, c.ID)
	i := slices.IndexFunc(events, func(e event.Event) bool { return e.Slug == eventSlug })
	if i < 0 {
		return EventPage{}, ErrEventNotFound
	}
	e := events[i]
	reviews := slices.Clone(e.Reviews)
	slices.SortStableFunc(reviews, func(a, b event.Review) int { return b.Date.Compare(a.Date) })
	if reviews == nil {
		reviews = []event.Review{}
	}
	return EventPage{
		Club:    c,
		Event:   e,
		IsPast:  !e.IsUpcoming(now),
		Rating:  AverageRating(e.Reviews),
		Reviews: reviews,
	}, nil
}
