package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"campuspulse/internal/application/store"
	"campuspulse/internal/domain/club"
	"campuspulse/internal/domain/event"
	"campuspulse/internal/validator"
)

// ErrValidation is wrapped by every form-rule failure.
var ErrValidation = validator.ErrInvalid

// Orchestrator errors
var (
	ErrClubNotFound       = errors.New("club not found")
	ErrEventNotFound      = errors.New("event not found")
	ErrNotOwner           = errors.New("event belongs to another club")
	ErrDuplicateEventSlug = errors.New("this club already has an event with that title")
	ErrEventNotPast       = errors.New("event has not happened yet")
	ErrImageNotFound      = errors.New("image not in gallery")
)

// rules checks the form tags on every input struct.
var rules = validator.New()

// ClubLookup reads the current collections.
type ClubLookup interface {
	Snapshot() store.Snapshot
}

// ClubStore is the store surface used by club mutations.
type ClubStore interface {
	Snapshot() store.Snapshot
	ReplaceClubs(ctx context.Context, next []club.Club) error
}

// EventStore is the store surface used by event mutations.
type EventStore interface {
	Snapshot() store.Snapshot
	ReplaceEvents(ctx context.Context, next []event.Event) error
}

// SessionRefresher keeps the logged-in copy of a club current.
type SessionRefresher interface {
	Refresh(ctx context.Context, c club.Club) error
}

// ClubMutationDeps holds dependencies shared by every club mutation.
type ClubMutationDeps struct {
	Store ClubStore
	// Session is optional; when set the held club is refreshed after each save.
	Session    SessionRefresher
	GenerateID func() string
}

// mutateClub applies fn to a copy of the club with clubID and saves the whole collection.
// PRE: fn leaves ID and Slug untouched
// POST: on success the store and the session hold the updated club
func mutateClub(ctx context.Context, clubID string, deps ClubMutationDeps, fn func(*club.Club) error) (club.Club, error) {
	clubs := deps.Store.Snapshot().Clubs
	i := slices.IndexFunc(clubs, func(c club.Club) bool { return c.ID == clubID })
	if i < 0 {
		return club.Club{}, ErrClubNotFound
	}
	updated := clubs[i].Clone()
	if err := fn(&updated); err != nil {
		return club.Club{}, err
	}
	if err := updated.Validate(); err != nil {
		return club.Club{}, err
	}
	clubs[i] = updated
	if err := deps.Store.ReplaceClubs(ctx, clubs); err != nil {
		return club.Club{}, err
	}
	if deps.Session != nil {
		if err := deps.Session.Refresh(ctx, updated); err != nil {
			slog.Warn("club_event", "event", "session_refresh_failed", "club_id", clubID, "error", err)
		}
	}
	return updated, nil
}

// mutateEvent applies fn to a copy of the event with eventID and saves the whole collection.
func mutateEvent(ctx context.Context, events EventStore, eventID string, fn func(*event.Event) error) (event.Event, error) {
	all := events.Snapshot().Events
	i := slices.IndexFunc(all, func(e event.Event) bool { return e.ID == eventID })
	if i < 0 {
		return event.Event{}, ErrEventNotFound
	}
	updated := all[i].Clone()
	if err := fn(&updated); err != nil {
		return event.Event{}, err
	}
	all[i] = updated
	if err := events.ReplaceEvents(ctx, all); err != nil {
		return event.Event{}, err
	}
	return updated, nil
}
