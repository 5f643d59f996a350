package orchestrators

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"campuspulse/internal/domain/club"
	"campuspulse/internal/domain/event"
	"campuspulse/internal/domain/slug"
)

// --- Save Event ---

// SaveEventInput carries the event form. An empty ID creates a new event.
type SaveEventInput struct {
	ID               string    `json:"id"`
	ClubID           string    `json:"clubId" validate:"required"`
	Title            string    `json:"title" validate:"min=3"`
	Description      string    `json:"description" validate:"min=10"`
	Date             time.Time `json:"date" validate:"required"`
	Location         string    `json:"location" validate:"min=3"`
	RegistrationLink string    `json:"registrationLink" validate:"url"`
	Image            string    `json:"image"`
	Tags             string    `json:"tags"` // comma separated
}

// SaveEventDeps holds dependencies for SaveEvent.
type SaveEventDeps struct {
	Store      EventStore
	Clubs      ClubLookup
	GenerateID func() string
}

// ExecuteSaveEvent creates or edits an event of input.ClubID.
// New events take the club's category and are placed first; edits keep
// category, gallery and reviews. The slug follows the title in both cases.
// PRE: input passes the event form rules; the club exists
// POST: the event collection holds the saved event with a slug unique within its club
func ExecuteSaveEvent(ctx context.Context, input SaveEventInput, deps SaveEventDeps) (event.Event, error) {
	if err := rules.Validate(input); err != nil {
		return event.Event{}, err
	}

	clubs := deps.Clubs.Snapshot().Clubs
	ci := slices.IndexFunc(clubs, func(c club.Club) bool { return c.ID == input.ClubID })
	if ci < 0 {
		return event.Event{}, ErrClubNotFound
	}
	owner := clubs[ci]

	events := deps.Store.Snapshot().Events
	s := slug.Make(input.Title)
	if slices.ContainsFunc(events, func(e event.Event) bool {
		return e.ClubID == input.ClubID && e.Slug == s && e.ID != input.ID
	}) {
		return event.Event{}, ErrDuplicateEventSlug
	}

	image := input.Image
	if image == "" {
		image = event.DefaultImage(s)
	}

	var saved event.Event
	if input.ID == "" {
		saved = event.Event{
			ID:       deps.GenerateID(),
			ClubID:   owner.ID,
			Category: owner.Category,
		}
	} else {
		i := slices.IndexFunc(events, func(e event.Event) bool { return e.ID == input.ID })
		if i < 0 {
			return event.Event{}, ErrEventNotFound
		}
		if events[i].ClubID != input.ClubID {
			return event.Event{}, ErrNotOwner
		}
		saved = events[i].Clone()
	}
	saved.Slug = s
	saved.Title = input.Title
	saved.Description = input.Description
	saved.Date = input.Date
	saved.Location = input.Location
	saved.RegistrationLink = input.RegistrationLink
	saved.Image = image
	saved.Tags = event.ParseTags(input.Tags)
	saved.Normalize()
	if err := saved.Validate(); err != nil {
		return event.Event{}, err
	}

	if input.ID == "" {
		events = append([]event.Event{saved}, events...)
	} else {
		for i := range events {
			if events[i].ID == saved.ID {
				events[i] = saved
			}
		}
	}
	if err := deps.Store.ReplaceEvents(ctx, events); err != nil {
		return event.Event{}, err
	}

	action := "event_updated"
	if input.ID == "" {
		action = "event_created"
	}
	slog.Info("club_event", "event", action, "club_id", saved.ClubID, "event_id", saved.ID, "slug", saved.Slug)
	return saved, nil
}

// --- Delete Event ---

// DeleteEventInput identifies the event and the club acting on it.
type DeleteEventInput struct {
	ClubID  string
	EventID string
}

// DeleteEventDeps holds dependencies for DeleteEvent.
type DeleteEventDeps struct {
	Store EventStore
}

// ExecuteDeleteEvent removes an event owned by input.ClubID.
// Expenses linked to it keep their now dangling reference.
// PRE: the event exists and belongs to input.ClubID
// POST: the event collection no longer holds the event
func ExecuteDeleteEvent(ctx context.Context, input DeleteEventInput, deps DeleteEventDeps) error {
	events := deps.Store.Snapshot().Events
	i := slices.IndexFunc(events, func(e event.Event) bool { return e.ID == input.EventID })
	if i < 0 {
		return ErrEventNotFound
	}
	if events[i].ClubID != input.ClubID {
		return ErrNotOwner
	}
	if err := deps.Store.ReplaceEvents(ctx, slices.Delete(events, i, i+1)); err != nil {
		return err
	}
	slog.Info("club_event", "event", "event_deleted", "club_id", input.ClubID, "event_id", input.EventID)
	return nil
}
