package event

import (
	"errors"
	"slices"
	"strings"
	"time"

	"campuspulse/internal/domain/club"
)

// Rating bounds for reviews.
const (
	MinRating = 1
	MaxRating = 5
)

// Domain errors
var (
	ErrEmptyID       = errors.New("event id cannot be empty")
	ErrEmptySlug     = errors.New("event slug cannot be empty")
	ErrEmptyClubID   = errors.New("event must belong to a club")
	ErrEmptyTitle    = errors.New("event title cannot be empty")
	ErrMissingDate   = errors.New("event date is required")
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

// Review is feedback left on an event.
// Date is the submission time, independent of the event date.
type Review struct {
	ID      string    `json:"id"`
	Author  string    `json:"author"`
	Rating  int       `json:"rating"`
	Comment string    `json:"comment"`
	Date    time.Time `json:"date"`
}

// Validate checks the review's rating bounds.
func (r *Review) Validate() error {
	if r.Rating < MinRating || r.Rating > MaxRating {
		return ErrInvalidRating
	}
	return nil
}

// Event is a scheduled happening organised by one club.
// INVARIANT: ClubID references an existing club, otherwise the event is orphaned
// and hidden from every view. Slug is unique within the owning club.
type Event struct {
	ID               string        `json:"id"`
	ClubID           string        `json:"clubId"`
	Slug             string        `json:"slug"`
	Title            string        `json:"title"`
	Description      string        `json:"description"`
	Date             time.Time     `json:"date"`
	Location         string        `json:"location"`
	Category         club.Category `json:"category"`
	RegistrationLink string        `json:"registrationLink"`
	Image            string        `json:"image"`
	Tags             []string      `json:"tags"`
	Gallery          []string      `json:"gallery"`
	Reviews          []Review      `json:"reviews"`
}

// Validate checks the event's invariants.
// PRE: none
// POST: returns nil if valid, the first violation otherwise
func (e *Event) Validate() error {
	if e.ID == "" {
		return ErrEmptyID
	}
	if e.Slug == "" {
		return ErrEmptySlug
	}
	if e.ClubID == "" {
		return ErrEmptyClubID
	}
	if strings.TrimSpace(e.Title) == "" {
		return ErrEmptyTitle
	}
	if e.Date.IsZero() {
		return ErrMissingDate
	}
	return nil
}

// Normalize replaces absent collections with empty ones.
// POST: Tags, Gallery and Reviews are non-nil
func (e *Event) Normalize() {
	if e.Tags == nil {
		e.Tags = []string{}
	}
	if e.Gallery == nil {
		e.Gallery = []string{}
	}
	if e.Reviews == nil {
		e.Reviews = []Review{}
	}
}

// Clone returns a copy that shares no slices with e.
func (e Event) Clone() Event {
	e.Tags = slices.Clone(e.Tags)
	e.Gallery = slices.Clone(e.Gallery)
	e.Reviews = slices.Clone(e.Reviews)
	e.Normalize()
	return e
}

// IsUpcoming reports whether the event has not started yet.
// The boundary belongs to upcoming: an event at exactly now is upcoming.
func (e *Event) IsUpcoming(now time.Time) bool {
	return !e.Date.Before(now)
}

// ParseTags splits a comma separated list, trimming blanks and dropping empties.
func ParseTags(raw string) []string {
	tags := []string{}
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// DefaultImage returns the placeholder image used when an event has none.
func DefaultImage(slug string) string {
	return "https://picsum.photos/seed/" + slug + "/600/400"
}
