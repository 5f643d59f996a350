package orchestrators

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"campuspulse/internal/domain/event"
)

// --- Submit Review ---

// SubmitReviewInput carries the review form.
type SubmitReviewInput struct {
	EventID string `json:"eventId" validate:"required"`
	Author  string `json:"author" validate:"min=2"`
	Rating  int    `json:"rating" validate:"gte=1,lte=5"`
	Comment string `json:"comment" validate:"min=10"`
}

// SubmitReviewDeps holds dependencies for SubmitReview.
type SubmitReviewDeps struct {
	Store      EventStore
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteSubmitReview appends a review to a past event. Anyone may review.
// PRE: input passes the review form rules; the event has already happened
// POST: the event's reviews end with the new review, dated now
func ExecuteSubmitReview(ctx context.Context, input SubmitReviewInput, deps SubmitReviewDeps) (event.Review, error) {
	if err := rules.Validate(input); err != nil {
		return event.Review{}, err
	}
	now := deps.Now()
	r := event.Review{
		ID:      deps.GenerateID(),
		Author:  input.Author,
		Rating:  input.Rating,
		Comment: input.Comment,
		Date:    now,
	}
	if err := r.Validate(); err != nil {
		return event.Review{}, err
	}
	_, err := mutateEvent(ctx, deps.Store, input.EventID, func(e *event.Event) error {
		if e.IsUpcoming(now) {
			return ErrEventNotPast
		}
		e.Reviews = append(e.Reviews, r)
		return nil
	})
	if err != nil {
		return event.Review{}, err
	}
	slog.Info("review_event", "event", "review_submitted", "event_id", input.EventID, "rating", r.Rating)
	return r, nil
}

// --- Gallery ---

// GalleryInput identifies an event's gallery and the club acting on it.
type GalleryInput struct {
	ClubID  string
	EventID string
	Images  []string // image URLs or data URLs
}

// GalleryDeps holds dependencies for the gallery orchestrators.
type GalleryDeps struct {
	Store EventStore
	Now   func() time.Time
}

// ExecuteAddGalleryImages appends images to a past event's gallery.
// PRE: the event belongs to input.ClubID and has already happened
// POST: the gallery ends with input.Images in order
func ExecuteAddGalleryImages(ctx context.Context, input GalleryInput, deps GalleryDeps) (event.Event, error) {
	now := deps.Now()
	images := slices.DeleteFunc(slices.Clone(input.Images), func(s string) bool { return s == "" })
	e, err := mutateEvent(ctx, deps.Store, input.EventID, func(e *event.Event) error {
		if e.ClubID != input.ClubID {
			return ErrNotOwner
		}
		if e.IsUpcoming(now) {
			return ErrEventNotPast
		}
		e.Gallery = append(e.Gallery, images...)
		return nil
	})
	if err != nil {
		return event.Event{}, err
	}
	slog.Info("club_event", "event", "gallery_images_added", "event_id", input.EventID, "count", len(images))
	return e, nil
}

// ExecuteDeleteGalleryImage removes every copy of input.Images[0] from the gallery.
// PRE: the event belongs to input.ClubID and has already happened; exactly one image is named
// POST: returns ErrImageNotFound if the gallery did not contain it
func ExecuteDeleteGalleryImage(ctx context.Context, input GalleryInput, deps GalleryDeps) (event.Event, error) {
	if len(input.Images) != 1 {
		return event.Event{}, ErrImageNotFound
	}
	now := deps.Now()
	target := input.Images[0]
	e, err := mutateEvent(ctx, deps.Store, input.EventID, func(e *event.Event) error {
		if e.ClubID != input.ClubID {
			return ErrNotOwner
		}
		if e.IsUpcoming(now) {
			return ErrEventNotPast
		}
		before := len(e.Gallery)
		e.Gallery = slices.DeleteFunc(e.Gallery, func(s string) bool { return s == target })
		if len(e.Gallery) == before {
			return ErrImageNotFound
		}
		return nil
	})
	if err != nil {
		return event.Event{}, err
	}
	slog.Info("club_event", "event", "gallery_image_deleted", "event_id", input.EventID)
	return e, nil
}
