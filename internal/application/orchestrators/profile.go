package orchestrators

import (
	"context"
	"log/slog"

	"campuspulse/internal/domain/club"
)

// DefaultThemeColor is the accent shown for clubs that never chose one.
const DefaultThemeColor = "#8B5CF6"

// ResourceInput is one labelled link on the profile form.
type ResourceInput struct {
	ID    string `json:"id"`
	Label string `json:"label" validate:"min=1"`
	URL   string `json:"url" validate:"url"`
}

// UpdateProfileInput carries the profile form. Empty strings leave a field as
// it was; a nil Resources leaves the list as it was.
type UpdateProfileInput struct {
	ClubID      string          `json:"clubId" validate:"required"`
	Description string          `json:"description" validate:"omitempty,trimmed_min=10"`
	ThemeColor  string          `json:"themeColor" validate:"omitempty,theme_color"`
	Logo        string          `json:"logo"`
	Resources   []ResourceInput `json:"resources" validate:"omitempty,dive"`
}

// ExecuteUpdateProfile updates a club's branding. Name and slug never change.
// PRE: input passes the profile form rules
// POST: the store and any session holding the club see the new profile
func ExecuteUpdateProfile(ctx context.Context, input UpdateProfileInput, deps ClubMutationDeps) (club.Club, error) {
	if err := rules.Validate(input); err != nil {
		return club.Club{}, err
	}
	c, err := mutateClub(ctx, input.ClubID, deps, func(c *club.Club) error {
		if input.Description != "" {
			c.Description = input.Description
		}
		if input.ThemeColor != "" {
			c.ThemeColor = input.ThemeColor
		}
		if input.Logo != "" {
			c.Logo = input.Logo
		}
		if input.Resources != nil {
			resources := make([]club.Resource, 0, len(input.Resources))
			for _, r := range input.Resources {
				id := r.ID
				if id == "" {
					id = deps.GenerateID()
				}
				resources = append(resources, club.Resource{ID: id, Label: r.Label, URL: r.URL})
			}
			c.Resources = resources
		}
		return nil
	})
	if err != nil {
		return club.Club{}, err
	}
	slog.Info("club_event", "event", "profile_updated", "club_id", input.ClubID)
	return c, nil
}
