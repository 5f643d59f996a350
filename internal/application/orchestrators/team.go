package orchestrators

import (
	"context"
	"log/slog"

	"campuspulse/internal/domain/club"
)

// SavePersonInput carries the team member form. An empty PersonID adds a new member.
type SavePersonInput struct {
	ClubID     string `json:"clubId" validate:"required"`
	PersonID   string `json:"id"`
	Name       string `json:"name" validate:"min=2"`
	Role       string `json:"role" validate:"oneof=Leader Member"`
	Email      string `json:"email" validate:"omitempty,email"`
	Phone      string `json:"phone"`
	Branch     string `json:"branch"`
	Department string `json:"department"`
	Avatar     string `json:"avatar"`
}

// ExecuteSavePerson adds or edits a roster entry.
// PRE: input passes the person form rules
// POST: the person is in Leaders iff Role is Leader, and in exactly one collection
func ExecuteSavePerson(ctx context.Context, input SavePersonInput, deps ClubMutationDeps) (club.Person, error) {
	if err := rules.Validate(input); err != nil {
		return club.Person{}, err
	}
	p := club.Person{
		ID:         input.PersonID,
		Name:       input.Name,
		Role:       input.Role,
		Email:      input.Email,
		Phone:      input.Phone,
		Branch:     input.Branch,
		Department: input.Department,
		Avatar:     input.Avatar,
	}
	_, err := mutateClub(ctx, input.ClubID, deps, func(c *club.Club) error {
		if p.ID == "" {
			p.ID = deps.GenerateID()
		} else if _, ok := c.FindPerson(p.ID); !ok {
			return club.ErrPersonNotFound
		}
		return c.PutPerson(p)
	})
	if err != nil {
		return club.Person{}, err
	}
	slog.Info("club_event", "event", "person_saved", "club_id", input.ClubID, "person_id", p.ID, "role", p.Role)
	return p, nil
}

// DeletePersonInput identifies a roster entry.
type DeletePersonInput struct {
	ClubID   string
	PersonID string
}

// ExecuteDeletePerson removes a roster entry from both collections.
func ExecuteDeletePerson(ctx context.Context, input DeletePersonInput, deps ClubMutationDeps) error {
	_, err := mutateClub(ctx, input.ClubID, deps, func(c *club.Club) error {
		return c.RemovePerson(input.PersonID)
	})
	if err != nil {
		return err
	}
	slog.Info("club_event", "event", "person_deleted", "club_id", input.ClubID, "person_id", input.PersonID)
	return nil
}
