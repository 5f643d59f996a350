package orchestrators

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"campuspulse/internal/domain/club"
)

// TestExecuteUpdateProfile_Valid verifies branding changes and that identity is kept.
func TestExecuteUpdateProfile_Valid(t *testing.T) {
	m := newMockStore()
	c, err := ExecuteUpdateProfile(context.Background(), UpdateProfileInput{
		ClubID:      "tech",
		Description: "We build things together every week.",
		ThemeColor:  "#112233",
		Resources: []ResourceInput{
			{Label: "Discord", URL: "https://discord.gg/tech"},
			{ID: "keep", Label: "Wiki", URL: "https://wiki.example.com"},
		},
	}, clubDeps(m, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Name != "Tech Club" || c.Slug != "tech-club" {
		t.Errorf("identity changed: %s/%s", c.Name, c.Slug)
	}
	want := []club.Resource{
		{ID: "id-1", Label: "Discord", URL: "https://discord.gg/tech"},
		{ID: "keep", Label: "Wiki", URL: "https://wiki.example.com"},
	}
	if diff := cmp.Diff(want, m.club("tech").Resources); diff != "" {
		t.Errorf("resources mismatch (-want +got):\n%s", diff)
	}
	if m.club("tech").ThemeColor != "#112233" {
		t.Errorf("theme colour not saved")
	}
}

// TestExecuteUpdateProfile_KeepsUnsetFields verifies empty inputs leave fields alone.
func TestExecuteUpdateProfile_KeepsUnsetFields(t *testing.T) {
	m := newMockStore()
	m.snap.Clubs[0].Description = "Original description."
	m.snap.Clubs[0].Resources = []club.Resource{{ID: "r", Label: "Site", URL: "https://example.com"}}

	c, err := ExecuteUpdateProfile(context.Background(), UpdateProfileInput{ClubID: "tech", Logo: "logo.png"}, clubDeps(m, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Description != "Original description." || len(c.Resources) != 1 || c.Logo != "logo.png" {
		t.Errorf("club = %+v", c)
	}
}

// TestExecuteUpdateProfile_Errors verifies the profile form rules.
func TestExecuteUpdateProfile_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input UpdateProfileInput
	}{
		{"short description", UpdateProfileInput{ClubID: "tech", Description: "Too short"}},
		{"bad colour", UpdateProfileInput{ClubID: "tech", ThemeColor: "purple"}},
		{"resource without label", UpdateProfileInput{ClubID: "tech", Resources: []ResourceInput{{URL: "https://example.com"}}}},
		{"resource bad url", UpdateProfileInput{ClubID: "tech", Resources: []ResourceInput{{Label: "Site", URL: "example"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMockStore()
			if _, err := ExecuteUpdateProfile(context.Background(), tt.input, clubDeps(m, nil)); !errors.Is(err, ErrValidation) {
				t.Errorf("err = %v, want ErrValidation", err)
			}
			if m.clubWrites != 0 {
				t.Errorf("expected no writes")
			}
		})
	}
}
