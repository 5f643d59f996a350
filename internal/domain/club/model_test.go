package club_test

import (
	"errors"
	"testing"

	"campuspulse/internal/domain/club"
)

// TestClubValidation tests validation of Club.
func TestClubValidation(t *testing.T) {
	valid := func() club.Club {
		return club.Club{ID: "tech-club", Slug: "tech-club", Name: "Tech Club", Password: "tech", Category: club.CategoryTech}
	}
	tests := []struct {
		name    string
		mutate  func(c *club.Club)
		wantErr error
	}{
		{"valid club", func(c *club.Club) {}, nil},
		{"empty id", func(c *club.Club) { c.ID = "" }, club.ErrEmptyID},
		{"empty slug", func(c *club.Club) { c.Slug = "" }, club.ErrEmptySlug},
		{"blank name", func(c *club.Club) { c.Name = "   " }, club.ErrEmptyName},
		{"unknown category", func(c *club.Club) { c.Category = "Chess" }, club.ErrInvalidCategory},
		{"all is not a club category", func(c *club.Club) { c.Category = club.CategoryAll }, club.ErrInvalidCategory},
		{"negative budget", func(c *club.Club) { c.MonthlyBudget = -1 }, club.ErrNegativeBudget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			if err := c.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestClubNormalize verifies absent collections become empty slices.
func TestClubNormalize(t *testing.T) {
	var c club.Club
	c.Normalize()
	if c.Leaders == nil || c.Members == nil || c.Expenses == nil || c.Resources == nil {
		t.Errorf("Normalize() left a nil collection: %+v", c)
	}
}

// TestClubClone verifies a clone shares no backing arrays.
func TestClubClone(t *testing.T) {
	orig := club.Club{ID: "a", Leaders: []club.Person{{ID: "p1", Name: "Ada", Role: club.RoleLeader}}}
	cp := orig.Clone()
	cp.Leaders[0].Name = "Grace"
	if orig.Leaders[0].Name != "Ada" {
		t.Errorf("mutating clone changed original: %q", orig.Leaders[0].Name)
	}
}

// TestPutPerson covers add, in-place edit and role moves.
func TestPutPerson(t *testing.T) {
	t.Run("new member appended to members", func(t *testing.T) {
		c := club.Club{}
		if err := c.PutPerson(club.Person{ID: "p1", Name: "Ada", Role: club.RoleMember}); err != nil {
			t.Fatalf("PutPerson() error = %v", err)
		}
		if len(c.Members) != 1 || len(c.Leaders) != 0 {
			t.Errorf("members=%d leaders=%d, want 1/0", len(c.Members), len(c.Leaders))
		}
	})

	t.Run("edit keeps position", func(t *testing.T) {
		c := club.Club{Members: []club.Person{
			{ID: "p1", Name: "Ada", Role: club.RoleMember},
			{ID: "p2", Name: "Bob", Role: club.RoleMember},
		}}
		if err := c.PutPerson(club.Person{ID: "p1", Name: "Ada L.", Role: club.RoleMember}); err != nil {
			t.Fatalf("PutPerson() error = %v", err)
		}
		if c.Members[0].Name != "Ada L." || len(c.Members) != 2 {
			t.Errorf("members = %+v", c.Members)
		}
	})

	t.Run("role change moves between collections", func(t *testing.T) {
		c := club.Club{
			Leaders: []club.Person{{ID: "l1", Name: "Lee", Role: club.RoleLeader}},
			Members: []club.Person{{ID: "p1", Name: "Ada", Role: club.RoleMember}},
		}
		if err := c.PutPerson(club.Person{ID: "p1", Name: "Ada", Role: club.RoleLeader}); err != nil {
			t.Fatalf("PutPerson() error = %v", err)
		}
		if len(c.Members) != 0 {
			t.Errorf("members = %+v, want empty", c.Members)
		}
		if len(c.Leaders) != 2 || c.Leaders[1].ID != "p1" {
			t.Errorf("leaders = %+v, want p1 appended", c.Leaders)
		}
	})

	t.Run("invalid role", func(t *testing.T) {
		c := club.Club{}
		if err := c.PutPerson(club.Person{ID: "p1", Role: "Captain"}); !errors.Is(err, club.ErrInvalidRole) {
			t.Errorf("PutPerson() error = %v, want ErrInvalidRole", err)
		}
	})
}

// TestRemovePerson verifies deletion searches both collections.
func TestRemovePerson(t *testing.T) {
	c := club.Club{
		Leaders: []club.Person{{ID: "l1", Role: club.RoleLeader}},
		Members: []club.Person{{ID: "m1", Role: club.RoleMember}},
	}
	if err := c.RemovePerson("l1"); err != nil {
		t.Fatalf("RemovePerson(l1) error = %v", err)
	}
	if len(c.Leaders) != 0 || len(c.Members) != 1 {
		t.Errorf("leaders=%d members=%d, want 0/1", len(c.Leaders), len(c.Members))
	}
	if err := c.RemovePerson("nope"); !errors.Is(err, club.ErrPersonNotFound) {
		t.Errorf("RemovePerson(nope) error = %v, want ErrPersonNotFound", err)
	}
}

// TestExpenses verifies expense upsert and removal.
func TestExpenses(t *testing.T) {
	c := club.Club{}
	c.PutExpense(club.Expense{ID: "e1", Name: "Pizza", Amount: 40})
	c.PutExpense(club.Expense{ID: "e1", Name: "Pizza", Amount: 45})
	c.PutExpense(club.Expense{ID: "e2", Name: "Posters", Amount: 10})
	if len(c.Expenses) != 2 || c.Expenses[0].Amount != 45 {
		t.Fatalf("expenses = %+v", c.Expenses)
	}
	if err := c.RemoveExpense("e2"); err != nil {
		t.Fatalf("RemoveExpense() error = %v", err)
	}
	if err := c.RemoveExpense("e2"); !errors.Is(err, club.ErrExpenseNotFound) {
		t.Errorf("second RemoveExpense() error = %v, want ErrExpenseNotFound", err)
	}
}

// TestWelcomeDescription verifies the registration welcome text.
func TestWelcomeDescription(t *testing.T) {
	got := club.WelcomeDescription("Art Club", club.CategorySocial)
	want := "Welcome to Art Club! We are a new club focused on Social. Join us to learn more."
	if got != want {
		t.Errorf("WelcomeDescription() = %q, want %q", got, want)
	}
}
