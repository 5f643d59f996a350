package club

import (
	"errors"
	"slices"
	"strings"
	"time"
)

// Category classifies clubs and, through their owning club, events.
type Category string

// Club categories.
const (
	CategoryAcademic Category = "Academic"
	CategorySports   Category = "Sports"
	CategorySocial   Category = "Social"
	CategoryTech     Category = "Tech"
	CategoryMusic    Category = "Music"
)

// CategoryAll is the filter value that matches every category.
const CategoryAll Category = "All"

// Categories lists the valid categories in display order.
var Categories = []Category{CategoryAcademic, CategorySocial, CategorySports, CategoryMusic, CategoryTech}

// Valid reports whether c is one of the five club categories.
func (c Category) Valid() bool {
	return slices.Contains(Categories, c)
}

// Roster roles.
const (
	RoleLeader = "Leader"
	RoleMember = "Member"
)

// Domain errors
var (
	ErrEmptyID         = errors.New("club id cannot be empty")
	ErrEmptySlug       = errors.New("club slug cannot be empty")
	ErrEmptyName       = errors.New("club name cannot be empty")
	ErrInvalidCategory = errors.New("club category must be Academic, Sports, Social, Tech or Music")
	ErrNegativeBudget  = errors.New("monthly budget cannot be negative")
	ErrInvalidRole     = errors.New("role must be 'Leader' or 'Member'")
	ErrPersonNotFound  = errors.New("team member not found")
	ErrExpenseNotFound = errors.New("expense not found")
)

// Person is a leader or member on a club roster.
type Person struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Branch     string `json:"branch,omitempty"`
	Department string `json:"department,omitempty"`
	Avatar     string `json:"avatar,omitempty"`
}

// Expense is money spent by a club, optionally attributed to one of its events.
// EventID is a weak reference and may dangle.
type Expense struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Amount  float64   `json:"amount"`
	Date    time.Time `json:"date"`
	EventID string    `json:"eventId,omitempty"`
}

// Resource is a labelled link shown on the club profile.
type Resource struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Club is a student organisation.
// INVARIANT: ID and Slug are unique across clubs; Slug is fixed at creation.
// Password is stored and compared in plaintext. This mirrors the existing
// stored data and is not a security boundary.
type Club struct {
	ID            string     `json:"id"`
	Slug          string     `json:"slug"`
	Name          string     `json:"name"`
	Password      string     `json:"password"`
	Category      Category   `json:"category"`
	Logo          string     `json:"logo,omitempty"`
	Description   string     `json:"description,omitempty"`
	Leaders       []Person   `json:"leaders"`
	Members       []Person   `json:"members"`
	Expenses      []Expense  `json:"expenses"`
	MonthlyBudget float64    `json:"monthlyBudget,omitempty"`
	Resources     []Resource `json:"resources"`
	ThemeColor    string     `json:"themeColor,omitempty"`
}

// Validate checks the club's invariants.
// PRE: none
// POST: returns nil if valid, the first violation otherwise
func (c *Club) Validate() error {
	if c.ID == "" {
		return ErrEmptyID
	}
	if c.Slug == "" {
		return ErrEmptySlug
	}
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if !c.Category.Valid() {
		return ErrInvalidCategory
	}
	if c.MonthlyBudget < 0 {
		return ErrNegativeBudget
	}
	return nil
}

// Normalize replaces absent collections with empty ones.
// POST: Leaders, Members, Expenses and Resources are non-nil
func (c *Club) Normalize() {
	if c.Leaders == nil {
		c.Leaders = []Person{}
	}
	if c.Members == nil {
		c.Members = []Person{}
	}
	if c.Expenses == nil {
		c.Expenses = []Expense{}
	}
	if c.Resources == nil {
		c.Resources = []Resource{}
	}
}

// Clone returns a copy that shares no slices with c.
func (c Club) Clone() Club {
	c.Leaders = slices.Clone(c.Leaders)
	c.Members = slices.Clone(c.Members)
	c.Expenses = slices.Clone(c.Expenses)
	c.Resources = slices.Clone(c.Resources)
	c.Normalize()
	return c
}

// People returns leaders followed by members.
func (c *Club) People() []Person {
	out := make([]Person, 0, len(c.Leaders)+len(c.Members))
	out = append(out, c.Leaders...)
	return append(out, c.Members...)
}

// FindPerson looks a roster entry up in either collection.
func (c *Club) FindPerson(id string) (Person, bool) {
	for _, p := range c.People() {
		if p.ID == id {
			return p, true
		}
	}
	return Person{}, false
}

// PutPerson inserts or replaces p, placing it in the collection its role names.
// An edit that keeps the role updates in place; a role change removes the entry
// from one collection and appends it to the other.
// PRE: p.ID is non-empty
// POST: p appears exactly once, in Leaders iff p.Role is RoleLeader
func (c *Club) PutPerson(p Person) error {
	if p.Role != RoleLeader && p.Role != RoleMember {
		return ErrInvalidRole
	}
	target, other := &c.Members, &c.Leaders
	if p.Role == RoleLeader {
		target, other = &c.Leaders, &c.Members
	}
	*other = slices.DeleteFunc(slices.Clone(*other), func(x Person) bool { return x.ID == p.ID })
	if i := slices.IndexFunc(*target, func(x Person) bool { return x.ID == p.ID }); i >= 0 {
		updated := slices.Clone(*target)
		updated[i] = p
		*target = updated
		return nil
	}
	*target = append(slices.Clone(*target), p)
	return nil
}

// RemovePerson deletes the roster entry with id from both collections.
// POST: returns ErrPersonNotFound if no entry had that id
func (c *Club) RemovePerson(id string) error {
	before := len(c.Leaders) + len(c.Members)
	match := func(p Person) bool { return p.ID == id }
	c.Leaders = slices.DeleteFunc(slices.Clone(c.Leaders), match)
	c.Members = slices.DeleteFunc(slices.Clone(c.Members), match)
	if len(c.Leaders)+len(c.Members) == before {
		return ErrPersonNotFound
	}
	return nil
}

// PutExpense inserts e or replaces the expense with the same ID.
func (c *Club) PutExpense(e Expense) {
	if i := slices.IndexFunc(c.Expenses, func(x Expense) bool { return x.ID == e.ID }); i >= 0 {
		updated := slices.Clone(c.Expenses)
		updated[i] = e
		c.Expenses = updated
		return
	}
	c.Expenses = append(slices.Clone(c.Expenses), e)
}

// RemoveExpense deletes the expense with id.
// POST: returns ErrExpenseNotFound if none matched
func (c *Club) RemoveExpense(id string) error {
	before := len(c.Expenses)
	c.Expenses = slices.DeleteFunc(slices.Clone(c.Expenses), func(e Expense) bool { return e.ID == id })
	if len(c.Expenses) == before {
		return ErrExpenseNotFound
	}
	return nil
}

// WelcomeDescription is the profile text given to newly registered clubs.
func WelcomeDescription(name string, category Category) string {
	return "Welcome to " + name + "! We are a new club focused on " + string(category) + ". Join us to learn more."
}
