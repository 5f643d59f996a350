// Package session holds the identity of the club administrator logged in to
// this process. The held copy lives in process-scoped storage and is never
// shared with other processes.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"campuspulse/internal/adapters/notify"
	"campuspulse/internal/adapters/storage"
	"campuspulse/internal/application/store"
	"campuspulse/internal/domain/club"
	"campuspulse/internal/domain/slug"
	"campuspulse/internal/validator"
)

// Session errors
var (
	ErrInvalidCredentials = errors.New("invalid club name or password")
	ErrDuplicateName      = errors.New("a club with this name already exists")
	ErrSlugTaken          = errors.New("a club with a similar name already exists")
)

// ClubStore is the part of the store the holder reads and appends to.
type ClubStore interface {
	Snapshot() store.Snapshot
	ReplaceClubs(ctx context.Context, next []club.Club) error
}

// Deps holds dependencies for a Holder.
type Deps struct {
	// Session is process-scoped storage; never the durable backend.
	Session    storage.KV
	Bus        notify.Channel
	Clubs      ClubStore
	Validator  *validator.Validator
	GenerateID func() string
}

// Holder tracks which club, if any, is logged in.
// INVARIANT: the held club, when present, is a full copy including its password
type Holder struct {
	deps Deps
}

// New creates a holder.
// PRE: deps.Session, deps.Clubs and deps.GenerateID are non-nil
func New(deps Deps) *Holder {
	if deps.Bus == nil {
		deps.Bus = notify.NewBus()
	}
	if deps.Validator == nil {
		deps.Validator = validator.New()
	}
	return &Holder{deps: deps}
}

// Login holds the club whose name and password match exactly.
// Passwords are compared in plaintext; unknown club and wrong password are indistinguishable.
// PRE: none
// POST: on success Current returns the club; on failure the session is unchanged
func (h *Holder) Login(ctx context.Context, name, password string) (club.Club, error) {
	clubs := h.deps.Clubs.Snapshot().Clubs
	i := slices.IndexFunc(clubs, func(c club.Club) bool {
		return c.Name == name && c.Password == password
	})
	if i < 0 {
		slog.Info("auth_event", "event", "login_failed", "club_name", name)
		return club.Club{}, ErrInvalidCredentials
	}
	if err := h.hold(ctx, clubs[i]); err != nil {
		return club.Club{}, err
	}
	slog.Info("auth_event", "event", "login_success", "club_id", clubs[i].ID)
	return clubs[i], nil
}

// RegisterInput carries the registration form.
type RegisterInput struct {
	Name     string        `json:"name" validate:"trimmed_min=3"`
	Password string        `json:"password" validate:"min=4"`
	Category club.Category `json:"category" validate:"club_category"`
	// Logo is an optional image URL or data URL.
	Logo string `json:"logo" validate:"omitempty,url|datauri"`
}

// Register creates a club and logs in as it.
// PRE: none
// POST: on success the club is appended to the store and held; on failure the store is unchanged
func (h *Holder) Register(ctx context.Context, input RegisterInput) (club.Club, error) {
	if err := h.deps.Validator.Validate(input); err != nil {
		return club.Club{}, err
	}

	clubs := h.deps.Clubs.Snapshot().Clubs
	s := slug.Make(input.Name)
	if slices.ContainsFunc(clubs, func(c club.Club) bool { return c.Name == input.Name }) {
		return club.Club{}, ErrDuplicateName
	}
	if slices.ContainsFunc(clubs, func(c club.Club) bool { return c.Slug == s || c.ID == s }) {
		return club.Club{}, ErrSlugTaken
	}

	c := club.Club{
		ID:          h.deps.GenerateID(),
		Slug:        s,
		Name:        input.Name,
		Password:    input.Password,
		Category:    input.Category,
		Logo:        input.Logo,
		Description: club.WelcomeDescription(input.Name, input.Category),
	}
	c.Normalize()
	if err := c.Validate(); err != nil {
		return club.Club{}, err
	}

	if err := h.deps.Clubs.ReplaceClubs(ctx, append(clubs, c)); err != nil {
		return club.Club{}, err
	}
	if err := h.hold(ctx, c); err != nil {
		return club.Club{}, err
	}
	slog.Info("auth_event", "event", "club_registered", "club_id", c.ID, "slug", c.Slug)
	return c, nil
}

// Logout clears the session. Logging out with no session is not an error.
func (h *Holder) Logout(ctx context.Context) error {
	if err := h.deps.Session.Remove(ctx, storage.SessionKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	h.announce(ctx)
	slog.Info("auth_event", "event", "logout")
	return nil
}

// Current returns the held club.
// POST: ok is false when nobody is logged in or the held value cannot be read
func (h *Holder) Current(ctx context.Context) (club.Club, bool, error) {
	raw, ok, err := h.deps.Session.Get(ctx, storage.SessionKey)
	if err != nil || !ok {
		return club.Club{}, false, err
	}
	var c club.Club
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return club.Club{}, false, fmt.Errorf("decode session: %w", err)
	}
	c.Normalize()
	return c, true, nil
}

// Refresh replaces the held copy with c when c is the held club.
// Admin edits call this so the session never shows stale profile data.
func (h *Holder) Refresh(ctx context.Context, c club.Club) error {
	cur, ok, err := h.Current(ctx)
	if err != nil || !ok || cur.ID != c.ID {
		return err
	}
	return h.hold(ctx, c)
}

// IsAdminOf reports whether the held club is clubID.
func (h *Holder) IsAdminOf(ctx context.Context, clubID string) bool {
	cur, ok, err := h.Current(ctx)
	return err == nil && ok && cur.ID == clubID
}

func (h *Holder) hold(ctx context.Context, c club.Club) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := h.deps.Session.Set(ctx, storage.SessionKey, string(data)); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	h.announce(ctx)
	return nil
}

func (h *Holder) announce(ctx context.Context) {
	if err := h.deps.Bus.Publish(ctx, notify.Change{Key: storage.SessionKey}); err != nil {
		slog.Warn("auth_event", "event", "publish_failed", "error", err)
	}
}
