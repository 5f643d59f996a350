package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campuspulse/internal/application/store"
	"campuspulse/internal/domain/club"
	"campuspulse/internal/domain/event"
)

var fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

// sequentialIDs returns a generator yielding id-1, id-2, ...
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

var errDiskFull = errors.New("disk full")

// mockStore implements ClubStore and EventStore over an in-memory snapshot.
type mockStore struct {
	snap        store.Snapshot
	fail        bool
	clubWrites  int
	eventWrites int
}

// Snapshot returns copies so callers cannot modify the mock's state.
// PRE: none
// POST: returns a deep copy of the current state
func (m *mockStore) Snapshot() store.Snapshot {
	out := store.Snapshot{Clubs: make([]club.Club, len(m.snap.Clubs)), Events: make([]event.Event, len(m.snap.Events))}
	for i, c := range m.snap.Clubs {
		out.Clubs[i] = c.Clone()
	}
	for i, e := range m.snap.Events {
		out.Events[i] = e.Clone()
	}
	return out
}

// ReplaceClubs implements ClubStore.
func (m *mockStore) ReplaceClubs(_ context.Context, next []club.Club) error {
	if m.fail {
		return fmt.Errorf("write clubs: %w: %w", store.ErrStorageUnavailable, errDiskFull)
	}
	m.clubWrites++
	m.snap.Clubs = next
	return nil
}

// ReplaceEvents implements EventStore.
func (m *mockStore) ReplaceEvents(_ context.Context, next []event.Event) error {
	if m.fail {
		return fmt.Errorf("write events: %w: %w", store.ErrStorageUnavailable, errDiskFull)
	}
	m.eventWrites++
	m.snap.Events = next
	return nil
}

func (m *mockStore) club(id string) club.Club {
	for _, c := range m.snap.Clubs {
		if c.ID == id {
			return c
		}
	}
	return club.Club{}
}

func (m *mockStore) event(id string) (event.Event, bool) {
	for _, e := range m.snap.Events {
		if e.ID == id {
			return e, true
		}
	}
	return event.Event{}, false
}

// mockSession records refreshed clubs.
type mockSession struct {
	refreshed []club.Club
}

// Refresh implements SessionRefresher.
func (m *mockSession) Refresh(_ context.Context, c club.Club) error {
	m.refreshed = append(m.refreshed, c)
	return nil
}

func newMockStore() *mockStore {
	tech := club.Club{ID: "tech", Slug: "tech-club", Name: "Tech Club", Password: "tech", Category: club.CategoryTech, MonthlyBudget: 500}
	music := club.Club{ID: "music", Slug: "music-club", Name: "Music Club", Password: "music", Category: club.CategoryMusic}
	tech.Normalize()
	music.Normalize()

	past := event.Event{ID: "past", ClubID: "tech", Slug: "old-meetup", Title: "Old Meetup", Date: fixedTime.Add(-48 * time.Hour), Category: club.CategoryTech}
	future := event.Event{ID: "future", ClubID: "tech", Slug: "hackathon", Title: "Hackathon", Date: fixedTime.Add(48 * time.Hour), Category: club.CategoryTech}
	jam := event.Event{ID: "jam", ClubID: "music", Slug: "jam-night", Title: "Jam Night", Date: fixedTime.Add(-24 * time.Hour), Category: club.CategoryMusic}
	past.Normalize()
	future.Normalize()
	jam.Normalize()

	return &mockStore{snap: store.Snapshot{
		Clubs:  []club.Club{tech, music},
		Events: []event.Event{past, future, jam},
	}}
}

func clubDeps(m *mockStore, s *mockSession) ClubMutationDeps {
	deps := ClubMutationDeps{Store: m, GenerateID: sequentialIDs()}
	if s != nil {
		deps.Session = s
	}
	return deps
}
