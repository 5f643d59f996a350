// Package store holds the in-memory snapshot of clubs and events, keeps it in
// step with durable storage and tells watchers when it changes.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"campuspulse/internal/adapters/notify"
	"campuspulse/internal/adapters/storage"
	"campuspulse/internal/domain/club"
	"campuspulse/internal/domain/event"
)

// Store errors
var (
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrCorruptData        = errors.New("stored data is corrupt")
)

// Snapshot is a point-in-time copy of both collections.
type Snapshot struct {
	Clubs   []club.Club
	Events  []event.Event
	Loading bool
}

// Deps holds dependencies for a Store.
type Deps struct {
	Durable storage.KV
	// Bus carries signals between views of this process. A private bus is
	// created when nil.
	Bus notify.Channel
	// Remote carries signals between processes. Optional.
	Remote notify.Channel
	Seed   func(now time.Time) ([]club.Club, []event.Event)
	Now    func() time.Time
	// Origin identifies this process in published changes.
	Origin string
}

// Store is the single source of truth for clubs and events within a process.
// INVARIANT: the snapshot only changes after a successful read or write of durable storage
type Store struct {
	deps Deps

	mu     sync.Mutex
	clubs  []club.Club
	events []event.Event
	loaded bool

	watchMu  sync.Mutex
	watchers []*watcher
	cancels  []func()
}

type watcher struct {
	fn func(Snapshot)
}

// New creates a store. Call Open before use.
// PRE: deps.Durable and deps.Seed are non-nil
func New(deps Deps) *Store {
	if deps.Bus == nil {
		deps.Bus = notify.NewBus()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Store{deps: deps}
}

// Open performs the initial load and subscribes to change signals.
// PRE: Open has not been called
// POST: snapshot reflects durable storage (seeded if it was empty); Loading() is false
func (s *Store) Open(ctx context.Context) error {
	s.cancels = append(s.cancels, s.deps.Bus.Subscribe(s.onChange))
	if s.deps.Remote != nil {
		s.cancels = append(s.cancels, s.deps.Remote.Subscribe(s.onChange))
	}
	if _, err := s.Load(ctx); err != nil {
		return err
	}
	slog.Info("store_event", "event", "opened", "origin", s.deps.Origin)
	return nil
}

// Close removes the store's signal subscriptions. Durable storage is left open.
func (s *Store) Close() error {
	for _, cancel := range s.cancels {
		cancel()
	}
	s.cancels = nil
	return nil
}

// Loading reports whether the first Load has yet to finish.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.loaded
}

// Load reads both collections from durable storage into the snapshot.
// A missing key is initialised from the seed and written back.
// PRE: none
// POST: on success the snapshot equals durable storage; on error the previous snapshot is kept
func (s *Store) Load(ctx context.Context) (Snapshot, error) {
	var seedClubs []club.Club
	var seedEvents []event.Event
	seeded := false
	seedOnce := func() {
		if !seeded {
			seedClubs, seedEvents = s.deps.Seed(s.deps.Now())
			seeded = true
		}
	}

	clubs, err := loadKey(ctx, s.deps.Durable, storage.ClubsKey, func() []club.Club {
		seedOnce()
		return seedClubs
	})
	if err == nil {
		var events []event.Event
		events, err = loadKey(ctx, s.deps.Durable, storage.EventsKey, func() []event.Event {
			seedOnce()
			return seedEvents
		})
		if err == nil {
			s.mu.Lock()
			s.clubs = normalizeClubs(clubs)
			s.events = normalizeEvents(events)
			s.loaded = true
			s.mu.Unlock()
			return s.Snapshot(), nil
		}
	}

	s.mu.Lock()
	s.loaded = true
	s.mu.Unlock()
	slog.Warn("store_event", "event", "load_failed", "error", err)
	return s.Snapshot(), err
}

// loadKey decodes the array under key, writing seed() there first when the key is absent.
func loadKey[T any](ctx context.Context, kv storage.KV, key string, seed func() []T) ([]T, error) {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w: %w", key, ErrStorageUnavailable, err)
	}
	if !ok {
		items := seed()
		data, err := json.Marshal(items)
		if err != nil {
			return nil, fmt.Errorf("encode seed %s: %w", key, err)
		}
		if err := kv.Set(ctx, key, string(data)); err != nil {
			return nil, fmt.Errorf("seed %s: %w: %w", key, ErrStorageUnavailable, err)
		}
		slog.Info("store_event", "event", "seeded", "key", key, "count", len(items))
		return items, nil
	}
	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w: %w", key, ErrCorruptData, err)
	}
	return items, nil
}

// Snapshot returns a copy of the current state that callers may modify freely.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Clubs:   normalizeClubs(s.clubs),
		Events:  normalizeEvents(s.events),
		Loading: !s.loaded,
	}
}

// ReplaceClubs persists next as the whole club collection.
// PRE: next holds unique ids and slugs
// POST: on success the snapshot and durable storage hold next and a change is published;
// on error nothing changed and nothing was published
func (s *Store) ReplaceClubs(ctx context.Context, next []club.Club) error {
	next = normalizeClubs(next)
	if err := s.write(ctx, storage.ClubsKey, next); err != nil {
		return err
	}
	s.mu.Lock()
	s.clubs = next
	s.mu.Unlock()
	s.publish(ctx, storage.ClubsKey, len(next))
	return nil
}

// ReplaceEvents persists next as the whole event collection.
// PRE: next holds unique ids
// POST: as ReplaceClubs
func (s *Store) ReplaceEvents(ctx context.Context, next []event.Event) error {
	next = normalizeEvents(next)
	if err := s.write(ctx, storage.EventsKey, next); err != nil {
		return err
	}
	s.mu.Lock()
	s.events = next
	s.mu.Unlock()
	s.publish(ctx, storage.EventsKey, len(next))
	return nil
}

// ResetToSeed overwrites both collections with fresh seed data.
func (s *Store) ResetToSeed(ctx context.Context) error {
	clubs, events := s.deps.Seed(s.deps.Now())
	if err := s.ReplaceClubs(ctx, clubs); err != nil {
		return err
	}
	if err := s.ReplaceEvents(ctx, events); err != nil {
		return err
	}
	slog.Info("store_event", "event", "reset_to_seed", "clubs", len(clubs), "events", len(events))
	return nil
}

func (s *Store) write(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.deps.Durable.Set(ctx, key, string(data)); err != nil {
		slog.Error("store_event", "event", "write_failed", "key", key, "error", err)
		return fmt.Errorf("write %s: %w: %w", key, ErrStorageUnavailable, err)
	}
	return nil
}

func (s *Store) publish(ctx context.Context, key string, count int) {
	slog.Info("store_event", "event", "replaced", "key", key, "count", count)
	c := notify.Change{Key: key, Origin: s.deps.Origin}
	if err := s.deps.Bus.Publish(ctx, c); err != nil {
		slog.Warn("store_event", "event", "publish_failed", "channel", "bus", "key", key, "error", err)
	}
	if s.deps.Remote == nil {
		return
	}
	if err := s.deps.Remote.Publish(ctx, c); err != nil {
		slog.Warn("store_event", "event", "publish_failed", "channel", "remote", "key", key, "error", err)
	}
}

// Watch registers fn to receive the fresh snapshot after every reload.
// The returned func removes fn and may be called more than once.
func (s *Store) Watch(fn func(Snapshot)) (cancel func()) {
	w := &watcher{fn: fn}
	s.watchMu.Lock()
	s.watchers = append(s.watchers, w)
	s.watchMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.watchMu.Lock()
			s.watchers = slices.DeleteFunc(s.watchers, func(x *watcher) bool { return x == w })
			s.watchMu.Unlock()
		})
	}
}

// onChange reloads on any change to a collection key; the session key is ignored.
func (s *Store) onChange(c notify.Change) {
	if c.Key != storage.ClubsKey && c.Key != storage.EventsKey {
		return
	}
	snap, err := s.Load(context.Background())
	if err != nil {
		return
	}
	s.watchMu.Lock()
	ws := slices.Clone(s.watchers)
	s.watchMu.Unlock()
	for _, w := range ws {
		w.fn(snap)
	}
}

func normalizeClubs(in []club.Club) []club.Club {
	out := make([]club.Club, len(in))
	for i, c := range in {
		out[i] = c.Clone()
	}
	return out
}

func normalizeEvents(in []event.Event) []event.Event {
	out := make([]event.Event, len(in))
	for i, e := range in {
		out[i] = e.Clone()
	}
	return out
}
