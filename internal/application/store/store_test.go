package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/redis/go-redis/v9"

	"campuspulse/internal/adapters/notify"
	"campuspulse/internal/adapters/storage"
	"campuspulse/internal/domain/club"
	"campuspulse/internal/domain/event"
	"campuspulse/internal/domain/seed"
)

var fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

// fakeChannel stands in for a cross-process channel. Fire simulates a foreign write.
type fakeChannel struct {
	published []notify.Change
	handlers  []func(notify.Change)
}

func (f *fakeChannel) Publish(_ context.Context, c notify.Change) error {
	f.published = append(f.published, c)
	return nil
}

func (f *fakeChannel) Subscribe(fn func(notify.Change)) func() {
	f.handlers = append(f.handlers, fn)
	return func() {}
}

func (f *fakeChannel) fire(c notify.Change) {
	for _, h := range f.handlers {
		h(c)
	}
}

func newTestStore(t *testing.T, kv storage.KV, bus notify.Channel) *Store {
	t.Helper()
	s := New(Deps{Durable: kv, Bus: bus, Seed: seed.Data, Now: fixedNow, Origin: "test"})
	if err := s.Open(context.Background()); err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// TestOpen_SeedsEmptyStorage verifies first-run seeding and the loading flag.
func TestOpen_SeedsEmptyStorage(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	s := New(Deps{Durable: kv, Seed: seed.Data, Now: fixedNow})
	if !s.Loading() || !s.Snapshot().Loading {
		t.Fatal("expected Loading before Open")
	}
	if err := s.Open(ctx); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if s.Loading() {
		t.Error("expected Loading=false after Open")
	}
	wantClubs, wantEvents := seed.Data(fixedTime)
	snap := s.Snapshot()
	if diff := cmp.Diff(wantClubs, snap.Clubs); diff != "" {
		t.Errorf("clubs mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantEvents, snap.Events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
	for _, key := range []string{storage.ClubsKey, storage.EventsKey} {
		if _, ok, _ := kv.Get(ctx, key); !ok {
			t.Errorf("expected seed persisted under %s", key)
		}
	}
}

// TestReplaceClubs_ReadYourWrites verifies a replace is visible in this store and a second one.
func TestReplaceClubs_ReadYourWrites(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	s := newTestStore(t, kv, nil)

	chess := club.Club{ID: "c-new", Slug: "chess-club", Name: "Chess Club", Password: "pass", Category: club.CategorySocial}
	chess.Normalize()
	next := append(s.Snapshot().Clubs, chess)
	if err := s.ReplaceClubs(ctx, next); err != nil {
		t.Fatalf("ReplaceClubs: %v", err)
	}
	if diff := cmp.Diff(next, s.Snapshot().Clubs); diff != "" {
		t.Errorf("same store mismatch (-want +got):\n%s", diff)
	}

	other := newTestStore(t, kv, nil)
	if diff := cmp.Diff(next, other.Snapshot().Clubs); diff != "" {
		t.Errorf("second store mismatch (-want +got):\n%s", diff)
	}
}

// TestReplaceEvents_NotifiesViewsOnSharedBus verifies a second view reloads synchronously.
func TestReplaceEvents_NotifiesViewsOnSharedBus(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	bus := notify.NewBus()
	writer := newTestStore(t, kv, bus)
	reader := newTestStore(t, kv, bus)

	var seen []Snapshot
	reader.Watch(func(snap Snapshot) { seen = append(seen, snap) })

	next := writer.Snapshot().Events[:2]
	if err := writer.ReplaceEvents(ctx, next); err != nil {
		t.Fatalf("ReplaceEvents: %v", err)
	}
	if len(seen) == 0 {
		t.Fatal("watcher not called before ReplaceEvents returned")
	}
	if diff := cmp.Diff(next, seen[len(seen)-1].Events); diff != "" {
		t.Errorf("watched events mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(next, reader.Snapshot().Events); diff != "" {
		t.Errorf("reader snapshot mismatch (-want +got):\n%s", diff)
	}
}

// TestReplace_PublishesRemote verifies the cross-process channel receives the change.
func TestReplace_PublishesRemote(t *testing.T) {
	ctx := context.Background()
	remote := &fakeChannel{}
	s := New(Deps{Durable: storage.NewMemoryKV(), Remote: remote, Seed: seed.Data, Now: fixedNow, Origin: "tab-a"})
	if err := s.Open(ctx); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if err := s.ReplaceClubs(ctx, s.Snapshot().Clubs); err != nil {
		t.Fatalf("ReplaceClubs: %v", err)
	}
	want := []notify.Change{{Key: storage.ClubsKey, Origin: "tab-a"}}
	if diff := cmp.Diff(want, remote.published); diff != "" {
		t.Errorf("published mismatch (-want +got):\n%s", diff)
	}
}

// TestRemoteChange_Reloads verifies a foreign write reaches watchers and the snapshot.
func TestRemoteChange_Reloads(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	remote := &fakeChannel{}
	s := New(Deps{Durable: kv, Remote: remote, Seed: seed.Data, Now: fixedNow})
	if err := s.Open(ctx); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	calls := 0
	s.Watch(func(Snapshot) { calls++ })

	kv.Set(ctx, storage.ClubsKey, `[{"id":"x","slug":"x","name":"X","password":"p","category":"Tech"}]`)
	remote.fire(notify.Change{Key: storage.SessionKey, Origin: "tab-b"})
	if calls != 0 {
		t.Errorf("session key change triggered %d reloads", calls)
	}
	remote.fire(notify.Change{Key: storage.ClubsKey, Origin: "tab-b"})
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
	clubs := s.Snapshot().Clubs
	if len(clubs) != 1 || clubs[0].ID != "x" {
		t.Errorf("clubs = %+v, want the foreign write", clubs)
	}
}

// TestWatch_Cancel verifies a cancelled watcher is not called.
func TestWatch_Cancel(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, storage.NewMemoryKV(), nil)
	calls := 0
	cancel := s.Watch(func(Snapshot) { calls++ })
	cancel()
	cancel()
	s.ReplaceEvents(ctx, nil)
	if calls != 0 {
		t.Errorf("calls = %d, want 0", calls)
	}
}

// TestReplace_StorageUnavailable verifies failed writes change nothing and notify nobody.
func TestReplace_StorageUnavailable(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	s := newTestStore(t, kv, nil)
	before := s.Snapshot()
	calls := 0
	s.Watch(func(Snapshot) { calls++ })

	kv.Close()
	err := s.ReplaceClubs(ctx, nil)
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("err = %v, want ErrStorageUnavailable", err)
	}
	if !errors.Is(err, storage.ErrUnavailable) {
		t.Errorf("err = %v, want wrapped storage.ErrUnavailable", err)
	}
	if diff := cmp.Diff(before, s.Snapshot()); diff != "" {
		t.Errorf("snapshot changed (-want +got):\n%s", diff)
	}
	if calls != 0 {
		t.Errorf("watchers called %d times after failed write", calls)
	}
}

// TestOpen_CorruptData verifies unparseable data is reported and never overwritten by the seed.
func TestOpen_CorruptData(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	kv.Set(ctx, storage.ClubsKey, "{not json")

	s := New(Deps{Durable: kv, Seed: seed.Data, Now: fixedNow})
	err := s.Open(ctx)
	if !errors.Is(err, ErrCorruptData) {
		t.Fatalf("err = %v, want ErrCorruptData", err)
	}
	defer s.Close()

	raw, _, _ := kv.Get(ctx, storage.ClubsKey)
	if raw != "{not json" {
		t.Errorf("corrupt value overwritten with %q", raw)
	}
	if s.Loading() {
		t.Error("expected Loading=false after a failed load")
	}
	if len(s.Snapshot().Clubs) != 0 {
		t.Error("expected empty snapshot")
	}

	if err := s.ResetToSeed(ctx); err != nil {
		t.Fatalf("ResetToSeed: %v", err)
	}
	if got := len(s.Snapshot().Clubs); got != len(seed.Clubs()) {
		t.Errorf("clubs after reset = %d, want %d", got, len(seed.Clubs()))
	}
}

// TestLoad_NormalizesMissingCollections verifies absent arrays load as empty slices.
func TestLoad_NormalizesMissingCollections(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	kv.Set(ctx, storage.ClubsKey, `[{"id":"c1","slug":"c1","name":"C1","password":"p","category":"Music"}]`)
	kv.Set(ctx, storage.EventsKey, `[{"id":"e1","clubId":"c1","slug":"e1","title":"E1","date":"2026-04-01T18:00:00Z"}]`)

	s := newTestStore(t, kv, nil)
	snap := s.Snapshot()
	c := snap.Clubs[0]
	if c.Leaders == nil || c.Members == nil || c.Expenses == nil || c.Resources == nil {
		t.Errorf("club collections not normalized: %+v", c)
	}
	e := snap.Events[0]
	if e.Tags == nil || e.Gallery == nil || e.Reviews == nil {
		t.Errorf("event collections not normalized: %+v", e)
	}
}

// TestSnapshot_IsACopy verifies callers cannot mutate store state.
func TestSnapshot_IsACopy(t *testing.T) {
	s := newTestStore(t, storage.NewMemoryKV(), nil)
	snap := s.Snapshot()
	snap.Clubs[0].Name = "mutated"
	snap.Events[0].Tags = append(snap.Events[0].Tags[:0], "mutated")

	again := s.Snapshot()
	if again.Clubs[0].Name == "mutated" {
		t.Error("club name leaked into store")
	}
	if len(again.Events[0].Tags) > 0 && again.Events[0].Tags[0] == "mutated" {
		t.Error("event tags leaked into store")
	}
}

// TestReplaceEvents_OverSQLite verifies read-your-writes against the durable backend.
func TestReplaceEvents_OverSQLite(t *testing.T) {
	ctx := context.Background()
	db, err := storage.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()
	if err := storage.InitDB(ctx, db); err != nil {
		t.Fatalf("InitDB: %v", err)
	}

	a := newTestStore(t, storage.NewSQLiteKV(db, "tab-a"), nil)
	next := []event.Event{{
		ID: "e1", ClubID: "tech-club", Slug: "e1", Title: "E1", Date: fixedTime.Add(24 * time.Hour),
	}}
	if err := a.ReplaceEvents(ctx, next); err != nil {
		t.Fatalf("ReplaceEvents: %v", err)
	}

	b := newTestStore(t, storage.NewSQLiteKV(db, "tab-b"), nil)
	got := b.Snapshot().Events
	next[0].Normalize()
	if diff := cmp.Diff(next, got); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

// TestStore_OverRedis verifies seeding through RedisKV and a reload in a
// second store driven by the Redis pub/sub channel.
func TestStore_OverRedis(t *testing.T) {
	ctx := context.Background()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	defer client.Close()
	kv := storage.NewRedisKV(client)

	remoteA := notify.NewRedisChannel(client, "", "tab-a")
	remoteB := notify.NewRedisChannel(client, "", "tab-b")
	for _, ch := range []*notify.RedisChannel{remoteA, remoteB} {
		if err := ch.Start(ctx); err != nil {
			t.Fatalf("Start: %v", err)
		}
		defer ch.Close()
	}

	a := New(Deps{Durable: kv, Remote: remoteA, Seed: seed.Data, Now: fixedNow, Origin: "tab-a"})
	if err := a.Open(ctx); err != nil {
		t.Fatalf("Open a: %v", err)
	}
	defer a.Close()
	if !srv.Exists(storage.ClubsKey) || !srv.Exists(storage.EventsKey) {
		t.Fatal("seed not written to redis")
	}

	b := New(Deps{Durable: kv, Remote: remoteB, Seed: seed.Data, Now: fixedNow, Origin: "tab-b"})
	if err := b.Open(ctx); err != nil {
		t.Fatalf("Open b: %v", err)
	}
	defer b.Close()
	if diff := cmp.Diff(a.Snapshot().Clubs, b.Snapshot().Clubs); diff != "" {
		t.Fatalf("second store did not read the seed (-a +b):\n%s", diff)
	}

	reloaded := make(chan Snapshot, 1)
	cancel := b.Watch(func(s Snapshot) {
		select {
		case reloaded <- s:
		default:
		}
	})
	defer cancel()

	chess := club.Club{ID: "chess", Slug: "chess", Name: "Chess", Password: "pawn", Category: club.CategoryAcademic}
	chess.Normalize()
	if err := a.ReplaceClubs(ctx, append(a.Snapshot().Clubs, chess)); err != nil {
		t.Fatalf("ReplaceClubs: %v", err)
	}

	select {
	case s := <-reloaded:
		if last := s.Clubs[len(s.Clubs)-1]; last.ID != "chess" {
			t.Errorf("last club = %s, want chess", last.ID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("second store never reloaded")
	}
}
