package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr(), MaxRetries: -1})
	t.Cleanup(func() { client.Close() })
	return srv, client
}

// TestRedisKV_RoundTrip verifies absent keys, writes and removal.
func TestRedisKV_RoundTrip(t *testing.T) {
	ctx := context.Background()
	srv, client := newTestRedis(t)
	kv := NewRedisKV(client)

	if v, ok, err := kv.Get(ctx, ClubsKey); err != nil || ok || v != "" {
		t.Fatalf("Get(absent) = %q, %v, %v; want \"\", false, nil", v, ok, err)
	}

	if err := kv.Set(ctx, ClubsKey, `[{"id":"tech-club"}]`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got, _ := srv.Get(ClubsKey); got != `[{"id":"tech-club"}]` {
		t.Errorf("server value = %q", got)
	}
	v, ok, err := kv.Get(ctx, ClubsKey)
	if err != nil || !ok || v != `[{"id":"tech-club"}]` {
		t.Errorf("Get = %q, %v, %v", v, ok, err)
	}

	if err := kv.Remove(ctx, ClubsKey); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if srv.Exists(ClubsKey) {
		t.Error("key still present after Remove")
	}
	if err := kv.Remove(ctx, ClubsKey); err != nil {
		t.Errorf("Remove(absent): %v", err)
	}
}

// TestRedisKV_Unavailable verifies a lost server surfaces as ErrUnavailable.
func TestRedisKV_Unavailable(t *testing.T) {
	ctx := context.Background()
	srv, client := newTestRedis(t)
	kv := NewRedisKV(client)
	srv.Close()

	if _, _, err := kv.Get(ctx, ClubsKey); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Get err = %v, want ErrUnavailable", err)
	}
	if err := kv.Set(ctx, ClubsKey, "[]"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Set err = %v, want ErrUnavailable", err)
	}
	if err := kv.Remove(ctx, ClubsKey); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Remove err = %v, want ErrUnavailable", err)
	}
}
